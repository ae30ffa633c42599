// Package controller wires the motion systems into the two-clock step order.
package controller

import (
	"fmt"
	"log/slog"

	"github.com/younwookim/motionctl/internal/application/system"
	"github.com/younwookim/motionctl/internal/domain/entity"
	"github.com/younwookim/motionctl/internal/infrastructure/config"
)

// Clock is the timing collaborator's view of the current presentation frame
type Clock struct {
	RefreshRate float64 // frames per second
	TickRate    float64 // physics steps per second
	Fraction    float64 // progress into the current physics step, [0, 1]
}

// Options configures a Controller
type Options struct {
	// Logger receives ability transitions and collision events at Debug.
	// Defaults to slog.Default().
	Logger *slog.Logger
}

// Controller owns the motion state and runs every system in a fixed order.
// Frame runs on the variable presentation clock, PhysicsStep on the fixed physics clock.
type Controller struct {
	cfg    *config.ControllerConfig
	logger *slog.Logger

	state    entity.MotionState
	body     system.Body
	position entity.Vec2
	steps    uint64

	scheduler     *system.Scheduler
	inputSystem   *system.InputSystem
	collision     *system.CollisionSystem
	ability       *system.AbilitySystem
	interpolation *system.InterpolationSystem
}

// New validates cfg, derives tuning and wires the collision handlers
func New(cfg *config.ControllerConfig, body system.Body, device system.InputDevice, opts Options) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("controller: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Controller{
		cfg:           cfg,
		logger:        logger,
		body:          body,
		position:      body.Position(),
		scheduler:     system.NewScheduler(),
		inputSystem:   system.NewInputSystem(device, cfg),
		collision:     system.NewCollisionSystem(),
		interpolation: system.NewInterpolationSystem(body.Position()),
	}
	c.state.Facing = 1

	tuning := system.NewTuning(cfg)
	c.ability = system.NewAbilitySystem(cfg, tuning, c.scheduler, c.inputSystem.Snapshot)
	c.ability.OnTransition = func(from, to entity.Ability) {
		c.logger.Debug("ability transition", "from", from, "to", to, "step", c.steps)
	}

	handlers := []struct {
		event system.CollisionEvent
		fn    func()
	}{
		{system.EventGroundEnter, func() { c.ability.OnGroundEnter(&c.state) }},
		{system.EventWallEnter, func() { c.ability.OnWallEnter(&c.state) }},
		{system.EventWallExit, func() { c.ability.OnWallExit(&c.state) }},
	}
	for _, h := range handlers {
		if err := c.collision.Subscribe(h.event, h.fn); err != nil {
			return nil, fmt.Errorf("controller: subscribe %s: %w", h.event, err)
		}
	}

	logger.Debug("controller ready",
		"gravity", tuning.Gravity,
		"jumpVelocity", tuning.JumpVelocity,
		"dashForce", tuning.DashForce,
	)
	return c, nil
}

// Subscribe adds an observer for a collision event. It fails once the first
// physics step has run.
func (c *Controller) Subscribe(event system.CollisionEvent, fn func()) error {
	return c.collision.Subscribe(event, fn)
}

// Frame samples input and advances scheduled actions by delta seconds
func (c *Controller) Frame(delta float64) {
	c.inputSystem.Gather(&c.state, c.collision.Flags())
	c.scheduler.Tick(delta)
}

// PhysicsStep resolves velocity, moves the body and dispatches contact transitions.
// Handler effects on the motion state are seen by the next step.
func (c *Controller) PhysicsStep(dt float64) {
	c.steps++

	in := c.inputSystem.Snapshot()
	desired := c.ability.Resolve(&c.state, in, c.collision.Flags(), dt)
	c.inputSystem.Consume()

	c.state.Velocity, c.position = c.body.MoveAndSlide(desired, dt)

	for _, ev := range c.collision.Update(c.body) {
		c.logger.Debug("collision", "event", ev, "step", c.steps)
	}
	c.interpolation.Record(c.position)
}

// Present computes the displayed position for this frame
func (c *Controller) Present(clock Clock) entity.Vec2 {
	return c.interpolation.Update(clock.RefreshRate, clock.TickRate, clock.Fraction)
}

// Respawn places the body at pos and starts over from rest. Pending actions are
// dropped without firing and contact history is forgotten, so the first contact
// after the respawn dispatches its enter event.
func (c *Controller) Respawn(pos entity.Vec2) {
	c.body.Place(pos)
	c.scheduler.Clear()
	c.collision.Reset()
	c.inputSystem.Consume()
	c.state = entity.MotionState{Facing: 1}
	c.position = c.body.Position()
	c.interpolation.Teleport(c.position)
	c.logger.Debug("respawn", "x", c.position.X, "y", c.position.Y, "step", c.steps)
}

// CompleteDive ends an active dive from an external trigger
func (c *Controller) CompleteDive() {
	c.ability.CompleteDive(&c.state)
}

// Position returns the physics-resolved world position
func (c *Controller) Position() entity.Vec2 {
	return c.position
}

// DisplayPosition returns the position computed by the last Present
func (c *Controller) DisplayPosition() entity.Vec2 {
	return c.interpolation.Position()
}

// State returns a copy of the motion state
func (c *Controller) State() entity.MotionState {
	return c.state
}

// Flags returns the contact flags from the last physics step
func (c *Controller) Flags() entity.ContactFlags {
	return c.collision.Flags()
}

// Tuning returns the derived physics constants
func (c *Controller) Tuning() system.Tuning {
	return c.ability.Tuning()
}

// Steps returns the number of physics steps run
func (c *Controller) Steps() uint64 {
	return c.steps
}

// PendingActions returns the number of scheduled actions not yet fired
func (c *Controller) PendingActions() int {
	return c.scheduler.Len()
}
