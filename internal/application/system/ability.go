package system

import (
	"github.com/younwookim/motionctl/internal/domain/entity"
	"github.com/younwookim/motionctl/internal/infrastructure/config"
)

// AbilitySystem is the velocity pipeline run once per physics step:
// horizontal movement, gravity, then ability overrides in fixed order.
type AbilitySystem struct {
	config    *config.ControllerConfig
	tuning    Tuning
	scheduler *Scheduler
	input     func() entity.InputSnapshot

	dashSeq uint64

	// OnTransition is called whenever the exclusive ability changes
	OnTransition func(from, to entity.Ability)
}

// NewAbilitySystem creates the resolver.
// input supplies the current snapshot when a scheduled completion fires.
func NewAbilitySystem(cfg *config.ControllerConfig, tuning Tuning, scheduler *Scheduler, input func() entity.InputSnapshot) *AbilitySystem {
	return &AbilitySystem{
		config:    cfg,
		tuning:    tuning,
		scheduler: scheduler,
		input:     input,
	}
}

// Tuning returns the derived constants in use
func (s *AbilitySystem) Tuning() Tuning {
	return s.tuning
}

// Resolve computes the desired velocity for this step and stores it in state.
// Every request latch is consumed whether or not it was honored.
func (s *AbilitySystem) Resolve(state *entity.MotionState, in entity.InputSnapshot, contacts entity.ContactFlags, dt float64) entity.Vec2 {
	state.JumpRequested = in.JumpRequested
	state.DashRequested = in.DashRequested
	state.DiveRequested = in.DiveRequested
	if in.Axis != 0 {
		state.Facing = entity.Sign(in.Axis)
	}

	s.applyHorizontal(state, in, contacts)
	s.applyGravity(state, contacts, dt)

	// Overrides: later stages win
	s.applyDash(state, in, contacts)
	s.applyDive(state, in, contacts)
	s.applyJump(state)
	s.applyWallCling(state, contacts, dt)
	s.applyWallJump(state, contacts)

	state.JumpRequested = false
	state.DashRequested = false
	state.DiveRequested = false
	return state.Velocity
}

// runSpeed returns the steady horizontal speed the input asks for
func (s *AbilitySystem) runSpeed(in entity.InputSnapshot) float64 {
	speed := in.Axis * s.config.Movement.Speed
	if in.Run {
		speed *= s.config.Movement.RunMultiplier
	}
	return speed
}

func (s *AbilitySystem) applyHorizontal(state *entity.MotionState, in entity.InputSnapshot, contacts entity.ContactFlags) {
	if state.Dashing() {
		return // dash owns the horizontal axis
	}

	accel := s.config.Movement.AirAcceleration
	decel := s.config.Movement.AirDeceleration
	if contacts.Grounded {
		accel = s.config.Movement.GroundAcceleration
		decel = s.config.Movement.GroundDeceleration
	}

	vx := state.Velocity.X
	if in.Axis != 0 {
		rate := decel
		if cur := entity.Sign(vx); cur == 0 || cur == entity.Sign(in.Axis) {
			rate = accel
		}
		state.Velocity.X = entity.MoveToward(vx, s.runSpeed(in), rate)
		return
	}
	state.Velocity.X = entity.MoveToward(vx, 0, decel)
}

func (s *AbilitySystem) applyGravity(state *entity.MotionState, contacts entity.ContactFlags, dt float64) {
	if contacts.Grounded || state.Dashing() {
		return
	}

	prev := state.Velocity.Y
	gravity := s.tuning.Gravity
	if prev > 0 {
		gravity *= s.config.Jump.FallMultiplier
	}
	next := prev + gravity*dt

	// Average old and new velocity (trapezoidal step)
	vy := (prev + next) / 2

	maxFall := s.config.Jump.MaxFallSpeed
	if vy > maxFall {
		vy = maxFall
	} else if vy < -maxFall {
		vy = -maxFall
	}
	state.Velocity.Y = vy
}

func (s *AbilitySystem) applyDash(state *entity.MotionState, in entity.InputSnapshot, contacts entity.ContactFlags) {
	if !state.DashRequested || state.Dashing() {
		return
	}

	force := s.tuning.DashForce
	if contacts.Grounded {
		dir := entity.Sign(in.Axis)
		if dir == 0 {
			dir = facing(state)
		}
		state.Velocity = entity.Vec2{X: dir * force}
	} else {
		dir := in.Move.Normalized()
		if dir.IsZero() {
			dir = entity.Vec2{X: facing(state)}
		}
		state.Velocity = dir.Scale(force)
	}

	s.dashSeq++
	id := s.dashSeq
	state.DashID = id
	state.DashRequested = false
	s.setAbility(state, entity.AbilityDashing)

	s.scheduler.Schedule(func() { s.completeDash(state, id) }, s.config.Dash.Duration)
}

// completeDash ends dash id. A dash already replaced by another ability is left alone.
func (s *AbilitySystem) completeDash(state *entity.MotionState, id uint64) {
	if !state.Dashing() || state.DashID != id {
		return
	}
	var in entity.InputSnapshot
	if s.input != nil {
		in = s.input()
	}
	state.Velocity = entity.Vec2{X: s.runSpeed(in)}
	s.setAbility(state, entity.AbilityNone)
}

func (s *AbilitySystem) applyDive(state *entity.MotionState, in entity.InputSnapshot, contacts entity.ContactFlags) {
	if !state.DiveRequested || contacts.Grounded || state.Diving() {
		return
	}

	dir := in.Move.Normalized()
	if dir.IsZero() {
		dir = entity.Vec2{Y: 1}
	}
	state.Velocity = dir.Scale(s.tuning.DashForce * 2)
	state.DiveRequested = false
	s.setAbility(state, entity.AbilityDiving)
}

func (s *AbilitySystem) applyJump(state *entity.MotionState) {
	if !state.JumpRequested || state.JumpCount >= s.config.Jump.MaxJumps {
		return
	}
	if state.Dashing() || state.WallClinging() {
		// Cling turns the request into a wall-jump; a dash owns the velocity
		return
	}
	// A dive keeps its flag and horizontal velocity
	state.Velocity.Y = s.tuning.JumpVelocity
	state.JumpCount++
	state.JumpRequested = false
}

func (s *AbilitySystem) applyWallCling(state *entity.MotionState, contacts entity.ContactFlags, dt float64) {
	if !state.WallClinging() {
		return
	}
	state.ClingTimer += dt
	if state.ClingTimer < s.config.WallCling.Duration {
		state.Velocity.Y *= s.config.WallCling.GravityModifier
		state.Velocity.X = -contacts.WallNormal.X
	}
}

func (s *AbilitySystem) applyWallJump(state *entity.MotionState, contacts entity.ContactFlags) {
	if !state.WallClinging() || !state.JumpRequested {
		return
	}
	jv := s.tuning.JumpVelocity
	state.Velocity = entity.Vec2{X: jv * -contacts.WallNormal.X, Y: jv}
	state.JumpRequested = false
	state.ClingTimer = 0
	s.setAbility(state, entity.AbilityNone)
}

// OnGroundEnter resets dive, jump count and wall-cling
func (s *AbilitySystem) OnGroundEnter(state *entity.MotionState) {
	state.JumpCount = 0
	state.ClingTimer = 0
	if state.Diving() || state.WallClinging() {
		s.setAbility(state, entity.AbilityNone)
	}
}

// OnWallEnter engages wall-cling and resets dive and jump count
func (s *AbilitySystem) OnWallEnter(state *entity.MotionState) {
	state.JumpCount = 0
	state.ClingTimer = 0
	s.setAbility(state, entity.AbilityWallClinging)
}

// OnWallExit resets wall-cling
func (s *AbilitySystem) OnWallExit(state *entity.MotionState) {
	state.ClingTimer = 0
	if state.WallClinging() {
		s.setAbility(state, entity.AbilityNone)
	}
}

// CompleteDive ends a dive from an external trigger. It has no velocity side effect.
func (s *AbilitySystem) CompleteDive(state *entity.MotionState) {
	if state.Diving() {
		s.setAbility(state, entity.AbilityNone)
	}
}

func (s *AbilitySystem) setAbility(state *entity.MotionState, a entity.Ability) {
	from := state.Ability
	state.Ability = a
	if from != a && s.OnTransition != nil {
		s.OnTransition(from, a)
	}
}

func facing(state *entity.MotionState) float64 {
	if state.Facing < 0 {
		return -1
	}
	return 1
}
