package system

import (
	"github.com/younwookim/motionctl/internal/domain/entity"
	"github.com/younwookim/motionctl/internal/infrastructure/config"
)

// Action is a named input action
type Action int

const (
	ActionMoveLeft Action = iota
	ActionMoveRight
	ActionMoveUp
	ActionMoveDown
	ActionRun
	ActionJump
	ActionDash
)

// String returns the string representation of the action
func (a Action) String() string {
	switch a {
	case ActionMoveLeft:
		return "MoveLeft"
	case ActionMoveRight:
		return "MoveRight"
	case ActionMoveUp:
		return "MoveUp"
	case ActionMoveDown:
		return "MoveDown"
	case ActionRun:
		return "Run"
	case ActionJump:
		return "Jump"
	case ActionDash:
		return "Dash"
	default:
		return "Unknown"
	}
}

// InputDevice is the input collaborator the gatherer samples
type InputDevice interface {
	// Vector returns a direction built from four actions, length at most 1
	Vector(negX, posX, negY, posY Action) entity.Vec2
	// Axis returns a value in [-1, 1] built from two actions
	Axis(neg, pos Action) float64
	Pressed(a Action) bool
	JustPressed(a Action) bool
}

// InputSystem samples the input device into a normalized snapshot.
// Request edges stay latched until the next physics step consumes them.
type InputSystem struct {
	device   InputDevice
	maxJumps int
	latched  entity.InputSnapshot
}

// NewInputSystem creates a new input system
func NewInputSystem(device InputDevice, cfg *config.ControllerConfig) *InputSystem {
	return &InputSystem{
		device:   device,
		maxJumps: cfg.Jump.MaxJumps,
	}
}

// Gather reads the device for this frame and returns the latched snapshot
func (s *InputSystem) Gather(state *entity.MotionState, contacts entity.ContactFlags) entity.InputSnapshot {
	move := s.device.Vector(ActionMoveLeft, ActionMoveRight, ActionMoveUp, ActionMoveDown).LimitLength(1)

	s.latched.Move = move
	s.latched.Axis = clampAxis(s.device.Axis(ActionMoveLeft, ActionMoveRight))
	s.latched.Run = s.device.Pressed(ActionRun)

	if s.device.JustPressed(ActionJump) && state.JumpCount < s.maxJumps {
		s.latched.JumpRequested = true
	}

	if s.device.JustPressed(ActionDash) {
		if move.Y <= 0 {
			// Neutral or up selects dash
			if !state.Dashing() && !s.latched.DashRequested {
				s.latched.DashRequested = true
				s.latched.DiveRequested = false
			}
		} else if !contacts.Grounded && !state.Diving() && !s.latched.DiveRequested {
			s.latched.DiveRequested = true
			s.latched.DashRequested = false
		}
	}

	return s.latched
}

// Snapshot returns the current latched snapshot without sampling the device
func (s *InputSystem) Snapshot() entity.InputSnapshot {
	return s.latched
}

// Consume clears the request edges after a physics step has seen them
func (s *InputSystem) Consume() {
	s.latched.JumpRequested = false
	s.latched.DashRequested = false
	s.latched.DiveRequested = false
}

func clampAxis(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
