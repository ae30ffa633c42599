package system

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/younwookim/motionctl/internal/domain/entity"
	"github.com/younwookim/motionctl/internal/infrastructure/config"
)

// fakeDevice is a scripted InputDevice
type fakeDevice struct {
	move    entity.Vec2
	axis    float64
	pressed map[Action]bool
	just    map[Action]bool
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		pressed: make(map[Action]bool),
		just:    make(map[Action]bool),
	}
}

func (d *fakeDevice) Vector(_, _, _, _ Action) entity.Vec2 { return d.move }
func (d *fakeDevice) Axis(_, _ Action) float64 { return d.axis }
func (d *fakeDevice) Pressed(a Action) bool { return d.pressed[a] }
func (d *fakeDevice) JustPressed(a Action) bool { return d.just[a] }

func (d *fakeDevice) release() {
	d.just = make(map[Action]bool)
}

func newTestInput() (*InputSystem, *fakeDevice) {
	dev := newFakeDevice()
	return NewInputSystem(dev, config.DefaultControllerConfig()), dev
}

var airborne = entity.ContactFlags{}
var grounded = entity.ContactFlags{Grounded: true}

func TestInputSystem_MoveAndAxis(t *testing.T) {
	in, dev := newTestInput()
	dev.move = entity.Vec2{X: 3, Y: 4}
	dev.axis = 2
	dev.pressed[ActionRun] = true

	snap := in.Gather(&entity.MotionState{}, grounded)

	assert.InDelta(t, 1.0, snap.Move.Length(), 1e-9, "move vector is limited to unit length")
	assert.InDelta(t, 0.6, snap.Move.X, 1e-9)
	assert.Equal(t, 1.0, snap.Axis)
	assert.True(t, snap.Run)
}

func TestInputSystem_Jump(t *testing.T) {
	t.Run("latched when below max jumps", func(t *testing.T) {
		in, dev := newTestInput()
		dev.just[ActionJump] = true

		snap := in.Gather(&entity.MotionState{JumpCount: 1}, airborne)
		assert.True(t, snap.JumpRequested)
	})

	t.Run("ignored at max jumps", func(t *testing.T) {
		in, dev := newTestInput()
		dev.just[ActionJump] = true

		snap := in.Gather(&entity.MotionState{JumpCount: 2}, airborne)
		assert.False(t, snap.JumpRequested)
	})

	t.Run("held button does not re-request", func(t *testing.T) {
		in, dev := newTestInput()
		dev.pressed[ActionJump] = true

		snap := in.Gather(&entity.MotionState{}, grounded)
		assert.False(t, snap.JumpRequested)
	})

	t.Run("stays latched until consumed", func(t *testing.T) {
		in, dev := newTestInput()
		dev.just[ActionJump] = true
		in.Gather(&entity.MotionState{}, grounded)
		dev.release()

		assert.True(t, in.Gather(&entity.MotionState{}, grounded).JumpRequested)
		in.Consume()
		assert.False(t, in.Snapshot().JumpRequested)
	})
}

func TestInputSystem_DashOrDive(t *testing.T) {
	tests := []struct {
		name     string
		move     entity.Vec2
		state    entity.MotionState
		contacts entity.ContactFlags
		wantDash bool
		wantDive bool
	}{
		{name: "neutral selects dash", contacts: grounded, wantDash: true},
		{name: "up selects dash", move: entity.Vec2{Y: -1}, contacts: airborne, wantDash: true},
		{name: "down in air selects dive", move: entity.Vec2{Y: 1}, contacts: airborne, wantDive: true},
		{name: "down on ground selects nothing", move: entity.Vec2{Y: 1}, contacts: grounded},
		{name: "dash while dashing ignored", state: entity.MotionState{Ability: entity.AbilityDashing}, contacts: airborne},
		{name: "dive while diving ignored", move: entity.Vec2{Y: 1}, state: entity.MotionState{Ability: entity.AbilityDiving}, contacts: airborne},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, dev := newTestInput()
			dev.move = tt.move
			dev.just[ActionDash] = true

			snap := in.Gather(&tt.state, tt.contacts)

			assert.Equal(t, tt.wantDash, snap.DashRequested)
			assert.Equal(t, tt.wantDive, snap.DiveRequested)
		})
	}
}

func TestInputSystem_DashAndDiveExclusive(t *testing.T) {
	in, dev := newTestInput()
	dev.just[ActionDash] = true
	in.Gather(&entity.MotionState{}, airborne)

	// A later down press switches the pending request to a dive
	dev.move = entity.Vec2{Y: 1}
	snap := in.Gather(&entity.MotionState{}, airborne)

	assert.False(t, snap.DashRequested)
	assert.True(t, snap.DiveRequested)
}
