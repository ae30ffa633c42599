package system

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/motionctl/internal/domain/entity"
	"github.com/younwookim/motionctl/internal/infrastructure/config"
)

// dt is a binary-exact step so dash and cling durations land on whole steps
const dt = 1.0 / 64

type abilityHarness struct {
	cfg         *config.ControllerConfig
	sys         *AbilitySystem
	sched       *Scheduler
	state       *entity.MotionState
	input       entity.InputSnapshot
	transitions []entity.Ability
}

func newAbilityHarness() *abilityHarness {
	h := &abilityHarness{
		cfg:   config.DefaultControllerConfig(),
		sched: NewScheduler(),
		state: &entity.MotionState{},
	}
	h.sys = NewAbilitySystem(h.cfg, NewTuning(h.cfg), h.sched, func() entity.InputSnapshot { return h.input })
	h.sys.OnTransition = func(_, to entity.Ability) {
		h.transitions = append(h.transitions, to)
	}
	return h
}

func (h *abilityHarness) step(in entity.InputSnapshot, contacts entity.ContactFlags) entity.Vec2 {
	h.input = in
	v := h.sys.Resolve(h.state, in, contacts, dt)
	h.sched.Tick(dt)
	return v
}

func TestAbilitySystem_JumpFromRest(t *testing.T) {
	h := newAbilityHarness()

	v := h.step(entity.InputSnapshot{JumpRequested: true}, grounded)

	assert.Equal(t, entity.Vec2{X: 0, Y: -256}, v)
	assert.Equal(t, 1, h.state.JumpCount)
	assert.False(t, h.state.JumpRequested)
}

func TestAbilitySystem_DoubleJumpLimit(t *testing.T) {
	h := newAbilityHarness()
	jump := entity.InputSnapshot{JumpRequested: true}

	h.step(jump, grounded)
	v := h.step(jump, airborne)
	assert.Equal(t, -256.0, v.Y)
	assert.Equal(t, 2, h.state.JumpCount)

	v = h.step(jump, airborne)
	assert.Greater(t, v.Y, -256.0, "third jump must not relaunch")
	assert.Equal(t, 2, h.state.JumpCount)
}

func TestAbilitySystem_Horizontal(t *testing.T) {
	t.Run("converges without overshoot", func(t *testing.T) {
		h := newAbilityHarness()
		in := entity.InputSnapshot{Move: entity.Vec2{X: 1}, Axis: 1}

		for i := 0; i < 20; i++ {
			v := h.step(in, grounded)
			require.LessOrEqual(t, v.X, 300.0)
		}
		assert.Equal(t, 300.0, h.state.Velocity.X)
	})

	t.Run("run multiplier", func(t *testing.T) {
		h := newAbilityHarness()
		in := entity.InputSnapshot{Move: entity.Vec2{X: 1}, Axis: 1, Run: true}

		for i := 0; i < 20; i++ {
			h.step(in, grounded)
		}
		assert.Equal(t, 450.0, h.state.Velocity.X)
	})

	t.Run("reversing uses deceleration", func(t *testing.T) {
		h := newAbilityHarness()
		h.state.Velocity.X = 300

		v := h.step(entity.InputSnapshot{Move: entity.Vec2{X: -1}, Axis: -1}, grounded)
		assert.Equal(t, 240.0, v.X)
	})

	t.Run("air acceleration", func(t *testing.T) {
		h := newAbilityHarness()

		v := h.step(entity.InputSnapshot{Move: entity.Vec2{X: 1}, Axis: 1}, airborne)
		assert.Equal(t, 25.0, v.X)
	})

	t.Run("no input decelerates to zero", func(t *testing.T) {
		h := newAbilityHarness()
		h.state.Velocity.X = -50

		assert.Equal(t, 0.0, h.step(entity.InputSnapshot{}, grounded).X)
	})
}

func TestAbilitySystem_Gravity(t *testing.T) {
	t.Run("skipped when grounded", func(t *testing.T) {
		h := newAbilityHarness()
		assert.Equal(t, 0.0, h.step(entity.InputSnapshot{}, grounded).Y)
	})

	t.Run("averages rising velocity", func(t *testing.T) {
		h := newAbilityHarness()
		h.state.Velocity.Y = -256

		// -256 + 512/64 = -248, averaged with -256
		assert.Equal(t, -252.0, h.step(entity.InputSnapshot{}, airborne).Y)
	})

	t.Run("fall multiplier and clamp", func(t *testing.T) {
		h := newAbilityHarness()
		h.state.Velocity.Y = 599

		assert.Equal(t, 600.0, h.step(entity.InputSnapshot{}, airborne).Y)
	})
}

func TestAbilitySystem_AirDash(t *testing.T) {
	h := newAbilityHarness()
	up := entity.InputSnapshot{Move: entity.Vec2{Y: -1}, DashRequested: true}

	v := h.step(up, airborne)
	assert.Equal(t, entity.Vec2{X: 0, Y: -400}, v)
	assert.True(t, h.state.Dashing())

	// 0.5s of dash at dt=1/64 is 32 steps, the first already taken
	for i := 1; i < 31; i++ {
		v = h.step(entity.InputSnapshot{Axis: 1, Move: entity.Vec2{X: 1}}, airborne)
		require.Equal(t, entity.Vec2{X: 0, Y: -400}, v, "step %d", i)
		require.True(t, h.state.Dashing(), "step %d", i)
	}

	h.step(entity.InputSnapshot{Axis: 1, Move: entity.Vec2{X: 1}}, airborne)
	assert.False(t, h.state.Dashing())
	assert.Equal(t, entity.Vec2{X: 300, Y: 0}, h.state.Velocity)

	for i := 0; i < 40; i++ {
		h.step(entity.InputSnapshot{}, airborne)
	}
	assert.Equal(t, []entity.Ability{entity.AbilityDashing, entity.AbilityNone}, h.transitions,
		"completion must fire exactly once")
}

func TestAbilitySystem_GroundDash(t *testing.T) {
	t.Run("uses axis sign", func(t *testing.T) {
		h := newAbilityHarness()
		v := h.step(entity.InputSnapshot{Move: entity.Vec2{X: -0.3}, Axis: -0.3, DashRequested: true}, grounded)
		assert.Equal(t, entity.Vec2{X: -400}, v)
	})

	t.Run("falls back to facing", func(t *testing.T) {
		h := newAbilityHarness()
		h.state.Facing = -1
		v := h.step(entity.InputSnapshot{DashRequested: true}, grounded)
		assert.Equal(t, entity.Vec2{X: -400}, v)
	})
}

func TestAbilitySystem_JumpAndDashSameFrameGrounded(t *testing.T) {
	h := newAbilityHarness()

	v := h.step(entity.InputSnapshot{
		Move:          entity.Vec2{X: 1},
		Axis:          1,
		JumpRequested: true,
		DashRequested: true,
	}, grounded)

	assert.Equal(t, entity.Vec2{X: 400, Y: 0}, v)
	assert.True(t, h.state.Dashing())
	assert.Equal(t, 0, h.state.JumpCount, "the dash owns the velocity so the jump is dropped")
	assert.False(t, h.state.JumpRequested)
}

func TestAbilitySystem_Dive(t *testing.T) {
	t.Run("straight down", func(t *testing.T) {
		h := newAbilityHarness()
		v := h.step(entity.InputSnapshot{Move: entity.Vec2{Y: 1}, DiveRequested: true}, airborne)

		assert.Equal(t, entity.Vec2{X: 0, Y: 800}, v)
		assert.True(t, h.state.Diving())
	})

	t.Run("ignored on ground", func(t *testing.T) {
		h := newAbilityHarness()
		h.step(entity.InputSnapshot{Move: entity.Vec2{Y: 1}, DiveRequested: true}, grounded)

		assert.Equal(t, entity.AbilityNone, h.state.Ability)
	})

	t.Run("ground enter ends dive", func(t *testing.T) {
		h := newAbilityHarness()
		h.step(entity.InputSnapshot{Move: entity.Vec2{Y: 1}, DiveRequested: true}, airborne)
		h.sys.OnGroundEnter(h.state)

		assert.Equal(t, entity.AbilityNone, h.state.Ability)
	})

	t.Run("external completion has no velocity effect", func(t *testing.T) {
		h := newAbilityHarness()
		h.step(entity.InputSnapshot{Move: entity.Vec2{Y: 1}, DiveRequested: true}, airborne)
		h.sys.CompleteDive(h.state)

		assert.Equal(t, entity.AbilityNone, h.state.Ability)
		assert.Equal(t, entity.Vec2{Y: 800}, h.state.Velocity)
	})

	t.Run("jump honored while diving", func(t *testing.T) {
		h := newAbilityHarness()
		h.step(entity.InputSnapshot{Move: entity.Vec2{Y: 1}, DiveRequested: true}, airborne)
		v := h.step(entity.InputSnapshot{JumpRequested: true}, airborne)

		assert.Equal(t, entity.Vec2{X: 0, Y: -256}, v)
		assert.Equal(t, 1, h.state.JumpCount)
		assert.False(t, h.state.JumpRequested)
		assert.True(t, h.state.Diving())
	})
}

var onRightWall = entity.ContactFlags{OnWall: true, WallNormal: entity.Vec2{X: -1}}

func TestAbilitySystem_WallCling(t *testing.T) {
	t.Run("slows descent and pushes into wall", func(t *testing.T) {
		h := newAbilityHarness()
		h.sys.OnWallEnter(h.state)

		v := h.step(entity.InputSnapshot{}, onRightWall)

		// gravity gives 4, halved by the cling modifier
		assert.Equal(t, entity.Vec2{X: 1, Y: 2}, v)
		assert.Equal(t, dt, h.state.ClingTimer)
	})

	t.Run("expires after duration", func(t *testing.T) {
		h := newAbilityHarness()
		h.sys.OnWallEnter(h.state)
		h.state.ClingTimer = h.cfg.WallCling.Duration

		v := h.step(entity.InputSnapshot{}, onRightWall)

		assert.Equal(t, entity.Vec2{X: 0, Y: 4}, v)
		assert.True(t, h.state.WallClinging())
	})

	t.Run("wall exit clears cling with no residual push", func(t *testing.T) {
		h := newAbilityHarness()
		h.sys.OnWallEnter(h.state)
		h.step(entity.InputSnapshot{}, onRightWall)

		h.sys.OnWallExit(h.state)
		assert.False(t, h.state.WallClinging())
		assert.Equal(t, 0.0, h.state.ClingTimer)

		v := h.step(entity.InputSnapshot{}, airborne)
		assert.Equal(t, 0.0, v.X)
	})

	t.Run("wall enter cancels dash", func(t *testing.T) {
		h := newAbilityHarness()
		h.step(entity.InputSnapshot{Move: entity.Vec2{X: 1}, DashRequested: true}, airborne)
		h.sys.OnWallEnter(h.state)
		vel := h.state.Velocity

		h.sched.Tick(1)

		assert.True(t, h.state.WallClinging(), "stale dash completion must not end the cling")
		assert.Equal(t, vel, h.state.Velocity)
	})
}

func TestAbilitySystem_WallJump(t *testing.T) {
	h := newAbilityHarness()
	h.sys.OnWallEnter(h.state)

	v := h.step(entity.InputSnapshot{JumpRequested: true}, onRightWall)

	assert.Equal(t, entity.Vec2{X: -256, Y: -256}, v)
	assert.Equal(t, entity.AbilityNone, h.state.Ability)
	assert.Equal(t, 0.0, h.state.ClingTimer)
	assert.False(t, h.state.JumpRequested)
}

func TestAbilitySystem_SupersededDashCompletion(t *testing.T) {
	h := newAbilityHarness()
	dash := entity.InputSnapshot{Move: entity.Vec2{X: 1}, DashRequested: true}

	h.sys.Resolve(h.state, dash, airborne, dt)
	h.sys.OnWallEnter(h.state)
	h.sys.OnWallExit(h.state)
	h.sched.Tick(0.25)

	h.sys.Resolve(h.state, dash, airborne, dt)
	second := h.state.DashID
	h.sched.Tick(0.25)
	require.True(t, h.state.Dashing(), "first completion must not end the second dash")
	assert.Equal(t, second, h.state.DashID)

	h.sched.Tick(0.25)
	assert.False(t, h.state.Dashing())
}

func TestAbilitySystem_Invariants(t *testing.T) {
	h := newAbilityHarness()
	rng := rand.New(rand.NewSource(7))
	var contacts entity.ContactFlags

	for i := 0; i < 2000; i++ {
		in := entity.InputSnapshot{
			Axis:          float64(rng.Intn(3) - 1),
			Run:           rng.Intn(2) == 0,
			JumpRequested: rng.Intn(3) == 0,
			DashRequested: rng.Intn(8) == 0,
		}
		in.Move = entity.Vec2{X: in.Axis, Y: float64(rng.Intn(3) - 1)}.Normalized()
		if in.Move.Y > 0 && !in.DashRequested {
			in.DiveRequested = rng.Intn(8) == 0
		}

		before := h.state.JumpCount
		h.step(in, contacts)
		require.LessOrEqual(t, h.state.JumpCount, h.cfg.Jump.MaxJumps, "step %d", i)

		entered := false
		next := contacts
		next.Grounded = rng.Intn(4) == 0
		next.OnWall = rng.Intn(6) == 0
		if next.OnWall {
			next.WallNormal = entity.Vec2{X: 1}
		} else {
			next.WallNormal = entity.Vec2{}
		}
		if !contacts.Grounded && next.Grounded {
			h.sys.OnGroundEnter(h.state)
			require.Equal(t, 0, h.state.JumpCount)
			entered = true
		}
		if !contacts.OnWall && next.OnWall {
			h.sys.OnWallEnter(h.state)
			require.Equal(t, 0, h.state.JumpCount)
			entered = true
		}
		if contacts.OnWall && !next.OnWall {
			h.sys.OnWallExit(h.state)
		}
		contacts = next

		if !entered {
			require.GreaterOrEqual(t, h.state.JumpCount, before, "jump count only resets on contact enter")
		}
		if h.state.WallClinging() {
			require.True(t, contacts.OnWall, "cling requires wall contact, step %d", i)
		}
	}
}
