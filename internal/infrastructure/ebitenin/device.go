// Package ebitenin reads keyboard and gamepad state through ebiten.
package ebitenin

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/younwookim/motionctl/internal/application/system"
	"github.com/younwookim/motionctl/internal/domain/entity"
)

const stickDeadzone = 0.2

// Binding maps an action to keyboard keys and standard gamepad buttons
type Binding struct {
	Keys    []ebiten.Key
	Buttons []ebiten.StandardGamepadButton
}

// DefaultBindings returns the keyboard and gamepad layout used by the demo
func DefaultBindings() map[system.Action]Binding {
	return map[system.Action]Binding{
		system.ActionMoveLeft: {
			Keys:    []ebiten.Key{ebiten.KeyA, ebiten.KeyArrowLeft},
			Buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonLeftLeft},
		},
		system.ActionMoveRight: {
			Keys:    []ebiten.Key{ebiten.KeyD, ebiten.KeyArrowRight},
			Buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonLeftRight},
		},
		system.ActionMoveUp: {
			Keys:    []ebiten.Key{ebiten.KeyW, ebiten.KeyArrowUp},
			Buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonLeftTop},
		},
		system.ActionMoveDown: {
			Keys:    []ebiten.Key{ebiten.KeyS, ebiten.KeyArrowDown},
			Buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonLeftBottom},
		},
		system.ActionRun: {
			Keys:    []ebiten.Key{ebiten.KeyShiftLeft},
			Buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonFrontBottomRight},
		},
		system.ActionJump: {
			Keys:    []ebiten.Key{ebiten.KeySpace, ebiten.KeyZ},
			Buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonRightBottom},
		},
		system.ActionDash: {
			Keys:    []ebiten.Key{ebiten.KeyX, ebiten.KeyJ},
			Buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonRightLeft},
		},
	}
}

// Device is a system.InputDevice over the keyboard and the first standard gamepad
type Device struct {
	bindings map[system.Action]Binding
	gamepads []ebiten.GamepadID
	pad      ebiten.GamepadID
	hasPad   bool
}

// New creates a device with bindings, or DefaultBindings when nil
func New(bindings map[system.Action]Binding) *Device {
	if bindings == nil {
		bindings = DefaultBindings()
	}
	return &Device{bindings: bindings}
}

// Update refreshes the connected gamepad. Call once per frame before sampling.
func (d *Device) Update() {
	d.gamepads = ebiten.AppendGamepadIDs(d.gamepads[:0])
	d.hasPad = false
	for _, id := range d.gamepads {
		if ebiten.IsStandardGamepadLayoutAvailable(id) {
			d.pad = id
			d.hasPad = true
			return
		}
	}
}

// Pressed reports whether any binding of a is held
func (d *Device) Pressed(a system.Action) bool {
	b := d.bindings[a]
	for _, k := range b.Keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	if d.hasPad {
		for _, btn := range b.Buttons {
			if ebiten.IsStandardGamepadButtonPressed(d.pad, btn) {
				return true
			}
		}
	}
	return false
}

// JustPressed reports whether any binding of a went down this tick
func (d *Device) JustPressed(a system.Action) bool {
	b := d.bindings[a]
	for _, k := range b.Keys {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	if d.hasPad {
		for _, btn := range b.Buttons {
			if inpututil.IsStandardGamepadButtonJustPressed(d.pad, btn) {
				return true
			}
		}
	}
	return false
}

// Axis combines two actions into [-1, 1]. The left stick overrides the
// digital value for the movement pairs when pushed past the deadzone.
func (d *Device) Axis(neg, pos system.Action) float64 {
	return combineAxis(d.Pressed(neg), d.Pressed(pos), d.stick(neg, pos))
}

// Vector builds a direction from four actions, clamped to unit length
func (d *Device) Vector(negX, posX, negY, posY system.Action) entity.Vec2 {
	return entity.Vec2{X: d.Axis(negX, posX), Y: d.Axis(negY, posY)}.LimitLength(1)
}

func (d *Device) stick(neg, pos system.Action) float64 {
	if !d.hasPad {
		return 0
	}
	switch {
	case neg == system.ActionMoveLeft && pos == system.ActionMoveRight:
		return ebiten.StandardGamepadAxisValue(d.pad, ebiten.StandardGamepadAxisLeftStickHorizontal)
	case neg == system.ActionMoveUp && pos == system.ActionMoveDown:
		return ebiten.StandardGamepadAxisValue(d.pad, ebiten.StandardGamepadAxisLeftStickVertical)
	}
	return 0
}

func combineAxis(neg, pos bool, stick float64) float64 {
	if math.Abs(stick) > stickDeadzone {
		return math.Max(-1, math.Min(1, stick))
	}
	v := 0.0
	if neg {
		v -= 1
	}
	if pos {
		v += 1
	}
	return v
}
