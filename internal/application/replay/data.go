// Package replay records per-frame input and plays it back as an input device.
package replay

import (
	"github.com/younwookim/motionctl/internal/application/system"
	"github.com/younwookim/motionctl/internal/domain/entity"
)

// Version is written into every saved replay
const Version = "2.0"

// FrameInput records input state for a single frame
type FrameInput struct {
	F   int     `json:"f"`             // Frame number
	DT  float64 `json:"dt"`            // Frame delta (seconds)
	MX  float64 `json:"mx,omitempty"`  // Move vector X
	MY  float64 `json:"my,omitempty"`  // Move vector Y
	AX  float64 `json:"ax,omitempty"`  // Horizontal axis
	Run bool    `json:"run,omitempty"` // Run held
	J   bool    `json:"j,omitempty"`   // Jump held
	JP  bool    `json:"jp,omitempty"`  // JumpPressed
	Dsh bool    `json:"dsh,omitempty"` // Dash held
	DP  bool    `json:"dp,omitempty"`  // DashPressed
}

// ReplayData contains all data needed to replay a session
type ReplayData struct {
	Version   string       `json:"version"`
	Stage     string       `json:"stage"`
	Backend   string       `json:"backend,omitempty"`
	TickRate  int          `json:"tickRate"`
	StartTime string       `json:"startTime"`
	Frames    []FrameInput `json:"frames"`
}

// frameDevice answers InputDevice queries from a single recorded frame
type frameDevice struct {
	cur FrameInput
}

func (d *frameDevice) Vector(_, _, _, _ system.Action) entity.Vec2 {
	return entity.Vec2{X: d.cur.MX, Y: d.cur.MY}
}

func (d *frameDevice) Axis(_, _ system.Action) float64 {
	return d.cur.AX
}

func (d *frameDevice) Pressed(a system.Action) bool {
	switch a {
	case system.ActionMoveLeft:
		return d.cur.MX < 0
	case system.ActionMoveRight:
		return d.cur.MX > 0
	case system.ActionMoveUp:
		return d.cur.MY < 0
	case system.ActionMoveDown:
		return d.cur.MY > 0
	case system.ActionRun:
		return d.cur.Run
	case system.ActionJump:
		return d.cur.J
	case system.ActionDash:
		return d.cur.Dsh
	}
	return false
}

func (d *frameDevice) JustPressed(a system.Action) bool {
	switch a {
	case system.ActionJump:
		return d.cur.JP
	case system.ActionDash:
		return d.cur.DP
	}
	return false
}

// capture samples every recorded field of dev
func capture(dev system.InputDevice) FrameInput {
	move := dev.Vector(system.ActionMoveLeft, system.ActionMoveRight, system.ActionMoveUp, system.ActionMoveDown)
	return FrameInput{
		MX:  move.X,
		MY:  move.Y,
		AX:  dev.Axis(system.ActionMoveLeft, system.ActionMoveRight),
		Run: dev.Pressed(system.ActionRun),
		J:   dev.Pressed(system.ActionJump),
		JP:  dev.JustPressed(system.ActionJump),
		Dsh: dev.Pressed(system.ActionDash),
		DP:  dev.JustPressed(system.ActionDash),
	}
}
