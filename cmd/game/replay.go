package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/younwookim/motionctl/internal/application/controller"
	"github.com/younwookim/motionctl/internal/application/replay"
	"github.com/younwookim/motionctl/internal/application/scene/playing"
	"github.com/younwookim/motionctl/internal/domain/entity"
	"github.com/younwookim/motionctl/internal/infrastructure/config"
)

// headlessResult is the state after every replay frame has run
type headlessResult struct {
	Frames   int
	Steps    uint64
	Position entity.Vec2
	State    entity.MotionState
}

func (r headlessResult) String() string {
	return fmt.Sprintf("frames=%d steps=%d pos=(%.2f, %.2f) vel=(%.2f, %.2f) ability=%s jumps=%d",
		r.Frames, r.Steps, r.Position.X, r.Position.Y,
		r.State.Velocity.X, r.State.Velocity.Y, r.State.Ability, r.State.JumpCount)
}

// runHeadless plays data back through a fresh controller with one physics step per frame
func runHeadless(data replay.ReplayData, cfg *config.ControllerConfig, stage *entity.Stage, backend string, logger *slog.Logger) (headlessResult, error) {
	if len(data.Frames) == 0 {
		return headlessResult{}, errors.New("replay has no frames")
	}
	tickRate := data.TickRate
	if tickRate <= 0 {
		tickRate = cfg.Display.TickRate
	}
	if tickRate <= 0 {
		tickRate = 60
	}
	dt := 1.0 / float64(tickRate)

	body, err := playing.NewBody(backend, stage, cfg.Body)
	if err != nil {
		return headlessResult{}, err
	}
	replayer := replay.NewReplayer(data)
	ctrl, err := controller.New(cfg, body, replayer, controller.Options{Logger: logger})
	if err != nil {
		return headlessResult{}, err
	}

	for {
		fi, ok := replayer.Advance()
		if !ok {
			break
		}
		ctrl.Frame(fi.DT)
		ctrl.PhysicsStep(dt)
	}

	logger.Info("headless replay finished", "frames", replayer.TotalFrames(), "backend", backend)
	return headlessResult{
		Frames:   replayer.TotalFrames(),
		Steps:    ctrl.Steps(),
		Position: ctrl.Position(),
		State:    ctrl.State(),
	}, nil
}
