package main

import (
	"bytes"
	"encoding/json"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/motionctl/internal/application/replay"
	"github.com/younwookim/motionctl/internal/application/scene/playing"
	"github.com/younwookim/motionctl/internal/application/system"
	"github.com/younwookim/motionctl/internal/domain/entity"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// createTestReplayData holds still for idle frames, then runs right
func createTestReplayData(idle, moving int) replay.ReplayData {
	frames := make([]replay.FrameInput, 0, idle+moving)
	for i := 0; i < idle; i++ {
		frames = append(frames, replay.FrameInput{F: i, DT: 1.0 / 60})
	}
	for i := 0; i < moving; i++ {
		frames = append(frames, replay.FrameInput{F: idle + i, DT: 1.0 / 60, MX: 1, AX: 1})
	}
	return replay.ReplayData{Version: replay.Version, Stage: "demo", TickRate: 60, Frames: frames}
}

func loadDemoStage(t *testing.T) *entity.Stage {
	t.Helper()
	loader, err := newLoader("")
	require.NoError(t, err)
	stageCfg, err := loader.LoadStage("demo")
	require.NoError(t, err)
	return system.LoadStage(stageCfg)
}

func TestEmbeddedConfigs(t *testing.T) {
	_, err := fs.Stat(configFS, "configs/controller.yaml")
	require.NoError(t, err)

	loader, err := newLoader("")
	require.NoError(t, err)
	cfg, err := loader.LoadController("controller.yaml")
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Display.TickRate)
}

func TestReplayIdle_Stable(t *testing.T) {
	loader, _ := newLoader("")
	cfg, err := loader.LoadController("controller.yaml")
	require.NoError(t, err)
	stage := loadDemoStage(t)

	res, err := runHeadless(createTestReplayData(120, 0), cfg, stage, playing.BackendTile, discardLogger())
	require.NoError(t, err)

	assert.Equal(t, 120, res.Frames)
	assert.Equal(t, uint64(120), res.Steps)
	assert.Equal(t, float64(stage.SpawnX), res.Position.X)
	assert.Equal(t, float64(stage.SpawnY), res.Position.Y)
	assert.Equal(t, entity.Vec2{}, res.State.Velocity, "idle body on the floor does not drift")
}

func TestReplayDeterminism(t *testing.T) {
	loader, _ := newLoader("")
	cfg, err := loader.LoadController("controller.yaml")
	require.NoError(t, err)
	data := createTestReplayData(10, 30)

	for _, backend := range []string{playing.BackendTile, playing.BackendChipmunk} {
		t.Run(backend, func(t *testing.T) {
			first, err := runHeadless(data, cfg, loadDemoStage(t), backend, discardLogger())
			require.NoError(t, err)
			second, err := runHeadless(data, cfg, loadDemoStage(t), backend, discardLogger())
			require.NoError(t, err)

			assert.Equal(t, first, second)
			assert.Greater(t, first.Position.X, 48.0, "running right moves the body")
		})
	}
}

func TestRunHeadless_Errors(t *testing.T) {
	loader, _ := newLoader("")
	cfg, err := loader.LoadController("controller.yaml")
	require.NoError(t, err)
	stage := loadDemoStage(t)

	_, err = runHeadless(replay.ReplayData{}, cfg, stage, playing.BackendTile, discardLogger())
	assert.Error(t, err)

	_, err = runHeadless(createTestReplayData(1, 0), cfg, stage, "box2d", discardLogger())
	assert.ErrorIs(t, err, playing.ErrUnknownBackend)
}

func TestRun_Headless(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	raw, err := json.Marshal(createTestReplayData(5, 5))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	f, err := parseFlags([]string{"-replay", path, "-headless"})
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	require.NoError(t, run(f, logger))
	assert.Contains(t, buf.String(), "headless replay finished")
	assert.Contains(t, buf.String(), "frames=10")
}

func TestParseFlags(t *testing.T) {
	f, err := parseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, "demo", f.stage)
	assert.Equal(t, playing.BackendTile, f.backend)
	assert.Equal(t, "controller.yaml", f.controller)

	_, err = parseFlags([]string{"-watch"})
	assert.Error(t, err)
	_, err = parseFlags([]string{"-headless"})
	assert.Error(t, err)
	_, err = parseFlags([]string{"-record", "a.json", "-replay", "b.json"})
	assert.Error(t, err)
}
