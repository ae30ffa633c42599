// Package playing provides the scene that drives the motion controller.
package playing

import (
	"fmt"
	"image/color"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/younwookim/motionctl/internal/application/controller"
	"github.com/younwookim/motionctl/internal/application/replay"
	"github.com/younwookim/motionctl/internal/application/scene"
	"github.com/younwookim/motionctl/internal/application/state"
	"github.com/younwookim/motionctl/internal/application/system"
	"github.com/younwookim/motionctl/internal/domain/entity"
	"github.com/younwookim/motionctl/internal/infrastructure/config"
)

// Colors for rendering
var (
	colorWall     = color.RGBA{80, 80, 100, 255}
	colorSpike    = color.RGBA{200, 50, 50, 255}
	colorBody     = color.RGBA{100, 200, 100, 255}
	colorDashing  = color.RGBA{100, 180, 255, 255}
	colorDiving   = color.RGBA{255, 160, 60, 255}
	colorClinging = color.RGBA{220, 220, 100, 255}
	colorBG       = color.RGBA{26, 26, 46, 255}
)

// Device is a live input device polled once per tick
type Device interface {
	system.InputDevice
	Update()
}

// Options configures a Playing scene
type Options struct {
	Config   *config.ControllerConfig
	Stage    *entity.Stage
	StageCfg *config.StageConfig
	Backend  string // "tile" or "chipmunk"

	// Device supplies live input. It is ignored while Replay is set.
	Device     Device
	// RecordPath enables recording; the file is written on F5 and on exit.
	RecordPath string
	// Replay drives the controller from recorded frames instead of Device.
	Replay     *replay.ReplayData

	// Watcher and Loader enable reloading ConfigName and the stage on change.
	Watcher    *config.Watcher
	Loader     *config.Loader
	ConfigName string

	Logger *slog.Logger
}

// Playing runs the controller against a stage and draws the result
type Playing struct {
	opts   Options
	cfg    *config.ControllerConfig
	stage  *entity.Stage
	logger *slog.Logger
	state  state.GameState

	ctrl     *controller.Controller
	input    system.InputDevice
	recorder *replay.Recorder
	replayer *replay.Replayer

	screenW int
	screenH int
	dt      float64

	respawns   int
	lastUpdate time.Time

	// seams for tests
	now         func() time.Time
	justPressed func(ebiten.Key) bool
}

// New creates a Playing scene and spawns the controller at the stage spawn point
func New(opts Options) (*Playing, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Config == nil {
		opts.Config = config.DefaultControllerConfig()
	}
	if opts.Stage == nil {
		return nil, fmt.Errorf("playing: stage is required")
	}

	tickRate := opts.Config.Display.TickRate
	if tickRate <= 0 {
		tickRate = 60
	}

	p := &Playing{
		opts:        opts,
		cfg:         opts.Config,
		stage:       opts.Stage,
		logger:      logger,
		state:       state.StatePlaying,
		screenW:     opts.Config.Display.ScreenWidth,
		screenH:     opts.Config.Display.ScreenHeight,
		dt:          1.0 / float64(tickRate),
		now:         time.Now,
		justPressed: inpututil.IsKeyJustPressed,
	}

	switch {
	case opts.Replay != nil:
		p.replayer = replay.NewReplayer(*opts.Replay)
		p.input = p.replayer
		p.state = state.StateReplaying
		if opts.Replay.TickRate > 0 {
			p.dt = 1.0 / float64(opts.Replay.TickRate)
		}
		logger.Info("replaying", "stage", opts.Replay.Stage, "frames", p.replayer.TotalFrames())
	case opts.Device == nil:
		return nil, fmt.Errorf("playing: input device is required")
	case opts.RecordPath != "":
		p.recorder = replay.NewRecorder(opts.Device, p.stageName(), tickRate)
		p.recorder.SetBackend(opts.Backend)
		p.input = p.recorder
		logger.Info("recording enabled", "path", opts.RecordPath)
	default:
		p.input = opts.Device
	}

	if err := p.spawn(); err != nil {
		return nil, err
	}
	return p, nil
}

// spawn rebuilds the body and controller at the stage spawn point
func (p *Playing) spawn() error {
	body, err := NewBody(p.opts.Backend, p.stage, p.cfg.Body)
	if err != nil {
		return fmt.Errorf("playing: %w", err)
	}
	ctrl, err := controller.New(p.cfg, body, p.input, controller.Options{Logger: p.logger})
	if err != nil {
		return fmt.Errorf("playing: %w", err)
	}
	p.ctrl = ctrl
	return nil
}

func (p *Playing) stageName() string {
	if p.opts.StageCfg != nil {
		return p.opts.StageCfg.ID
	}
	return ""
}

// Update runs one tick: frame-clock work, then one physics step (implements scene.Scene)
func (p *Playing) Update(_ float64) (scene.Scene, error) {
	p.lastUpdate = p.now()
	p.pollWatcher()

	if p.justPressed(ebiten.KeyEscape) {
		p.togglePause()
	}
	if p.justPressed(ebiten.KeyF5) {
		p.saveRecording()
	}
	if !p.state.Simulating() {
		return nil, nil
	}

	delta := p.dt
	if p.replayer != nil {
		fi, ok := p.replayer.Advance()
		if !ok {
			p.state = state.StateReplayDone
			pos := p.ctrl.Position()
			p.logger.Info("replay finished", "frames", p.replayer.TotalFrames(), "x", pos.X, "y", pos.Y)
			return nil, nil
		}
		delta = fi.DT
	} else {
		p.opts.Device.Update()
		if p.recorder != nil {
			p.recorder.RecordFrame(delta)
		}
	}

	p.ctrl.Frame(delta)
	p.ctrl.PhysicsStep(p.dt)
	p.checkSpikes()

	return nil, nil // nil = stay on this scene
}

func (p *Playing) togglePause() {
	switch p.state {
	case state.StatePlaying:
		p.state = state.StatePaused
	case state.StatePaused:
		if p.replayer != nil {
			p.state = state.StateReplaying
		} else {
			p.state = state.StatePlaying
		}
	case state.StateReplaying:
		p.state = state.StatePaused
	}
}

// checkSpikes respawns the body when any pixel of it overlaps a spike tile
func (p *Playing) checkSpikes() {
	pos := p.ctrl.Position()
	x, y := int(pos.X), int(pos.Y)
	for py := y; py < y+p.cfg.Body.Height; py++ {
		for px := x; px < x+p.cfg.Body.Width; px++ {
			if p.stage.GetTileAtPixel(px, py).Type != entity.TileSpike {
				continue
			}
			p.respawns++
			p.logger.Info("spike hit, respawning", "x", px, "y", py, "respawns", p.respawns)
			p.ctrl.Respawn(entity.Vec2{X: float64(p.stage.SpawnX), Y: float64(p.stage.SpawnY)})
			return
		}
	}
}

// pollWatcher applies at most one pending config change
func (p *Playing) pollWatcher() {
	if p.opts.Watcher == nil || p.opts.Loader == nil {
		return
	}
	name, ok := p.opts.Watcher.Poll()
	if !ok {
		return
	}

	base := filepath.Base(name)
	switch {
	case base == filepath.Base(p.opts.ConfigName):
		cfg, err := p.opts.Loader.LoadController(p.opts.ConfigName)
		if err != nil {
			p.logger.Warn("config reload failed, keeping current", "file", name, "err", err)
			return
		}
		p.cfg = cfg
	case p.opts.StageCfg != nil && base[:len(base)-len(filepath.Ext(base))] == p.opts.StageCfg.ID:
		stageCfg, err := p.opts.Loader.LoadStage(p.opts.StageCfg.ID)
		if err != nil {
			p.logger.Warn("stage reload failed, keeping current", "file", name, "err", err)
			return
		}
		p.opts.StageCfg = stageCfg
		p.stage = system.LoadStage(stageCfg)
	default:
		return
	}

	if p.recorder != nil && p.recorder.IsRecording() {
		p.logger.Warn("reloaded while recording; the replay will not reproduce this session", "file", name)
	}
	if err := p.spawn(); err != nil {
		p.logger.Error("rebuild after reload failed", "err", err)
		return
	}
	p.logger.Info("reloaded", "file", name)
}

// saveRecording saves the current recording to file
func (p *Playing) saveRecording() {
	if p.recorder == nil {
		return
	}

	filename := p.opts.RecordPath
	if filename == "" {
		filename = replay.GenerateFilename()
	}

	if err := p.recorder.Save(filename); err != nil {
		p.logger.Error("failed to save recording", "path", filename, "err", err)
		return
	}
	p.logger.Info("recording saved", "path", filename, "frames", p.recorder.FrameCount())
}

// clock describes the current draw for the interpolation window
func (p *Playing) clock() controller.Clock {
	tickRate := 1 / p.dt
	refresh := ebiten.ActualFPS()
	if refresh <= 0 {
		refresh = tickRate
	}

	fraction := 1.0
	if !p.lastUpdate.IsZero() {
		fraction = p.now().Sub(p.lastUpdate).Seconds() / p.dt
	}
	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}

	return controller.Clock{RefreshRate: refresh, TickRate: tickRate, Fraction: fraction}
}

// camera centers on pos and clamps to the stage bounds
func (p *Playing) camera(pos entity.Vec2) (int, int) {
	camX := int(pos.X) - p.screenW/2 + p.cfg.Body.Width/2
	camY := int(pos.Y) - p.screenH/2 + p.cfg.Body.Height/2

	maxCamX := p.stage.PixelWidth() - p.screenW
	maxCamY := p.stage.PixelHeight() - p.screenH
	if camX > maxCamX {
		camX = maxCamX
	}
	if camY > maxCamY {
		camY = maxCamY
	}
	if camX < 0 {
		camX = 0
	}
	if camY < 0 {
		camY = 0
	}
	return camX, camY
}

// Draw renders the stage and the interpolated body
func (p *Playing) Draw(screen *ebiten.Image) {
	screen.Fill(colorBG)

	pos := p.ctrl.Present(p.clock())
	camX, camY := p.camera(pos)

	p.drawTiles(screen, camX, camY)
	p.drawBody(screen, pos, camX, camY)
	p.drawHUD(screen)

	switch p.state {
	case state.StatePaused:
		p.drawOverlay(screen, "PAUSED\n\nPress ESC to resume")
	case state.StateReplayDone:
		p.drawOverlay(screen, "REPLAY FINISHED")
	}
}

func (p *Playing) drawTiles(screen *ebiten.Image, camX, camY int) {
	ts := p.stage.TileSize
	startTileX := camX / ts
	startTileY := camY / ts
	endTileX := (camX+p.screenW)/ts + 1
	endTileY := (camY+p.screenH)/ts + 1

	for ty := startTileY; ty <= endTileY && ty < p.stage.Height; ty++ {
		for tx := startTileX; tx <= endTileX && tx < p.stage.Width; tx++ {
			tile := p.stage.GetTile(tx, ty)
			var c color.Color
			switch tile.Type {
			case entity.TileWall:
				c = colorWall
			case entity.TileSpike:
				c = colorSpike
			default:
				continue
			}
			ebitenutil.DrawRect(screen, float64(tx*ts-camX), float64(ty*ts-camY), float64(ts), float64(ts), c)
		}
	}
}

func (p *Playing) drawBody(screen *ebiten.Image, pos entity.Vec2, camX, camY int) {
	c := colorBody
	switch p.ctrl.State().Ability {
	case entity.AbilityDashing:
		c = colorDashing
	case entity.AbilityDiving:
		c = colorDiving
	case entity.AbilityWallClinging:
		c = colorClinging
	}
	ebitenutil.DrawRect(screen, pos.X-float64(camX), pos.Y-float64(camY),
		float64(p.cfg.Body.Width), float64(p.cfg.Body.Height), c)
}

func (p *Playing) drawHUD(screen *ebiten.Image) {
	st := p.ctrl.State()
	text := fmt.Sprintf("%s  v=(%.0f, %.0f)  jumps=%d\nA/D: Move | Space: Jump | X: Dash | S+X: Dive | ESC: Pause",
		st.Ability, st.Velocity.X, st.Velocity.Y, st.JumpCount)
	if p.replayer != nil {
		text += fmt.Sprintf("\nREPLAY %d/%d", p.replayer.CurrentFrame(), p.replayer.TotalFrames())
	} else if p.recorder != nil {
		text += fmt.Sprintf("\nREC %d (F5: save)", p.recorder.FrameCount())
	}
	ebitenutil.DebugPrint(screen, text)
}

func (p *Playing) drawOverlay(screen *ebiten.Image, text string) {
	overlay := color.RGBA{0, 0, 0, 128}
	ebitenutil.DrawRect(screen, 0, 0, float64(p.screenW), float64(p.screenH), overlay)
	ebitenutil.DebugPrintAt(screen, text, p.screenW/2-50, p.screenH/2-20)
}

// State returns the scene state
func (p *Playing) State() state.GameState {
	return p.state
}

// Controller returns the running controller. It changes on respawn and reload.
func (p *Playing) Controller() *controller.Controller {
	return p.ctrl
}

// Config returns the controller config in use. It changes on reload.
func (p *Playing) Config() *config.ControllerConfig {
	return p.cfg
}

// Respawns returns how many times the body was respawned
func (p *Playing) Respawns() int {
	return p.respawns
}

// OnEnter is called when entering this scene
func (p *Playing) OnEnter() {
	p.lastUpdate = time.Time{}
}

// OnExit is called when leaving this scene
func (p *Playing) OnExit() {
	p.saveRecording()
}

// Layout returns the game's screen dimensions (used by game.Game)
func (p *Playing) Layout(outsideWidth, outsideHeight int) (int, int) {
	return p.screenW, p.screenH
}
