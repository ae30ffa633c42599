package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/younwookim/motionctl/internal/application/game"
	"github.com/younwookim/motionctl/internal/application/replay"
	"github.com/younwookim/motionctl/internal/application/scene/playing"
	"github.com/younwookim/motionctl/internal/application/system"
	"github.com/younwookim/motionctl/internal/infrastructure/config"
	"github.com/younwookim/motionctl/internal/infrastructure/ebitenin"
)

type flags struct {
	configDir  string
	controller string
	stage      string
	backend    string
	record     string
	replay     string
	watch      bool
	headless   bool
	verbose    bool
}

func parseFlags(args []string) (flags, error) {
	var f flags
	fset := flag.NewFlagSet("game", flag.ContinueOnError)
	fset.StringVar(&f.configDir, "config", "", "Config directory (default: embedded configs)")
	fset.StringVar(&f.controller, "controller", "controller.yaml", "Controller config file inside the config directory")
	fset.StringVar(&f.stage, "stage", "demo", "Stage ID")
	fset.StringVar(&f.backend, "backend", playing.BackendTile, "Physics backend: tile or chipmunk")
	fset.StringVar(&f.record, "record", "", "Record input to file (e.g., -record replay.json)")
	fset.StringVar(&f.replay, "replay", "", "Play back a recorded replay file")
	fset.BoolVar(&f.watch, "watch", false, "Reload configs when they change on disk (requires -config)")
	fset.BoolVar(&f.headless, "headless", false, "Run the replay without a window and print the final state (requires -replay)")
	fset.BoolVar(&f.verbose, "v", false, "Log ability transitions and collision events")
	if err := fset.Parse(args); err != nil {
		return f, err
	}

	if f.watch && f.configDir == "" {
		return f, errors.New("-watch requires -config")
	}
	if f.headless && f.replay == "" {
		return f, errors.New("-headless requires -replay")
	}
	if f.record != "" && f.replay != "" {
		return f, errors.New("-record and -replay are mutually exclusive")
	}
	return f, nil
}

func newLoader(configDir string) (*config.Loader, error) {
	if configDir != "" {
		return config.NewLoader(configDir), nil
	}
	fsys, err := fs.Sub(configFS, "configs")
	if err != nil {
		return nil, fmt.Errorf("failed to get config subfs: %w", err)
	}
	return config.NewFSLoader(fsys, "configs"), nil
}

func run(f flags, logger *slog.Logger) error {
	loader, err := newLoader(f.configDir)
	if err != nil {
		return err
	}
	cfg, err := loader.LoadController(f.controller)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var data *replay.ReplayData
	if f.replay != "" {
		if data, err = replay.LoadReplay(f.replay); err != nil {
			return err
		}
		if data.Stage != "" {
			f.stage = data.Stage
		}
		if data.Backend != "" {
			f.backend = data.Backend
		}
	}

	stageCfg, err := loader.LoadStage(f.stage)
	if err != nil {
		return fmt.Errorf("failed to load stage: %w", err)
	}
	stage := system.LoadStage(stageCfg)

	if f.headless {
		res, err := runHeadless(*data, cfg, stage, f.backend, logger)
		if err != nil {
			return err
		}
		fmt.Println(res)
		return nil
	}

	opts := playing.Options{
		Config:     cfg,
		Stage:      stage,
		StageCfg:   stageCfg,
		Backend:    f.backend,
		Device:     ebitenin.New(ebitenin.DefaultBindings()),
		RecordPath: f.record,
		Replay:     data,
		Loader:     loader,
		ConfigName: f.controller,
		Logger:     logger,
	}
	if f.watch {
		watcher, err := config.NewWatcher(f.configDir, filepath.Join(f.configDir, "stages"))
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", f.configDir, err)
		}
		defer func() { _ = watcher.Close() }()
		opts.Watcher = watcher
		logger.Info("watching configs", "dir", f.configDir)
	}

	scn, err := playing.New(opts)
	if err != nil {
		return err
	}
	g := game.New(scn, cfg.Display.ScreenWidth, cfg.Display.ScreenHeight, cfg.Display.TickRate)
	defer g.Close()

	ebiten.SetWindowSize(cfg.Display.ScreenWidth*cfg.Display.Scale, cfg.Display.ScreenHeight*cfg.Display.Scale)
	ebiten.SetWindowTitle("Motion Controller")
	ebiten.SetTPS(int(1 / g.DT()))

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func main() {
	f, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(f, logger); err != nil {
		logger.Error("fatal", "err", err)
		os.Exit(1)
	}
}
