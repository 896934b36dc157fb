// Command softrender fills a pixel buffer every frame with one of several
// draw routines and records per-block timings to a profile record on exit.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/rs/zerolog"

	"soft-render/internal/config"
	"soft-render/internal/dispatch"
	"soft-render/internal/frame"
	"soft-render/internal/logging"
	"soft-render/internal/prof"
	"soft-render/internal/raster"
	"soft-render/internal/routine"
	"soft-render/internal/snapshot"
)

// Exit codes, one per failure site.
const (
	exitConfig  = 1
	exitSink    = 2
	exitProfile = 3
	exitDefect  = 4
)

func main() {
	configFile := flag.String("config", "", "Path to config file (json, yaml or toml)")
	width := flag.Int("width", 0, "Surface width (default: 256)")
	height := flag.Int("height", 0, "Surface height (default: 256)")
	routineName := flag.String("routine", "", "Initial draw routine: scene, grid or shapes")
	frames := flag.Int("frames", 0, "Render N frames headless instead of opening a window")
	profileOut := flag.String("profile", "", "Profile record output path (default: profile.bin)")
	snap := flag.String("snapshot", "", "Save the last frame to this .webp, .tga or .png file")
	logLevel := flag.String("log-level", "", "Log level: trace, debug, info, warn, error")

	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(exitConfig)
	}
	cfg.Resolve(config.Flags{
		Width:      *width,
		Height:     *height,
		Routine:    *routineName,
		Frames:     *frames,
		ProfileOut: *profileOut,
		Snapshot:   *snap,
		LogLevel:   *logLevel,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitConfig)
	}

	log, closer, err := logging.New(logging.Options{App: "softrender", Level: cfg.LogLevel, LogsDir: cfg.LogsDir})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitConfig)
	}

	code := run(cfg, log)
	closer.Close()
	os.Exit(code)
}

// app bundles what both frontends drive.
type app struct {
	cfg  config.Config
	log  zerolog.Logger
	loop *frame.Loop
	sink *frame.BufferSink
}

func newApp(cfg config.Config, log zerolog.Logger) (*app, error) {
	scene, err := cfg.BuildScene()
	if err != nil {
		return nil, err
	}
	d := dispatch.New(log.With().Str("component", "dispatch").Logger())
	if err := routine.RegisterAll(d, scene); err != nil {
		return nil, err
	}
	if err := d.Select(cfg.Routine); err != nil {
		return nil, err
	}

	loop, err := frame.NewLoop(prof.New(prof.DefaultRegistry()), d, log.With().Str("component", "frame").Logger())
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:  cfg,
		log:  log,
		loop: loop,
		sink: frame.NewBufferSink(cfg.Width, cfg.Height),
	}, nil
}

func run(cfg config.Config, log zerolog.Logger) int {
	a, err := newApp(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("setup failed")
		return exitConfig
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var runErr error
	if cfg.Frames > 0 {
		log.Info().Int("frames", cfg.Frames).Str("routine", a.loop.Dispatcher().Active()).
			Msgf("headless %dx%d", cfg.Width, cfg.Height)
		runErr = a.loop.Run(ctx, a.sink, cfg.Frames, cfg.FrameDelay)
		if errors.Is(runErr, context.Canceled) {
			runErr = nil
		}
	} else {
		runErr = runWindow(ctx, a)
	}

	code := 0
	if runErr != nil {
		if isDefect(runErr) {
			log.Error().Err(runErr).Msg("frame loop invariant violated")
			code = exitDefect
		} else {
			log.Error().Err(runErr).Msg("frame loop aborted")
			code = exitSink
		}
	}

	if err := a.persist(); err != nil {
		log.Error().Err(err).Msg("cannot write profile record")
		if code == 0 {
			code = exitProfile
		}
	}
	if err := a.snapshot(); err != nil {
		log.Error().Err(err).Msg("cannot save snapshot")
	}
	return code
}

func (a *app) persist() error {
	out := a.cfg.Profile.Output
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return err
	}
	if err := prof.Persist(out, a.loop.Profiler().Blocks()); err != nil {
		return err
	}
	a.log.Info().Str("path", out).Uint64("frames", a.loop.Frames()).Msg("profile record written")
	return nil
}

func (a *app) snapshot() error {
	path := a.cfg.Snapshot.Path
	if path == "" || a.loop.Frames() == 0 {
		return nil
	}
	opts := snapshot.Options{Width: a.cfg.Snapshot.Width, Height: a.cfg.Snapshot.Height}
	if err := snapshot.Save(path, a.sink.FrameBuffer().Image(), opts); err != nil {
		return err
	}
	a.log.Info().Str("path", path).Msg("snapshot saved")
	return nil
}

// isDefect reports errors that come from misuse of the profiler or the
// surface by the loop itself rather than from the environment.
func isDefect(err error) bool {
	for _, target := range []error{
		prof.ErrAlreadyActive,
		prof.ErrNotActive,
		prof.ErrActiveAtReset,
		prof.ErrUnknownBlock,
		raster.ErrReleased,
		raster.ErrLocked,
		raster.ErrUnlocked,
		raster.ErrOutOfBounds,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
