package app

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/five82/loopback/internal/config"
	"github.com/five82/loopback/internal/display"
	"github.com/five82/loopback/internal/loopback"
	"github.com/five82/loopback/internal/prefs"
	"github.com/five82/loopback/internal/scrolllog"
	"github.com/five82/loopback/internal/state"
	"github.com/five82/loopback/internal/ui"
)

// Options configure the loopback application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/loopback/prefs.toml
	Headless   bool   // no front panel; log to stderr
	LogLevel   string // overrides [log].level when set
	Stderr     io.Writer
}

// Run serves the loopback port until the context is cancelled, the front
// panel is closed, or the transport fails.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, logCloser, err := newLogger(cfg.Log, opts.LogLevel, opts.Headless, opts.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = logCloser.Close() }()

	for _, line := range NetInfoLines(cfg.Network) {
		logger.Info(line)
	}

	scroll, err := scrolllog.New(scrolllog.Options{
		Capacity:        cfg.LCD.Capacity,
		MaxVisibleLines: cfg.LCD.VisibleLines,
		MaxLineLength:   cfg.LCD.LineWidth,
	})
	if err != nil {
		return fmt.Errorf("init scroll log: %w", err)
	}

	frame := display.NewTextFrame(cfg.LCD.VisibleLines, cfg.LCD.LineWidth-1)
	panel, panelCloser, err := openPanel(cfg.LCD, frame)
	if err != nil {
		return fmt.Errorf("open %s panel: %w", cfg.LCD.Driver, err)
	}
	defer func() { _ = panelCloser.Close() }()

	store := &state.Store{}
	loop := NewLoop(scroll, panel, store, logger)

	srv, err := loopback.NewServer(loopback.Options{
		Addr:       cfg.Network.Listen,
		BufferSize: cfg.Network.BufferSize,
		Logger:     logger,
		Observer:   loop.Observe,
	})
	if err != nil {
		return fmt.Errorf("init server: %w", err)
	}

	if opts.Headless {
		return loop.Serve(ctx, srv)
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.WithError(err).Warn("load prefs; using defaults")
	}

	serveCtx, stopServe := context.WithCancel(ctx)
	defer stopServe()

	// The front panel stays up after a transport failure so the halt is
	// visible; only closing it ends the run.
	var g errgroup.Group
	g.Go(func() error {
		return loop.Serve(serveCtx, srv)
	})
	g.Go(func() error {
		defer stopServe()
		return ui.Run(ctx, ui.Options{
			Store:     store,
			Frame:     frame,
			Network:   cfg.Network,
			Driver:    cfg.LCD.Driver,
			Prefs:     userPrefs,
			PrefsPath: opts.PrefsPath,
			Logger:    logger,
		})
	})
	return g.Wait()
}

// openPanel picks the render target for the configured driver. The text
// frame mirrors the hardware panel so the front panel can show it.
func openPanel(cfg config.LCD, frame *display.TextFrame) (display.Panel, io.Closer, error) {
	switch cfg.Driver {
	case config.DriverILI9340:
		opts := display.DefaultILI9340Options()
		opts.Rows = cfg.VisibleLines
		if fit := (opts.Height - opts.BaseY) / cfg.VisibleLines; fit < opts.RowHeight {
			opts.RowHeight = fit
		}
		hw, err := display.OpenILI9340(display.ILI9340Config{
			Port:     cfg.SPIPort,
			Hz:       cfg.SPIHz,
			DCPin:    cfg.DCPin,
			ResetPin: cfg.ResetPin,
			Options:  opts,
		})
		if err != nil {
			return nil, nil, err
		}
		return display.Multi(hw, frame), hw, nil
	case config.DriverNone:
		return display.Discard, io.NopCloser(nil), nil
	default:
		return frame, io.NopCloser(nil), nil
	}
}
