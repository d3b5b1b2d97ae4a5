package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/five82/slumber/internal/config"
	"github.com/five82/slumber/internal/ui"
)

// Options configure the slumber application.
type Options struct {
	ConfigPath string
	PollEvery  int // seconds; zero uses the configured interval
	Verbose    bool
}

// Run boots the terminal front end until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := NewLogger(cfg.LogPath, opts.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	rt, err := New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The UI renders while the cold-start reads are in flight.
	loaded := make(chan struct{})
	go func() {
		defer close(loaded)
		if err := rt.Load(ctx); err != nil {
			logger.Debug("initial load interrupted", zap.Error(err))
		}
	}()

	interval := cfg.PollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}
	polling := StartPoller(ctx, rt, interval)

	err = ui.Run(ui.Options{
		Context:    ctx,
		Theme:      rt.Theme,
		Bootstrap:  rt.Bootstrap,
		Capability: rt.Capability,
		Sleep:      rt.Sleep,
		DeviceURL:  rt.Device.BaseURL(),
	})

	cancel()
	<-loaded
	<-polling
	return err
}
