package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/five82/slumber/internal/bootstrap"
	"github.com/five82/slumber/internal/capability"
	"github.com/five82/slumber/internal/config"
	"github.com/five82/slumber/internal/device"
	"github.com/five82/slumber/internal/kv"
	"github.com/five82/slumber/internal/sleep"
	"github.com/five82/slumber/internal/theme"
)

// Runtime is the composition root: one instance of every store, sharing one
// kv backend and one device client.
type Runtime struct {
	Config config.Config
	Logger *zap.Logger

	KV     kv.Backend
	Device *device.Client

	Theme      *theme.Store
	Bootstrap  *bootstrap.Store
	Capability *capability.Store
	Sleep      *sleep.Store
}

// New opens the configured kv backend and wires the stores to it and to the
// device client. Nothing is loaded yet; call Load.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Runtime, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	backend, err := kv.Open(ctx, kv.Kind(cfg.Storage), cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage, err)
	}

	client, err := device.NewClient(cfg.DeviceBind, logger)
	if err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("init device client: %w", err)
	}

	caps := capability.NewStore(capability.Options{
		API:         client,
		CallTimeout: cfg.DeviceTimeout,
		Logger:      logger,
	})

	rt := &Runtime{
		Config: cfg,
		Logger: logger,
		KV:     backend,
		Device: client,
		Theme: theme.NewStore(theme.Options{
			KV:         backend,
			Appearance: theme.Resolve(theme.TerminalAppearance{Override: cfg.Appearance}),
			Logger:     logger,
		}),
		Bootstrap: bootstrap.NewStore(bootstrap.Options{
			KV:     backend,
			Logger: logger,
		}),
		Capability: caps,
		Sleep: sleep.NewStore(sleep.Options{
			Source: sleep.HealthSource{
				Sessions:    client,
				Permissions: caps,
			},
			Attempts: cfg.FetchAttempts,
			Logger:   logger,
		}),
	}

	logger.Debug("runtime assembled",
		zap.String("storage", cfg.Storage),
		zap.String("device", client.BaseURL()))
	return rt, nil
}

// Load performs the cold-start reads concurrently: the welcome flag, the
// saved theme, and the capability handshake followed by the first daily
// summary and weekly history fetches once the handshake succeeds. Store operations report
// failures through their state, so Load itself only fails on ctx.
func (r *Runtime) Load(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		r.Bootstrap.Load(gctx)
		return nil
	})
	g.Go(func() error {
		r.Theme.LoadSavedTheme(gctx)
		return nil
	})
	g.Go(func() error {
		if st := r.Capability.Check(gctx, false); !st.Ready() {
			r.Logger.Info("health data not ready, skipping initial fetch",
				zap.Stringer("status", st.Status), zap.Bool("initialized", st.Initialized))
			return nil
		}
		r.Sleep.FetchDaily(gctx)
		r.Sleep.FetchWeekly(gctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Close releases the kv backend.
func (r *Runtime) Close() error {
	if r == nil || r.KV == nil {
		return nil
	}
	if err := r.KV.Close(); err != nil {
		return fmt.Errorf("close storage: %w", err)
	}
	return nil
}
