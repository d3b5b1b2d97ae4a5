package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/five82/slumber/internal/app"
	"github.com/five82/slumber/internal/config"
	"github.com/five82/slumber/internal/logtail"
	"github.com/five82/slumber/internal/theme"
)

type globalFlags struct {
	configPath string
	verbose    bool
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "slumber: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags globalFlags
	var pollSeconds int

	root := &cobra.Command{
		Use:           "slumber",
		Short:         "Last night's sleep, from the health bridge on your phone",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: flags.configPath,
				PollEvery:  pollSeconds,
				Verbose:    flags.verbose,
			})
		},
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default ~/.config/slumber/config.toml)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")
	root.Flags().IntVar(&pollSeconds, "poll", 0, "refresh interval in seconds (default from config)")

	root.AddCommand(newStatusCmd(&flags))
	root.AddCommand(newThemeCmd(&flags))
	root.AddCommand(newWelcomeCmd(&flags))
	root.AddCommand(newLogsCmd(&flags))
	return root
}

// withRuntime runs fn against a runtime that logs to stderr.
func withRuntime(ctx context.Context, flags *globalFlags, fn func(context.Context, *app.Runtime) error) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := app.NewLogger("", flags.verbose)
	if err != nil {
		return err
	}
	if !flags.verbose {
		logger = logger.WithOptions(zap.IncreaseLevel(zap.WarnLevel))
	}
	defer func() { _ = logger.Sync() }()

	rt, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	return fn(ctx, rt)
}

func newStatusCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the device and print the current state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd.Context(), flags, func(ctx context.Context, rt *app.Runtime) error {
				if err := rt.Load(ctx); err != nil {
					return err
				}
				return app.WriteStatus(cmd.OutOrStdout(), rt)
			})
		},
	}
}

func newThemeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or change the saved theme",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"light", "dark", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), flags, func(ctx context.Context, rt *app.Runtime) error {
				rt.Theme.LoadSavedTheme(ctx)
				if len(args) == 1 {
					if err := applyTheme(ctx, rt.Theme, args[0]); err != nil {
						return err
					}
				}
				st := rt.Theme.State()
				return report(cmd, st.Theme.String(), len(args) == 1, st.PersistErr)
			})
		},
	}
}

func applyTheme(ctx context.Context, store *theme.Store, arg string) error {
	if arg == "toggle" {
		store.Toggle(ctx)
		return nil
	}
	t, ok := theme.ParseTheme(arg)
	if !ok {
		return fmt.Errorf("%w: %q", theme.ErrInvalidTheme, arg)
	}
	return store.SetTheme(ctx, t)
}

func newWelcomeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:       "welcome [seen|reset]",
		Short:     "Show or change whether the welcome screen was dismissed",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"seen", "reset"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), flags, func(ctx context.Context, rt *app.Runtime) error {
				if len(args) == 1 {
					rt.Bootstrap.SetHasSeenWelcome(ctx, args[0] == "seen")
				} else {
					rt.Bootstrap.Load(ctx)
				}
				st := rt.Bootstrap.State()
				return report(cmd, st.HasSeenWelcome.String(), len(args) == 1, st.PersistErr)
			})
		},
	}
}

// report prints value. A storage failure fails the command only when it
// changed the value; a failed read prints the fallback with a warning.
func report(cmd *cobra.Command, value string, changed bool, storageErr error) error {
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), value); err != nil {
		return err
	}
	if storageErr == nil {
		return nil
	}
	if changed {
		return fmt.Errorf("not saved: %w", storageErr)
	}
	_, err := fmt.Fprintf(cmd.ErrOrStderr(), "slumber: saved value unreadable, showing default: %v\n", storageErr)
	return err
}

func newLogsCmd(flags *globalFlags) *cobra.Command {
	var lines int
	var level, logger string

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print recent entries from the slumber log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			minLevel, err := zapcore.ParseLevel(level)
			if err != nil {
				return err
			}

			entries, err := logtail.Tail(cfg.LogPath, lines, logtail.Filter{MinLevel: minLevel, Logger: logger})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range entries {
				if _, err := fmt.Fprintln(out, logtail.Format(e)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "number of entries (0 for all)")
	cmd.Flags().StringVar(&level, "level", "info", "minimum level (debug, info, warn, error)")
	cmd.Flags().StringVar(&logger, "logger", "", "only entries from this component (theme, sleep, ...)")
	return cmd
}
