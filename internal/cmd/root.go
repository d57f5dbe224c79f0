package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/triage/internal/config"
	"github.com/Iron-Ham/triage/internal/event"
	"github.com/Iron-Ham/triage/internal/logging"
	"github.com/Iron-Ham/triage/internal/scheduler"
)

var rootCmd = &cobra.Command{
	Use:   "triage",
	Short: "Dependency-aware priority scheduler",
	Long: `Triage orders tasks by urgency while respecting dependencies between them.
A task becomes ready once everything it depends on has been resolved, and
the most urgent ready task is always resolved first.

Tasks can be driven from a command script (triage run), loaded from a
YAML, JSON or HCL plan (triage plan), or managed interactively (triage tui).`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/triage/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	rootCmd.PersistentFlags().String("log-level", "", "enable logging at this level (debug, info, warn, error)")
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("TRIAGE")
	// Replace dots with underscores for nested keys in env vars
	// e.g., TRIAGE_WATCH_DEBOUNCE_MS for watch.debounce_ms
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// setupLogger builds the logger described by cfg. Passing --log-level turns
// logging on even when logging.enabled is false.
func setupLogger(cmd *cobra.Command, cfg *config.Config) (*logging.Logger, error) {
	enabled := cfg.Logging.Enabled
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		enabled = true
	}
	if !enabled {
		return logging.NopLogger(), nil
	}

	if cfg.Logging.Dir != "" {
		if err := os.MkdirAll(cfg.Logging.Dir, 0o755); err != nil {
			return nil, err
		}
	}
	return logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level, logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
}

// newEngine creates an empty scheduler that publishes on bus.
func newEngine(cfg *config.Config, bus *event.Bus, logger *logging.Logger) *scheduler.EventScheduler {
	var opts []scheduler.Option
	if cfg.Scheduler.PromotePlaceholders {
		opts = append(opts, scheduler.WithPlaceholderPromotion())
	}
	return scheduler.NewEventScheduler(scheduler.New(opts...), bus, logger)
}

// logRunEvents records run lifecycle events.
func logRunEvents(bus *event.Bus, logger *logging.Logger) {
	bus.Subscribe(event.TypeRunStarted, func(e event.Event) {
		if ev, ok := e.(event.RunStartedEvent); ok {
			logger.Info("run started", "source", ev.Source)
		}
	})
	bus.Subscribe(event.TypeRunFinished, func(e event.Event) {
		ev, ok := e.(event.RunFinishedEvent)
		if !ok {
			return
		}
		if ev.Err != nil {
			logger.Warn("run failed", "resolved", ev.Resolved, "error", ev.Err)
			return
		}
		logger.Info("run finished", "resolved", ev.Resolved)
	})
	bus.Subscribe(event.TypeQueueDepthChanged, func(e event.Event) {
		if ev, ok := e.(event.QueueDepthChangedEvent); ok {
			logger.Debug("queue depth", "ready", ev.Ready, "blocked", ev.Blocked, "resolved", ev.Resolved)
		}
	})
}
