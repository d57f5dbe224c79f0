package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete triage configuration
type Config struct {
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Output    OutputConfig    `mapstructure:"output"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Watch     WatchConfig     `mapstructure:"watch"`
	TUI       TUIConfig       `mapstructure:"tui"`
}

// SchedulerConfig controls scheduler behavior
type SchedulerConfig struct {
	// PromotePlaceholders lets an explicit add upgrade a task that was first
	// named only as a dependency. When false (default), such an add is ignored
	// and the task can never become ready.
	PromotePlaceholders bool `mapstructure:"promote_placeholders"`
}

// OutputConfig controls how run and plan results are printed
type OutputConfig struct {
	// Format is the output format
	// Options: "text", "json"
	Format string `mapstructure:"format"`
	// Color enables lipgloss styling of text output
	Color bool `mapstructure:"color"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether logs are written at all
	Enabled bool `mapstructure:"enabled"`
	// Level is the minimum log level: "debug", "info", "warn", "error"
	Level string `mapstructure:"level"`
	// Dir is the directory for triage.log. Empty logs to stderr.
	Dir string `mapstructure:"dir"`
	// MaxSizeMB is the size at which the log file is rotated
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is how many rotated files to keep
	MaxBackups int `mapstructure:"max_backups"`
}

// WatchConfig controls file watching for `triage run --watch`
type WatchConfig struct {
	// DebounceMs collapses bursts of file events into one re-run
	DebounceMs int `mapstructure:"debounce_ms"`
}

// Debounce returns the debounce delay as a time.Duration
func (c *WatchConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// TUIConfig controls the interactive console
type TUIConfig struct {
	// PreviewSize is how many ready tasks the console lists
	PreviewSize int `mapstructure:"preview_size"`
	// HistorySize is how many output lines the console keeps
	HistorySize int `mapstructure:"history_size"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Scheduler: SchedulerConfig{
			PromotePlaceholders: false,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
		Logging: LoggingConfig{
			Enabled:    false,
			Level:      "info",
			Dir:        "",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Watch: WatchConfig{
			DebounceMs: 200,
		},
		TUI: TUIConfig{
			PreviewSize: 10,
			HistorySize: 200,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Scheduler defaults
	viper.SetDefault("scheduler.promote_placeholders", defaults.Scheduler.PromotePlaceholders)

	// Output defaults
	viper.SetDefault("output.format", defaults.Output.Format)
	viper.SetDefault("output.color", defaults.Output.Color)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)

	// Watch defaults
	viper.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMs)

	// TUI defaults
	viper.SetDefault("tui.preview_size", defaults.TUI.PreviewSize)
	viper.SetDefault("tui.history_size", defaults.TUI.HistorySize)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate the configuration
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "triage")
	}
	// Fall back to ~/.config/triage
	home, err := os.UserHomeDir()
	if err != nil {
		return ".triage"
	}
	return filepath.Join(home, ".config", "triage")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
