package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/triage/internal/config"
	tuiconfig "github.com/Iron-Ham/triage/internal/tui/config"
	"github.com/Iron-Ham/triage/internal/tui/styles"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify triage configuration",
	Long: `View or modify triage configuration.

Without arguments, displays the current configuration.
Use 'config edit' to change settings interactively.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration for invalid values",
	RunE:  runConfigValidate,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration interactively",
	RunE:  runConfigEdit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configEditCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintln(w)

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(w, "Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintln(w, "Config file: (none - using defaults)")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "scheduler:")
	fmt.Fprintf(w, "  promote_placeholders: %v\n", cfg.Scheduler.PromotePlaceholders)

	fmt.Fprintln(w, "output:")
	fmt.Fprintf(w, "  format: %s\n", cfg.Output.Format)
	fmt.Fprintf(w, "  color: %v\n", cfg.Output.Color)

	fmt.Fprintln(w, "logging:")
	fmt.Fprintf(w, "  enabled: %v\n", cfg.Logging.Enabled)
	fmt.Fprintf(w, "  level: %s\n", cfg.Logging.Level)
	fmt.Fprintf(w, "  dir: %s\n", cfg.Logging.Dir)
	fmt.Fprintf(w, "  max_size_mb: %d\n", cfg.Logging.MaxSizeMB)
	fmt.Fprintf(w, "  max_backups: %d\n", cfg.Logging.MaxBackups)

	fmt.Fprintln(w, "watch:")
	fmt.Fprintf(w, "  debounce_ms: %d\n", cfg.Watch.DebounceMs)

	fmt.Fprintln(w, "tui:")
	fmt.Fprintf(w, "  preview_size: %d\n", cfg.TUI.PreviewSize)
	fmt.Fprintf(w, "  history_size: %d\n", cfg.TUI.HistorySize)

	return nil
}

// activeConfigFile is the file settings are read from and saved to.
func activeConfigFile() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return config.ConfigFile()
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(w, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(w, "Default path: %s (not created)\n", config.ConfigFile())
	}

	fmt.Fprintln(w, "\nSearch paths:")
	fmt.Fprintf(w, "  1. %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	fmt.Fprintln(w, "  2. ./config.yaml (current directory)")
	fmt.Fprintln(w, "\nEnvironment variables: TRIAGE_* (e.g., TRIAGE_WATCH_DEBOUNCE_MS)")

	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if _, err := config.Load(); err != nil {
		return fmt.Errorf("configuration is invalid:\n%w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), styles.SuccessMsg.Render("Configuration is valid"))
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	path := activeConfigFile()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return tuiconfig.Run(path)
}
