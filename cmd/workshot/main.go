package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/workshot/workshot/internal/config"
	"github.com/workshot/workshot/internal/logging"
)

var (
	version = "0.1.0"
	commit  = "unknown"
	date    = "unknown"
)

var (
	flagConfig    string
	flagDebug     bool
	flagNoBrowser bool
)

var rootCmd = &cobra.Command{
	Use:   "workshot",
	Short: "Application focus time tracker with a live dashboard",
	Long: `workshot samples the focused window once per second, classifies the
user as active or idle, and records contiguous per-application sessions
in a local SQLite database. A built-in web dashboard shows live activity,
daily summaries and exports.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ~/.config/workshot/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")

	runCmd.Flags().BoolVar(&flagNoBrowser, "no-browser", false, "do not open the dashboard in a browser")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig assembles configuration from defaults, the config file and
// environment overrides, then validates it.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if err := config.LoadFile(cfg, flagConfig); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	config.LoadFromEnv(cfg)
	config.Normalize(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setupLogging(cfg *config.Config, daemonized bool) {
	logFile := ""
	if daemonized {
		logFile = cfg.Daemon.LogFile
		if logFile == "" {
			logFile = "/tmp/workshot.log"
		}
	}
	logging.Setup(logFile, flagDebug)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("workshot version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}
