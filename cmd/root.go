package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/killallgit/transcriptflow-api/pkg/config"
	"github.com/killallgit/transcriptflow-api/pkg/logging"
)

// skipConfig marks commands that run without loading configuration
const skipConfig = "skip-config"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "transcriptflow",
	Short: "TranscriptFlow API server and client",
	Long: `TranscriptFlow - transcript extraction for YouTube videos and channels

Runs the HTTP API and talks to a running server from the command line.

Features:
  • Single video transcript extraction in txt, srt and json
  • Channel batch jobs with live progress and cancellation
  • Combined or per-video exports, zipped
  • Per-user library of saved transcripts`,
	SilenceUsage:      true,
	PersistentPreRunE: initCommand,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd creates a new root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "enable JSON formatted logs")
}

// initCommand loads configuration and installs the logger. Flags given on the
// command line win over the logging section of the config.
func initCommand(cmd *cobra.Command, args []string) error {
	level, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json-logs")

	if cmd.Annotations[skipConfig] != "true" {
		if err := config.Init(); err != nil {
			return fmt.Errorf("initializing config: %w", err)
		}
		if !cmd.Flags().Changed("log-level") {
			if configured := config.GetString("logging.level"); configured != "" {
				level = configured
			}
		}
		if !cmd.Flags().Changed("json-logs") {
			jsonLogs = jsonLogs || config.GetString("logging.format") == "json"
		}
	}

	logging.Setup(cmd.ErrOrStderr(), level, jsonLogs)
	return nil
}

// loadConfig returns the typed configuration after initCommand ran
func loadConfig() (*config.Config, error) {
	if err := config.Init(); err != nil {
		return nil, fmt.Errorf("initializing config: %w", err)
	}
	cfg, err := config.GetConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
