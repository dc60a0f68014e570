package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"nexusai/internal/config"
	"nexusai/internal/logging"
)

var (
	// Global flags
	verbose    bool
	workspace  string
	configPath string
	timeout    time.Duration

	// Logger
	logger *zap.Logger

	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "nexusai",
	Short: "NexusAI - scripted assistant demo engine",
	Long: `NexusAI is the logic core behind the assistant demo: a keyword query
classifier, canned response generator, persona call engine, demo script
orchestrator, and a mock instruction planner with a simulated job queue.

Run without arguments to start an interactive call with the default persona.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The call TUI owns the terminal; keep zap quiet there.
		if cmd.Name() != "call" && cmd.CalledAs() != "nexusai" {
			zcfg := zap.NewProductionConfig()
			if verbose {
				zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = zcfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
		}

		if workspace == "" {
			workspace, _ = os.Getwd()
		}
		_ = logging.Initialize(workspace)

		if configPath == "" {
			configPath = filepath.Join(workspace, ".nexusai", "nexusai.yaml")
		}
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return cfg.Validate()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: start an interactive call
		return runCall(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: <workspace>/.nexusai/nexusai.yaml)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Operation timeout")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(recordingsCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(jobsCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
