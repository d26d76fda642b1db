package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Flags
	configFile string
	debug      bool
)

func main() {
	setupLogging()
	ctx := zerolog.DefaultContextLogger.WithContext(context.Background())

	userLogger := NewUserLogger(ctx)

	rootCmd := &cobra.Command{
		Use:   "pairio",
		Short: "A pass-through transformer demonstrating source/destination pair resolution",
		Long: `pairio resolves a source path and an optional destination path into
concrete input/output pairs and copies each input to its output. Use "-" on
either side to read from stdin or write to stdout. When no destination is
given, a unique time-based name is synthesized next to the source.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
	}

	addRootFlags(rootCmd)

	rootCmd.AddCommand(
		NewCpCmd(),
		NewPlanCmd(),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		userLogger.LogOutcome(false, "Command failed", err)
		os.Exit(1)
	}
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "policy file path (.json, .yaml or .hcl)")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags
func setupLogging() {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log
}
