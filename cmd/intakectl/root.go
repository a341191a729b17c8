package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"resume-intake/internal/logger"
)

const app = "intakectl"

var rootCmd = &cobra.Command{
	Use:          app,
	Short:        "intakectl checks resume files against the intake rules and drives local intake sessions",
	SilenceUsage: true,
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
}

func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	jsonLogs, _ := cmd.Flags().GetBool("json")
	debug, _ := cmd.Flags().GetBool("debug")
	return logger.New(jsonLogs, debug)
}
