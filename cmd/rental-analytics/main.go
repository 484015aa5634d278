package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rental-analytics/internal/commands"
	"rental-analytics/internal/config"
	"rental-analytics/internal/logging"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, os.Stderr)

	rootCmd := &cobra.Command{
		Use:           "rental-analytics",
		Short:         "Car rental descriptive analytics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().Bool("debug", false, "Log every SQL statement")

	rootCmd.AddCommand(
		commands.InitCmd(),
		commands.UpCmd(),
		commands.DownCmd(),
		commands.StatusCmd(),
		commands.HistoryCmd(),
		commands.ImportCmd(),
		commands.ReportsCmd(),
		commands.ReportCmd(),
		commands.ExportCmd(),
		commands.SchemaCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
