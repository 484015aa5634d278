package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"rental-analytics/internal/analytics"
	"rental-analytics/internal/config"
	"rental-analytics/internal/database"
	"rental-analytics/internal/output"
)

func ReportsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reports",
		Short: "List available reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tDESCRIPTION")
			for _, r := range analytics.Reports() {
				fmt.Fprintf(tw, "%s\t%s\n", r.Name, r.Description)
			}
			return tw.Flush()
		},
	}
}

func ReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [name]",
		Short: "Run a single report",
		Long:  `Runs one report over the current data and prints its result table. Use "reports" to list the available names.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatFlag, _ := cmd.Flags().GetString("format")
			limit, _ := cmd.Flags().GetInt("limit")
			minVehicles, _ := cmd.Flags().GetInt("min-vehicles")

			format, err := output.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			if _, err := analytics.Lookup(args[0]); err != nil {
				return fmt.Errorf("%w (available: %s)", err, strings.Join(reportNames(), ", "))
			}

			return withDB(cmd, func(db *gorm.DB, cfg *config.Config) error {
				if minVehicles <= 0 {
					minVehicles = cfg.MinCityVehicles
				}

				table, err := analytics.Run(cmd.Context(), database.NewFactReader(db), args[0], analytics.Options{MinCityVehicles: minVehicles})
				if err != nil {
					return fmt.Errorf("failed to run report %s: %w", args[0], err)
				}
				if limit > 0 && len(table.Rows) > limit {
					table.Rows = table.Rows[:limit]
				}

				return output.Render(cmd.OutOrStdout(), table, format)
			})
		},
	}

	cmd.Flags().StringP("format", "f", string(output.FormatTable), "Output format: table, csv, json or yaml")
	cmd.Flags().IntP("limit", "n", 0, "Print at most this many rows (0 for all)")
	cmd.Flags().Int("min-vehicles", 0, "Distinct vehicles a city needs in location-quality (defaults to MIN_CITY_VEHICLES)")

	return cmd
}

func ExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every report as CSV for the dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			return withDB(cmd, func(db *gorm.DB, cfg *config.Config) error {
				if dir == "" {
					dir = cfg.ExportDir
				}

				tables, err := analytics.RunAll(cmd.Context(), database.NewFactReader(db), analytics.Options{MinCityVehicles: cfg.MinCityVehicles})
				if err != nil {
					return fmt.Errorf("failed to run reports: %w", err)
				}

				paths, err := output.NewExporter(dir).Export(tables)
				if err != nil {
					return fmt.Errorf("failed to export reports: %w", err)
				}

				for _, p := range paths {
					fmt.Fprintln(cmd.OutOrStdout(), p)
				}
				return nil
			})
		},
	}

	cmd.Flags().String("dir", "", "Output directory (defaults to EXPORT_DIR)")

	return cmd
}

func reportNames() []string {
	var names []string
	for _, r := range analytics.Reports() {
		names = append(names, r.Name)
	}
	return names
}
