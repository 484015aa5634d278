package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"rental-analytics/internal/config"
	"rental-analytics/internal/models"
	"rental-analytics/internal/schema"
)

func SchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Describe the rental tables",
		Long:  `Prints the tables, columns and foreign keys defined by the models. With --check, compares them against the connected database instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			check, _ := cmd.Flags().GetBool("check")
			if check {
				return withDB(cmd, func(db *gorm.DB, _ *config.Config) error {
					return checkSchema(cmd.OutOrStdout(), db)
				})
			}

			tables, err := schema.CreateTablesFromModels(models.ModelTypeRegistry)
			if err != nil {
				return fmt.Errorf("failed to parse models: %w", err)
			}
			return describeTables(cmd.OutOrStdout(), tables)
		},
	}

	cmd.Flags().Bool("check", false, "Compare the models with the connected database")

	return cmd
}

func describeTables(out io.Writer, tables []*schema.Table) error {
	for i, table := range tables {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s\n", table.TableName())

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, col := range table.TableColumns() {
			var attrs []string
			if col.IsPrimaryKey() {
				attrs = append(attrs, "primary key")
			} else if !col.Nullable() {
				attrs = append(attrs, "not null")
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", col.ColumnName(), col.SQLType(), strings.Join(attrs, ", "))
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		for _, fk := range table.ForeignKeys() {
			fmt.Fprintf(out, "  foreign key %s\n", fk)
		}
	}
	return nil
}

func checkSchema(out io.Writer, db *gorm.DB) error {
	drifts, err := schema.NewSchemaComparer(db).Compare(models.ModelTypeRegistry...)
	if err != nil {
		return err
	}
	if len(drifts) == 0 {
		fmt.Fprintln(out, "Schema matches models")
		return nil
	}

	for _, d := range drifts {
		if d.MissingTable {
			fmt.Fprintf(out, "%s: table missing\n", d.Table)
			continue
		}
		if len(d.MissingColumns) > 0 {
			fmt.Fprintf(out, "%s: missing columns %s\n", d.Table, strings.Join(d.MissingColumns, ", "))
		}
		if len(d.MissingIndexes) > 0 {
			fmt.Fprintf(out, "%s: missing indexes %s\n", d.Table, strings.Join(d.MissingIndexes, ", "))
		}
		if len(d.MissingConstraints) > 0 {
			fmt.Fprintf(out, "%s: missing constraints %s\n", d.Table, strings.Join(d.MissingConstraints, ", "))
		}
	}
	return fmt.Errorf("%w: %d tables", schema.ErrSchemaDrift, len(drifts))
}
