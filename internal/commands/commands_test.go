package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-analytics/internal/analytics"
	"rental-analytics/internal/schema"
)

func TestInitCmd(t *testing.T) {
	cmd := InitCmd()
	assert.Equal(t, "init", cmd.Use)
	assert.Equal(t, "Initialize migration tracking table in the database", cmd.Short)
}

func TestUpCmd(t *testing.T) {
	cmd := UpCmd()
	assert.Equal(t, "up", cmd.Use)
	assert.Equal(t, "Apply all pending migrations", cmd.Short)
	assert.NotNil(t, cmd.Flags().Lookup("dry-run"))
}

func TestDownCmd(t *testing.T) {
	cmd := DownCmd()
	assert.Equal(t, "down", cmd.Use)
	assert.Equal(t, "Revert the last migration", cmd.Short)
}

func TestStatusCmd(t *testing.T) {
	cmd := StatusCmd()
	assert.Equal(t, "status", cmd.Use)
	assert.Equal(t, "Show status of all migrations", cmd.Short)
}

func TestHistoryCmd(t *testing.T) {
	cmd := HistoryCmd()
	assert.Equal(t, "history", cmd.Use)
	assert.Equal(t, "Show migration history", cmd.Short)
}

func TestImportCmd(t *testing.T) {
	cmd := ImportCmd()
	assert.Equal(t, "import [csv]", cmd.Use)

	flags := cmd.Flags()
	assert.NotNil(t, flags.Lookup("replace"))
	assert.NotNil(t, flags.Lookup("batch-size"))
}

func TestReportCmd(t *testing.T) {
	cmd := ReportCmd()
	assert.Equal(t, "report [name]", cmd.Use)

	flags := cmd.Flags()
	assert.NotNil(t, flags.Lookup("format"))
	assert.NotNil(t, flags.Lookup("limit"))
	assert.NotNil(t, flags.Lookup("min-vehicles"))
}

func TestExportCmd(t *testing.T) {
	cmd := ExportCmd()
	assert.Equal(t, "export", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("dir"))
}

func execute(cmd *cobra.Command, args ...string) (string, error) {
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", filepath.Join(dir, "rentals.db"))
	t.Setenv("MIN_CITY_VEHICLES", "")
	t.Setenv("EXPORT_DIR", filepath.Join(dir, "exports"))
	return dir
}

const dataset = "vehicle_id,make,model,type,city,country,owner_id,daily_rate,rating,renter_trips_taken,review_count,estimated_price\n" +
	"1,Tesla,Model 3,car,Seattle,US,10,135,4.9,56,40,42000\n" +
	"2,Jeep,Wrangler,suv,Seattle,US,11,90,4.7,20,15,30000\n" +
	"2,Jeep,Wrangler,suv,Denver,US,11,95,4.8,12,9,30000\n"

func TestMissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "")

	_, err := execute(StatusCmd())
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestWorkflow(t *testing.T) {
	dir := setupEnv(t)

	out, err := execute(InitCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "initialized")

	out, err = execute(UpCmd(), "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "- create_rental_schema (20240601000001)")
	assert.Contains(t, out, "- create_report_views (20240601000002)")

	out, err = execute(UpCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully applied migration: create_rental_schema")
	assert.Contains(t, out, "Successfully applied migration: create_report_views")

	out, err = execute(UpCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "No pending migrations.")

	out, err = execute(StatusCmd())
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "Applied"))

	out, err = execute(SchemaCmd(), "--check")
	require.NoError(t, err)
	assert.Contains(t, out, "Schema matches models")

	csvPath := filepath.Join(dir, "rentals.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(dataset), 0644))

	out, err = execute(ImportCmd(), csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 3 rentals, 2 vehicles, 2 locations")

	_, err = execute(ImportCmd(), csvPath)
	assert.ErrorContains(t, err, "already holds data")

	out, err = execute(ImportCmd(), csvPath, "--replace", "--batch-size", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 3 rentals")

	out, err = execute(ReportCmd(), "weighted-rating", "--format", "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "make,model,rated_rentals,avg_rating,total_trips,weighted_score", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Tesla,Model 3,1,4.9,56,"))
	assert.True(t, strings.HasPrefix(lines[2], "Jeep,Wrangler,2,"))

	out, err = execute(ReportCmd(), "top-vehicles", "--format", "csv", "--limit", "1")
	require.NoError(t, err)
	assert.Equal(t, "vehicle_id,make,model,type,year,total_trips\n1,Tesla,Model 3,car,0,56\n", out)

	out, err = execute(ReportCmd(), "location-quality", "--format", "json", "--min-vehicles", "2")
	require.NoError(t, err)
	var cities []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &cities))
	require.Len(t, cities, 1)
	assert.Equal(t, "Seattle", cities[0]["city"])
	assert.Equal(t, float64(2), cities[0]["distinct_vehicles"])

	exportDir := filepath.Join(dir, "dashboard")
	out, err = execute(ExportCmd(), "--dir", exportDir)
	require.NoError(t, err)
	for _, r := range analytics.Reports() {
		path := filepath.Join(exportDir, r.Name+".csv")
		assert.FileExists(t, path)
		assert.Contains(t, out, path)
	}

	out, err = execute(HistoryCmd())
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "create_report_views"), strings.Index(out, "create_rental_schema"))

	out, err = execute(DownCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully reverted migration: create_report_views")

	out, err = execute(DownCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully reverted migration: create_rental_schema")

	out, err = execute(DownCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "No migrations to revert.")

	out, err = execute(SchemaCmd(), "--check")
	assert.ErrorIs(t, err, schema.ErrSchemaDrift)
	assert.Contains(t, out, "rentals: table missing")
}

func TestReportRejectsUnknownNames(t *testing.T) {
	setupEnv(t)

	_, err := execute(ReportCmd(), "fleet-size")
	assert.ErrorIs(t, err, analytics.ErrUnknownReport)
	assert.ErrorContains(t, err, "top-vehicles")

	_, err = execute(ReportCmd(), "top-vehicles", "--format", "xml")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestReportsCmd(t *testing.T) {
	out, err := execute(ReportsCmd())
	require.NoError(t, err)
	for _, r := range analytics.Reports() {
		assert.Contains(t, out, r.Name)
	}
}

func TestSchemaCmd(t *testing.T) {
	out, err := execute(SchemaCmd())
	require.NoError(t, err)

	assert.Contains(t, out, "vehicles\n")
	assert.Contains(t, out, "locations\n")
	assert.Contains(t, out, "rentals\n")
	assert.Contains(t, out, "numeric(3,2)")
	assert.Contains(t, out, "foreign key vehicle_id -> vehicles.id")
	assert.Contains(t, out, "foreign key location_id -> locations.id")
}
