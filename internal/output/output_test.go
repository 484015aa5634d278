package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"

	"rental-analytics/internal/analytics"
)

func sampleTable() *analytics.Table {
	return &analytics.Table{
		Name:    "review-popularity",
		Columns: []string{"make", "model", "total_reviews", "avg_rating"},
		Rows: [][]interface{}{
			{"Tesla", "Model 3", int64(40), 4.875},
			{"Kia", "Soul, Base", nil, nil},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" JSON ")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleTable(), FormatTable))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "MAKE"))
	assert.Contains(t, lines[0], "AVG_RATING")
	assert.Contains(t, lines[1], "4.88")
	assert.Equal(t, "Kia", strings.Fields(lines[2])[0])
}

func TestRenderCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleTable(), FormatCSV))

	expected := "make,model,total_reviews,avg_rating\n" +
		"Tesla,Model 3,40,4.875\n" +
		"Kia,\"Soul, Base\",,\n"
	assert.Equal(t, expected, buf.String())
}

func TestRenderJSONKeepsColumnOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleTable(), FormatJSON))

	out := buf.String()
	assert.Less(t, strings.Index(out, `"make"`), strings.Index(out, `"total_reviews"`))
	assert.Less(t, strings.Index(out, `"total_reviews"`), strings.Index(out, `"avg_rating"`))

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, 4.875, decoded[0]["avg_rating"])
	assert.Nil(t, decoded[1]["avg_rating"])
	assert.Contains(t, decoded[1], "total_reviews")
}

func TestRenderJSONEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	table := &analytics.Table{Name: "top-vehicles", Columns: []string{"vehicle_id"}, Rows: [][]interface{}{}}
	require.NoError(t, Render(&buf, table, FormatJSON))
	assert.Equal(t, "[]\n", buf.String())
}

func TestRenderYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleTable(), FormatYAML))

	var decoded []yaml.MapSlice
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "make", decoded[0][0].Key)
	assert.Equal(t, "Tesla", decoded[0][0].Value)
	assert.Equal(t, "avg_rating", decoded[1][3].Key)
	assert.Nil(t, decoded[1][3].Value)
}

func TestRenderUnknownFormat(t *testing.T) {
	err := Render(&bytes.Buffer{}, sampleTable(), Format("xml"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestExporter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	exporter := NewExporter(dir)

	other := &analytics.Table{Name: "top-vehicles", Columns: []string{"vehicle_id", "total_trips"}, Rows: [][]interface{}{{uint(7), int64(12)}}}
	paths, err := exporter.Export([]*analytics.Table{sampleTable(), other})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "review-popularity.csv"),
		filepath.Join(dir, "top-vehicles.csv"),
	}, paths)

	data, err := os.ReadFile(exporter.Path("top-vehicles"))
	require.NoError(t, err)
	assert.Equal(t, "vehicle_id,total_trips\n7,12\n", string(data))
}
