package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v2"

	"rental-analytics/internal/analytics"
)

var ErrUnknownFormat = errors.New("unknown output format")

type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Formats lists the accepted --format values.
func Formats() []Format {
	return []Format{FormatTable, FormatCSV, FormatJSON, FormatYAML}
}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Render writes t to w in the given format. Null cells are empty in text
// and CSV output and null in JSON and YAML.
func Render(w io.Writer, t *analytics.Table, format Format) error {
	switch format {
	case FormatTable, "":
		return renderTable(w, t)
	case FormatCSV:
		return renderCSV(w, t)
	case FormatJSON:
		return renderJSON(w, t)
	case FormatYAML:
		return renderYAML(w, t)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func renderTable(w io.Writer, t *analytics.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = strings.ToUpper(col)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = formatCell(v, 2)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func renderCSV(w io.Writer, t *analytics.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = formatCell(v, -1)
		}
		if err := cw.Write(cells); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// record keeps column order when marshalled to JSON.
type record struct {
	columns []string
	values  []interface{}
}

func (r record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, fmt.Errorf("json: column %s: %w", col, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func renderJSON(w io.Writer, t *analytics.Table) error {
	records := make([]record, 0, len(t.Rows))
	for _, row := range t.Rows {
		records = append(records, record{columns: t.Columns, values: row})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func renderYAML(w io.Writer, t *analytics.Table) error {
	rows := make([]yaml.MapSlice, 0, len(t.Rows))
	for _, row := range t.Rows {
		item := make(yaml.MapSlice, 0, len(t.Columns))
		for i, col := range t.Columns {
			item = append(item, yaml.MapItem{Key: col, Value: row[i]})
		}
		rows = append(rows, item)
	}

	data, err := yaml.Marshal(rows)
	if err != nil {
		return fmt.Errorf("yaml: marshal %s: %w", t.Name, err)
	}
	_, err = w.Write(data)
	return err
}

// formatCell renders a cell as text; prec is the float precision, -1 for
// the shortest exact form.
func formatCell(v interface{}, prec int) string {
	switch val := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(val, 'f', prec, 64)
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
