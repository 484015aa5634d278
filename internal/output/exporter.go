package output

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"rental-analytics/internal/analytics"
)

// Exporter writes report tables as CSV files for the dashboard, one file
// per report named after it.
type Exporter struct {
	dir string
}

func NewExporter(dir string) *Exporter {
	return &Exporter{dir: dir}
}

// Path is where the report named name is written.
func (e *Exporter) Path(name string) string {
	return filepath.Join(e.dir, name+".csv")
}

// Export creates (or truncates) one CSV file per table and returns the paths
// written.
func (e *Exporter) Export(tables []*analytics.Table) ([]string, error) {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	paths := make([]string, 0, len(tables))
	for _, t := range tables {
		path := e.Path(t.Name)
		if err := writeFile(path, t); err != nil {
			return paths, err
		}
		log.WithFields(log.Fields{"report": t.Name, "rows": len(t.Rows), "path": path}).Info("exported report")
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, t *analytics.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", path, err)
	}

	if err := renderCSV(f, t); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
