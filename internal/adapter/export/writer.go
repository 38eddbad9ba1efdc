// Package export persists a processed dataset as a CSV file plus a plain-text
// summary report.
package export

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/couchcryptid/neo-data-export/internal/domain"
	"github.com/jonboulle/clockwork"
)

// header is the stable output contract; column order must not change.
var header = []string{
	"id_asteroide",
	"nombre",
	"magnitud_absoluta",
	"diametro_min_km",
	"diametro_max_km",
	"es_peligroso",
	"id_orbita",
	"semi_eje_mayor",
	"excentricidad",
	"diametro_promedio_km",
}

// Writer saves datasets under a single output directory, stamping file names
// with the generation time so prior runs are never overwritten.
type Writer struct {
	outputDir string
	clock     clockwork.Clock
	logger    *slog.Logger
}

// NewWriter creates a Writer for the given output directory.
func NewWriter(outputDir string, logger *slog.Logger) *Writer {
	return &Writer{
		outputDir: outputDir,
		clock:     clockwork.NewRealClock(),
		logger:    logger,
	}
}

// Save writes the CSV export and then the summary report, returning both
// paths. If the CSV write fails the report is not written.
func (w *Writer) Save(dataset domain.Dataset, truncated bool) (csvPath, reportPath string, err error) {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return "", "", fmt.Errorf("create output dir: %w", err)
	}

	now := w.clock.Now().UTC()
	stamp := now.Format("20060102T150405Z")
	csvPath = filepath.Join(w.outputDir, fmt.Sprintf("neo_export_%s.csv", stamp))
	reportPath = filepath.Join(w.outputDir, fmt.Sprintf("neo_summary_%s.txt", stamp))

	if err := w.writeCSV(csvPath, dataset); err != nil {
		return "", "", err
	}
	w.logger.Info("csv export written", "path", csvPath, "rows", len(dataset))

	report := BuildReport(dataset, truncated, now)
	if err := os.WriteFile(reportPath, []byte(report), 0o644); err != nil {
		return "", "", fmt.Errorf("write summary report: %w", err)
	}
	w.logger.Info("summary report written", "path", reportPath)
	w.logger.Info("export summary", "report", report)

	return csvPath, reportPath, nil
}

func (w *Writer) writeCSV(path string, dataset domain.Dataset) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}

	cw := csv.NewWriter(file)
	if err := cw.Write(header); err != nil {
		file.Close()
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range dataset {
		if err := cw.Write(rowValues(row)); err != nil {
			file.Close()
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		file.Close()
		return fmt.Errorf("flush csv: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close csv file: %w", err)
	}
	return nil
}

// rowValues renders one row in header order; missing numerics become empty fields.
func rowValues(r domain.Row) []string {
	return []string{
		r.AsteroidID,
		r.Name,
		formatOptional(r.AbsoluteMagnitude),
		formatOptional(r.DiameterMinKM),
		formatOptional(r.DiameterMaxKM),
		strconv.FormatBool(r.Hazardous),
		r.OrbitID,
		formatOptional(r.SemiMajorAxisAU),
		formatOptional(r.Eccentricity),
		formatOptional(r.DiameterAvgKM),
	}
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
