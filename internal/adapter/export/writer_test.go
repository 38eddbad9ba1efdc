package export

import (
	"bytes"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/neo-data-export/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func testDataset() domain.Dataset {
	return domain.Dataset{
		{
			AsteroidID:        "2021277",
			Name:              "21277 (1996 TO5)",
			AbsoluteMagnitude: f(16.1),
			DiameterMinKM:     f(1.6016),
			DiameterMaxKM:     f(3.5813),
			Hazardous:         false,
			OrbitID:           "659",
			SemiMajorAxisAU:   f(2.3772),
			Eccentricity:      f(0.3399),
			DiameterAvgKM:     f(2.59145),
		},
		{
			AsteroidID: "3542519",
			Name:       "(2010 PK9)",
			Hazardous:  true,
			// Every numeric field missing.
		},
	}
}

func testWriter(t *testing.T, dir string) *Writer {
	t.Helper()
	return &Writer{
		outputDir: dir,
		clock:     clockwork.NewFakeClockAt(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestWriter_Save_CSV(t *testing.T) {
	dir := t.TempDir()
	w := testWriter(t, dir)

	csvPath, reportPath, err := w.Save(testDataset(), false)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "neo_export_20260830T120000Z.csv"), csvPath)
	assert.Equal(t, filepath.Join(dir, "neo_summary_20260830T120000Z.txt"), reportPath)

	file, err := os.Open(csvPath)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{
		"id_asteroide", "nombre", "magnitud_absoluta", "diametro_min_km",
		"diametro_max_km", "es_peligroso", "id_orbita", "semi_eje_mayor",
		"excentricidad", "diametro_promedio_km",
	}, rows[0])

	assert.Equal(t, []string{
		"2021277", "21277 (1996 TO5)", "16.1", "1.6016", "3.5813",
		"false", "659", "2.3772", "0.3399", "2.59145",
	}, rows[1])

	// Missing numerics render as empty fields, not zeros.
	assert.Equal(t, []string{
		"3542519", "(2010 PK9)", "", "", "", "true", "", "", "", "",
	}, rows[2])
}

// Writing a dataset and reading it back reproduces the row count and column set.
func TestWriter_Save_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	w := testWriter(t, dir)
	dataset := testDataset()

	csvPath, _, err := w.Save(dataset, false)
	require.NoError(t, err)

	file, err := os.Open(csvPath)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)

	assert.Len(t, rows, len(dataset)+1)
	for _, row := range rows {
		assert.Len(t, row, len(rows[0]))
	}
}

func TestWriter_Save_Report(t *testing.T) {
	dir := t.TempDir()
	w := testWriter(t, dir)

	_, reportPath, err := w.Save(testDataset(), false)
	require.NoError(t, err)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	report := string(data)

	assert.Contains(t, report, "NEO Export Summary")
	assert.Contains(t, report, "Total records: 2")
	assert.Contains(t, report, "Potentially hazardous: 1")
	assert.Contains(t, report, "magnitud_absoluta")
	assert.Contains(t, report, "diametro_promedio_km")
	assert.NotContains(t, report, "extraction stopped early")
}

func TestWriter_Save_LogsSummary(t *testing.T) {
	var buf bytes.Buffer
	w := testWriter(t, t.TempDir())
	w.logger = slog.New(slog.NewTextHandler(&buf, nil))

	_, _, err := w.Save(testDataset(), false)
	require.NoError(t, err)

	logged := buf.String()
	assert.Contains(t, logged, "export summary")
	assert.Contains(t, logged, "Total records: 2")
	assert.Contains(t, logged, "Column statistics")
	assert.Contains(t, logged, "magnitud_absoluta")
}

func TestWriter_Save_TruncatedNote(t *testing.T) {
	dir := t.TempDir()
	w := testWriter(t, dir)

	_, reportPath, err := w.Save(testDataset(), true)
	require.NoError(t, err)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "extraction stopped early")
}

func TestWriter_Save_CreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")
	w := testWriter(t, dir)

	_, _, err := w.Save(testDataset(), false)
	require.NoError(t, err)

	// Saving again into the existing directory must also succeed.
	w.clock = clockwork.NewFakeClockAt(time.Date(2026, 8, 30, 13, 0, 0, 0, time.UTC))
	_, _, err = w.Save(testDataset(), false)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestBuildReport_EmptyColumn(t *testing.T) {
	dataset := domain.Dataset{{AsteroidID: "1", Name: "x", Hazardous: false}}
	report := BuildReport(dataset, false, time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))

	assert.Contains(t, report, "Total records: 1")
	// All-missing columns report a zero count, no statistics.
	assert.Contains(t, report, "magnitud_absoluta")
	assert.NotContains(t, report, "NaN")
}
