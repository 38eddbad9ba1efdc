package pipeline

import (
	"log/slog"

	"github.com/couchcryptid/neo-data-export/internal/domain"
	"github.com/couchcryptid/neo-data-export/internal/observability"
)

// RowTransformer implements Transformer using the domain flattening functions,
// adding observability around coercion failures.
type RowTransformer struct {
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewTransformer creates a RowTransformer.
func NewTransformer(metrics *observability.Metrics, logger *slog.Logger) *RowTransformer {
	return &RowTransformer{metrics: metrics, logger: logger}
}

func (t *RowTransformer) Process(records []domain.RawRecord) (domain.Dataset, error) {
	dataset, err := domain.Process(records)
	if err != nil {
		return nil, err
	}

	for _, row := range dataset {
		if incomplete(row) {
			t.metrics.IncompleteRows.Inc()
			t.logger.Debug("row has missing numeric fields", "asteroid_id", row.AsteroidID)
		}
	}
	return dataset, nil
}

func incomplete(r domain.Row) bool {
	for _, col := range domain.NumericColumns {
		if col.Value(r) == nil {
			return true
		}
	}
	return false
}
