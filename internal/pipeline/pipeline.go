// Package pipeline wires extraction, transformation, and persistence into a
// single sequential export run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/neo-data-export/internal/domain"
	"github.com/couchcryptid/neo-data-export/internal/observability"
)

// Extractor walks the upstream API and returns every fetched record.
type Extractor interface {
	FetchAll(ctx context.Context) (domain.BrowseResult, error)
}

// Transformer normalizes raw records into export rows.
type Transformer interface {
	Process(records []domain.RawRecord) (domain.Dataset, error)
}

// Persister writes the dataset to its output files.
type Persister interface {
	Save(dataset domain.Dataset, truncated bool) (csvPath, reportPath string, err error)
}

// Publisher mirrors processed rows to an external sink. Optional.
type Publisher interface {
	PublishRows(ctx context.Context, dataset domain.Dataset) error
}

// Pipeline runs the stages in strict sequence: any stage failure aborts the
// run before the next stage produces output.
type Pipeline struct {
	extractor   Extractor
	transformer Transformer
	persister   Persister
	publisher   Publisher
	logger      *slog.Logger
	metrics     *observability.Metrics
	done        atomic.Bool

	mu     sync.RWMutex
	status domain.RunStatus
}

// New creates a Pipeline. publisher may be nil to disable mirroring.
func New(e Extractor, t Transformer, p Persister, pub Publisher, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		persister:   p,
		publisher:   pub,
		logger:      logger,
		metrics:     metrics,
		status:      domain.RunStatus{State: "idle"},
	}
}

// CheckReadiness reports whether the current run has completed its export.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.done.Load() {
		return errors.New("export has not completed yet")
	}
	return nil
}

// Status returns a snapshot of the current run's progress and outputs.
func (p *Pipeline) Status() domain.RunStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

func (p *Pipeline) setStatus(update func(*domain.RunStatus)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	update(&p.status)
}

// Run executes one export: fetch all pages, normalize, persist, and
// optionally publish. Errors are wrapped with the failing stage.
func (p *Pipeline) Run(ctx context.Context) error {
	p.metrics.ExportRunning.Set(1)
	defer p.metrics.ExportRunning.Set(0)

	start := time.Now()
	p.logger.Info("export started")
	p.setStatus(func(s *domain.RunStatus) {
		*s = domain.RunStatus{State: "running"}
	})

	result, err := p.extractor.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	p.setStatus(func(s *domain.RunStatus) {
		s.Pages = result.Pages
		s.Truncated = result.Truncated
	})
	if result.Truncated {
		p.logger.Warn("extraction truncated by fetch failure",
			"pages_fetched", result.Pages,
			"records", len(result.Records),
			"error", result.FetchErr)
	}

	dataset, err := p.transformer.Process(result.Records)
	if err != nil {
		return fmt.Errorf("transform: %w", err)
	}

	csvPath, reportPath, err := p.persister.Save(dataset, result.Truncated)
	if err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	p.metrics.RowsWritten.Add(float64(len(dataset)))
	p.setStatus(func(s *domain.RunStatus) {
		s.State = "complete"
		s.Rows = len(dataset)
		s.Hazardous = dataset.HazardousCount()
		s.CSVPath = csvPath
		s.ReportPath = reportPath
	})

	// Mirroring is best-effort: the export already succeeded on disk.
	if p.publisher != nil {
		if err := p.publisher.PublishRows(ctx, dataset); err != nil {
			p.logger.Error("row publish failed", "error", err, "rows", len(dataset))
		} else {
			p.metrics.RowsPublished.Add(float64(len(dataset)))
		}
	}

	p.done.Store(true)
	p.logger.Info("export complete",
		"rows", len(dataset),
		"hazardous", dataset.HazardousCount(),
		"pages", result.Pages,
		"csv", csvPath,
		"report", reportPath,
		"duration", time.Since(start))
	return nil
}
