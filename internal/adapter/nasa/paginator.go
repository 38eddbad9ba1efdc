package nasa

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/neo-data-export/internal/domain"
	"github.com/couchcryptid/neo-data-export/internal/observability"
	"github.com/jonboulle/clockwork"
)

// PageFetcher fetches one page of NEO records.
type PageFetcher interface {
	FetchPage(ctx context.Context, page int) (domain.BrowsePage, error)
}

// Paginator walks the browse endpoint from page 0 until the API returns an
// empty page or a page fails for good, pausing between calls to respect the
// upstream rate limit.
type Paginator struct {
	fetcher PageFetcher
	delay   time.Duration
	clock   clockwork.Clock
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewPaginator creates a Paginator with the given inter-page delay.
func NewPaginator(fetcher PageFetcher, delay time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Paginator {
	return &Paginator{
		fetcher: fetcher,
		delay:   delay,
		clock:   clockwork.NewRealClock(),
		metrics: metrics,
		logger:  logger,
	}
}

// FetchAll accumulates records page by page in return order. A fetch failure
// ends pagination but keeps everything gathered so far, marking the result
// truncated so callers can tell it apart from a clean end of data.
func (p *Paginator) FetchAll(ctx context.Context) (domain.BrowseResult, error) {
	var result domain.BrowseResult

	for page := 0; ; page++ {
		browsePage, err := p.fetcher.FetchPage(ctx, page)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			p.logger.Error("stopping pagination after fetch failure",
				"page", page, "pages_fetched", result.Pages, "error", err)
			result.Truncated = true
			result.FetchErr = err
			return result, nil
		}

		if len(browsePage.Records) == 0 {
			p.logger.Info("pagination complete",
				"pages", result.Pages, "records", len(result.Records))
			return result, nil
		}

		result.Records = append(result.Records, browsePage.Records...)
		result.Pages++
		p.metrics.PagesFetched.Inc()
		p.metrics.RecordsExtracted.Add(float64(len(browsePage.Records)))
		p.logger.Debug("page fetched", "page", page, "records", len(browsePage.Records))

		if !sleep(ctx, p.clock, p.delay) {
			return result, ctx.Err()
		}
	}
}
