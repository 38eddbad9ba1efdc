package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/couchcryptid/neo-data-export/internal/domain"
)

// BuildReport renders the plain-text summary: totals, the hazardous count,
// and per-column descriptive statistics over non-missing values.
func BuildReport(dataset domain.Dataset, truncated bool, generatedAt time.Time) string {
	var b strings.Builder

	b.WriteString("NEO Export Summary\n")
	b.WriteString("==================\n")
	fmt.Fprintf(&b, "Generated: %s\n", generatedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Total records: %d\n", len(dataset))
	fmt.Fprintf(&b, "Potentially hazardous: %d\n", dataset.HazardousCount())
	if truncated {
		b.WriteString("NOTE: extraction stopped early after a page fetch failure; totals cover fetched pages only.\n")
	}
	b.WriteString("\n")

	b.WriteString("Column statistics (non-missing values):\n")
	fmt.Fprintf(&b, "%-22s %7s %12s %12s %12s %12s %12s %12s %12s\n",
		"column", "count", "mean", "std", "min", "25%", "50%", "75%", "max")

	for _, col := range domain.NumericColumns {
		s := domain.Describe(dataset.Column(col))
		if s.Count == 0 {
			fmt.Fprintf(&b, "%-22s %7d %12s %12s %12s %12s %12s %12s %12s\n",
				col.Name, 0, "-", "-", "-", "-", "-", "-", "-")
			continue
		}
		fmt.Fprintf(&b, "%-22s %7d %12.4f %12.4f %12.4f %12.4f %12.4f %12.4f %12.4f\n",
			col.Name, s.Count, s.Mean, s.Std, s.Min, s.Q25, s.Median, s.Q75, s.Max)
	}

	return b.String()
}
