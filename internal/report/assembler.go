// Package report assembles analyzed verdicts into the final scan report.
package report

import (
	"sort"
	"time"

	"NewsScanner/internal/domain"
)

// Assemble computes tier counts and orders verdicts deterministically:
// primary key importance tier, secondary key original processing order.
// The input slice is not mutated.
func Assemble(verdicts []domain.Verdict, source domain.SearchSource, sourcesUsed []string, at time.Time) domain.ScanReport {
	items := make([]domain.Verdict, len(verdicts))
	copy(items, verdicts)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Importance.Rank() < items[j].Importance.Rank()
	})

	var high, medium, low int
	for _, v := range items {
		switch v.Importance {
		case domain.ImportanceHigh:
			high++
		case domain.ImportanceMedium:
			medium++
		default:
			low++
		}
	}

	if sourcesUsed == nil {
		sourcesUsed = []string{}
	}

	return domain.ScanReport{
		TotalItems:    len(items),
		HighCount:     high,
		MediumCount:   medium,
		LowCount:      low,
		Items:         items,
		ScanTimestamp: at.Format(time.RFC3339),
		SearchSource:  source,
		SourcesUsed:   sourcesUsed,
	}
}
