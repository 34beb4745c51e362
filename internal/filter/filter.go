// Package filter holds the order-stable item filters every collector runs
// before handing items to analysis: deduplication and the recency window.
package filter

import (
	"time"

	"NewsScanner/internal/dateguess"
	"NewsScanner/internal/domain"
)

// Deduplicate returns the longest first-seen-order subsequence in which no
// two items share an identity key (case-insensitive title + exact URL).
// It is idempotent and never reorders survivors.
func Deduplicate(items []domain.RawItem) []domain.RawItem {
	seen := make(map[string]struct{}, len(items))
	out := make([]domain.RawItem, 0, len(items))
	for _, item := range items {
		key := item.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

// TimeWindow keeps items published within the last Window. Items without a
// parseable date are kept unless the staleness heuristic fires: the policy
// trades recall for precision only on a strong stale signal.
type TimeWindow struct {
	Window time.Duration
	Now    func() time.Time
}

// Apply returns the items surviving the window check, preserving order.
func (w TimeWindow) Apply(items []domain.RawItem) []domain.RawItem {
	now := time.Now()
	if w.Now != nil {
		now = w.Now()
	}
	cutoff := now.Add(-w.Window)

	out := make([]domain.RawItem, 0, len(items))
	for _, item := range items {
		if !item.PublishedAt.IsZero() {
			if inWindow(item.PublishedAt, cutoff, now) {
				out = append(out, item)
			}
			continue
		}

		guess := dateguess.Extract(item.Title, item.URL, item.Description, now)
		switch {
		case guess.Found:
			if inWindow(guess.Date, cutoff, now) {
				item.PublishedAt = guess.Date
				out = append(out, item)
			}
		case guess.Stale:
			// Obviously old content must not pollute the report.
		default:
			// Ambiguous: collectors return roughly time-ordered
			// results, so keep rather than starve the report.
			out = append(out, item)
		}
	}
	return out
}

func inWindow(d, cutoff, now time.Time) bool {
	return !d.Before(cutoff) && !d.After(now)
}
