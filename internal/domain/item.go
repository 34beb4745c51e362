package domain

import (
	"strings"
	"time"
)

// Importance buckets news items by strategic urgency.
type Importance string

const (
	ImportanceHigh   Importance = "high"
	ImportanceMedium Importance = "medium"
	ImportanceLow    Importance = "low"
)

// Rank orders tiers for report sorting: high before medium before low.
func (i Importance) Rank() int {
	switch i {
	case ImportanceHigh:
		return 0
	case ImportanceMedium:
		return 1
	default:
		return 2
	}
}

// NormalizeImportance maps free-form model output onto a tier.
// Anything unrecognized degrades to low rather than surfacing as free text.
func NormalizeImportance(raw string) Importance {
	switch Importance(strings.ToLower(strings.TrimSpace(raw))) {
	case ImportanceHigh:
		return ImportanceHigh
	case ImportanceMedium:
		return ImportanceMedium
	default:
		return ImportanceLow
	}
}

// RawItem is an unanalyzed news item produced by a collector.
type RawItem struct {
	Title       string
	URL         string
	Source      string
	PublishedAt time.Time // zero when the source carried no usable date
	Description string
	Body        string
	// SearchKeyword records which query surfaced the item; empty for feed items.
	SearchKeyword string
}

// Key is the dedupe identity: case-insensitive title plus exact URL.
func (r RawItem) Key() string {
	return strings.ToLower(r.Title) + "|" + r.URL
}

// SearchResult is one hit returned by the search collaborator.
type SearchResult struct {
	Title   string
	URL     string
	Snippet string
	Source  string
}
