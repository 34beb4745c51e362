package domain

import "time"

// Verdict is a RawItem enriched with the analyzer's classification.
// Confidence is always in [0,1] and Importance one of the three tiers;
// the analysis layer clamps values before a Verdict is constructed.
type Verdict struct {
	Title              string     `json:"title"`
	Source             string     `json:"source"`
	URL                string     `json:"url"`
	Importance         Importance `json:"importance"`
	Confidence         float64    `json:"confidence"`
	Rationale          []string   `json:"why_it_matters"`
	Evidence           string     `json:"evidence"`
	SecondOrderImpacts string     `json:"second_order_impacts,omitempty"`
	RecommendedActions []string   `json:"recommended_actions"`
	DedupeNote         string     `json:"dedupe_note,omitempty"`
	Category           string     `json:"category,omitempty"`

	// SearchKeyword is carried from the RawItem for effectiveness
	// attribution; it is pipeline metadata, not report payload.
	SearchKeyword string `json:"-"`
}

// ClampConfidence forces a confidence value into [0,1].
func ClampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// SearchSource selects the stage-1 collector.
type SearchSource string

const (
	SourceFeed SearchSource = "feed"
	SourceWeb  SearchSource = "web"
)

// ScanReport is the immutable result of one pipeline run.
type ScanReport struct {
	TotalItems    int          `json:"total_items"`
	HighCount     int          `json:"high_importance_count"`
	MediumCount   int          `json:"medium_importance_count"`
	LowCount      int          `json:"low_importance_count"`
	Items         []Verdict    `json:"items"`
	ScanTimestamp string       `json:"scan_timestamp"`
	SearchSource  SearchSource `json:"search_source"`
	// SourcesUsed lists the feed labels or search queries that actually
	// contributed, so partial failures stay visible to the caller.
	SourcesUsed []string `json:"feeds_or_queries_used"`
}

// KeywordStat accumulates per-keyword outcome counters across scans.
// Rows are only ever inserted or updated, never deleted.
type KeywordStat struct {
	Keyword       string
	TimesUsed     int
	HighCount     int
	MediumCount   int
	LowCount      int
	LastUsed      time.Time
	Effectiveness float64
}

// RecalcEffectiveness rescores the keyword, weighting high outcomes 3x
// and medium 1x, normalized per use into [0,1].
func (k *KeywordStat) RecalcEffectiveness() {
	if k.TimesUsed == 0 {
		k.Effectiveness = 0
		return
	}
	weighted := float64(k.HighCount*3+k.MediumCount) / float64(k.TimesUsed)
	k.Effectiveness = weighted / 3.0
	if k.Effectiveness > 1 {
		k.Effectiveness = 1
	}
}
