package ports

import (
	"context"

	"NewsScanner/internal/domain"
)

// Collection is one collector's output for a scan: the surviving items
// plus the labels of the sources that actually contributed.
type Collection struct {
	Items       []domain.RawItem
	SourcesUsed []string
}

// Collector gathers, deduplicates and window-filters raw items (stage 1).
// The strategic briefing is passed through so search-based collectors can
// derive their queries from it.
type Collector interface {
	Collect(ctx context.Context, briefing string) (Collection, error)
}

// ChatClient sends a prompt pair to the AI collaborator and returns the
// raw reply text. Replies may carry prose or formatting noise around the
// structured payload; callers own the parsing.
type ChatClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// SearchClient queries the web search collaborator for one keyword.
type SearchClient interface {
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
}

// Analyzer produces one verdict per surviving raw item (stage 2).
// A returned error means the item failed analysis and is excluded;
// unparseable replies degrade to a flagged verdict instead of erroring.
type Analyzer interface {
	Analyze(ctx context.Context, item domain.RawItem, briefing string) (domain.Verdict, error)
}

// KeywordStore persists keyword effectiveness statistics between scans.
type KeywordStore interface {
	Load(ctx context.Context) ([]domain.KeywordStat, error)
	Save(ctx context.Context, stats []domain.KeywordStat) error
}

// KeywordLearner records which tiers each search keyword produced once a
// scan completes.
type KeywordLearner interface {
	RecordOutcomes(ctx context.Context, verdicts []domain.Verdict) error
}

// ContextSource supplies the strategic briefing text, loaded once per scan.
type ContextSource interface {
	Load(ctx context.Context) (string, error)
}
