// Package keywords generates search queries for web collection and learns
// which of them actually surface important items.
package keywords

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"NewsScanner/internal/aireply"
	"NewsScanner/internal/domain"
	"NewsScanner/internal/ports"
)

const (
	defaultMaxKeywords      = 10
	defaultTopCount         = 5
	defaultMinEffectiveness = 0.3
)

// Engine blends AI-generated candidate keywords with historically
// effective ones. Statistics are loaded from the store when a scan asks
// for keywords and flushed back once outcomes are recorded; the engine is
// the single writer of the store for the duration of a scan.
type Engine struct {
	chat     ports.ChatClient
	store    ports.KeywordStore
	fallback []string

	maxKeywords      int
	topCount         int
	minEffectiveness float64
	now              func() time.Time
	logger           *slog.Logger

	mu    sync.Mutex
	stats map[string]domain.KeywordStat
}

var _ ports.KeywordLearner = (*Engine)(nil)

// Options tune selection bounds; zero values pick defaults.
type Options struct {
	MaxKeywords      int
	TopCount         int
	MinEffectiveness float64
	Fallback         []string
	Now              func() time.Time
}

// NewEngine wires the chat client and the stat store. Either may be nil:
// without chat the fallback list is used, without a store no learning
// survives the process.
func NewEngine(chat ports.ChatClient, store ports.KeywordStore, opts Options, log *slog.Logger) *Engine {
	if opts.MaxKeywords <= 0 {
		opts.MaxKeywords = defaultMaxKeywords
	}
	if opts.TopCount <= 0 {
		opts.TopCount = defaultTopCount
	}
	if opts.MinEffectiveness <= 0 {
		opts.MinEffectiveness = defaultMinEffectiveness
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		chat:             chat,
		store:            store,
		fallback:         opts.Fallback,
		maxKeywords:      opts.MaxKeywords,
		topCount:         opts.TopCount,
		minEffectiveness: opts.MinEffectiveness,
		now:              opts.Now,
		logger:           log,
	}
}

// Generate returns a prioritized keyword list: proven keywords first,
// fresh AI candidates after, deduplicated by normalized text and capped.
// AI failure degrades to the configured fallback so a scan never stalls
// on the collaborator.
func (e *Engine) Generate(ctx context.Context, briefing string) ([]string, error) {
	proven := e.topKeywords(ctx)

	fresh, err := e.generateFresh(ctx, briefing)
	if err != nil {
		e.logger.Warn("keyword generation failed, using fallback", "error", err)
		fresh = e.fallback
	}

	merged := mergeKeywords(proven, fresh, e.maxKeywords)
	if len(merged) == 0 {
		return nil, fmt.Errorf("keywords: no keywords available (no history, no AI, no fallback)")
	}
	return merged, nil
}

// RecordOutcomes folds verdict tiers back into the per-keyword counters
// and flushes the store once. Every keyword that contributed at least one
// surviving item gains exactly one use.
func (e *Engine) RecordOutcomes(ctx context.Context, verdicts []domain.Verdict) error {
	type tally struct{ high, medium, low int }
	counts := map[string]*tally{}
	for _, v := range verdicts {
		if v.SearchKeyword == "" {
			continue
		}
		t := counts[v.SearchKeyword]
		if t == nil {
			t = &tally{}
			counts[v.SearchKeyword] = t
		}
		switch v.Importance {
		case domain.ImportanceHigh:
			t.high++
		case domain.ImportanceMedium:
			t.medium++
		default:
			t.low++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.ensureLoadedLocked(ctx)

	changed := make([]domain.KeywordStat, 0, len(counts))
	for keyword, t := range counts {
		stat, ok := e.stats[keyword]
		if !ok {
			stat = domain.KeywordStat{Keyword: keyword}
		}
		stat.TimesUsed++
		stat.HighCount += t.high
		stat.MediumCount += t.medium
		stat.LowCount += t.low
		stat.LastUsed = e.now()
		stat.RecalcEffectiveness()
		e.stats[keyword] = stat
		changed = append(changed, stat)
	}
	sort.Slice(changed, func(i, j int) bool { return changed[i].Keyword < changed[j].Keyword })

	if e.store == nil {
		return nil
	}
	if err := e.store.Save(ctx, changed); err != nil {
		return fmt.Errorf("save keyword stats: %w", err)
	}
	return nil
}

func (e *Engine) topKeywords(ctx context.Context) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureLoadedLocked(ctx)

	ranked := make([]domain.KeywordStat, 0, len(e.stats))
	for _, stat := range e.stats {
		if stat.Effectiveness >= e.minEffectiveness {
			ranked = append(ranked, stat)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Effectiveness != ranked[j].Effectiveness {
			return ranked[i].Effectiveness > ranked[j].Effectiveness
		}
		return ranked[i].Keyword < ranked[j].Keyword
	})

	if len(ranked) > e.topCount {
		ranked = ranked[:e.topCount]
	}
	out := make([]string, len(ranked))
	for i, stat := range ranked {
		out[i] = stat.Keyword
	}
	return out
}

func (e *Engine) ensureLoadedLocked(ctx context.Context) {
	if e.stats != nil {
		return
	}
	e.stats = map[string]domain.KeywordStat{}
	if e.store == nil {
		return
	}
	stats, err := e.store.Load(ctx)
	if err != nil {
		e.logger.Warn("cannot load keyword stats, starting empty", "error", err)
		return
	}
	for _, stat := range stats {
		e.stats[stat.Keyword] = stat
	}
}

func (e *Engine) generateFresh(ctx context.Context, briefing string) ([]string, error) {
	if e.chat == nil {
		return nil, fmt.Errorf("chat client not configured")
	}

	reply, err := e.chat.Complete(ctx, keywordsSystemPrompt, buildKeywordsPrompt(briefing, e.now()))
	if err != nil {
		return nil, fmt.Errorf("keyword completion: %w", err)
	}

	var payload struct {
		Keywords  []string `json:"keywords"`
		Reasoning string   `json:"reasoning"`
	}
	if err := aireply.DecodeObject(reply, &payload); err != nil {
		return nil, fmt.Errorf("keyword reply: %w", err)
	}
	if len(payload.Keywords) == 0 {
		return nil, fmt.Errorf("keyword reply contained no keywords")
	}
	return payload.Keywords, nil
}

// mergeKeywords deduplicates by lowercased text, preserving the order
// proven-then-fresh, truncated to max.
func mergeKeywords(proven, fresh []string, max int) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, max)
	for _, list := range [][]string{proven, fresh} {
		for _, kw := range list {
			kw = strings.TrimSpace(kw)
			if kw == "" {
				continue
			}
			norm := strings.ToLower(kw)
			if _, ok := seen[norm]; ok {
				continue
			}
			seen[norm] = struct{}{}
			out = append(out, kw)
			if len(out) == max {
				return out
			}
		}
	}
	return out
}
