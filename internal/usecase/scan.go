// Package usecase orchestrates the two-stage scan workflow.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"NewsScanner/internal/domain"
	"NewsScanner/internal/ports"
	"NewsScanner/internal/report"
)

// Configuration failures abort the whole scan before any partial work;
// everything below scan level is absorbed and logged.
var (
	ErrNoStrategicContext = errors.New("strategic context unavailable")
	ErrNoCollector        = errors.New("no collector for requested source")
)

// ScannerDeps wires all driven adapters into the scan orchestration.
type ScannerDeps struct {
	FeedCollector ports.Collector
	WebCollector  ports.Collector
	Analyzer      ports.Analyzer
	Briefing      ports.ContextSource
	Learner       ports.KeywordLearner
	Clock         func() time.Time
	Logger        *slog.Logger
}

// Scanner implements the on-demand two-stage scan: collect, analyze,
// assemble.
type Scanner struct {
	feed     ports.Collector
	web      ports.Collector
	analyzer ports.Analyzer
	briefing ports.ContextSource
	learner  ports.KeywordLearner
	clock    func() time.Time
	logger   *slog.Logger
}

// NewScanner constructs the orchestration component.
func NewScanner(deps ScannerDeps) *Scanner {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Scanner{
		feed:     deps.FeedCollector,
		web:      deps.WebCollector,
		analyzer: deps.Analyzer,
		briefing: deps.Briefing,
		learner:  deps.Learner,
		clock:    deps.Clock,
		logger:   deps.Logger,
	}
}

// Scan runs one pipeline execution for the requested source and returns
// the assembled report. Cancellation mid-analysis yields a report built
// from whatever was already analyzed; the context error surfaces only
// when no verdict was produced at all.
func (s *Scanner) Scan(ctx context.Context, source domain.SearchSource) (domain.ScanReport, error) {
	if s.briefing == nil {
		return domain.ScanReport{}, ErrNoStrategicContext
	}
	briefingText, err := s.briefing.Load(ctx)
	if err != nil {
		return domain.ScanReport{}, fmt.Errorf("%w: %v", ErrNoStrategicContext, err)
	}

	collector := s.collectorFor(source)
	if collector == nil {
		return domain.ScanReport{}, fmt.Errorf("%w: %s", ErrNoCollector, source)
	}

	s.logger.Info("stage 1: collecting", "source", source)
	collection, err := collector.Collect(ctx, briefingText)
	if err != nil {
		return domain.ScanReport{}, fmt.Errorf("collect (%s): %w", source, err)
	}
	s.logger.Info("stage 1 done", "items", len(collection.Items), "sources", len(collection.SourcesUsed))

	if len(collection.Items) == 0 {
		return report.Assemble(nil, source, collection.SourcesUsed, s.clock()), nil
	}

	s.logger.Info("stage 2: analyzing", "items", len(collection.Items))
	verdicts := s.analyzeAll(ctx, collection.Items, briefingText)
	if len(verdicts) == 0 && ctx.Err() != nil {
		return domain.ScanReport{}, ctx.Err()
	}

	if s.learner != nil && source == domain.SourceWeb {
		if recErr := s.learner.RecordOutcomes(ctx, verdicts); recErr != nil {
			s.logger.Warn("cannot record keyword outcomes", "error", recErr)
		}
	}

	rep := report.Assemble(verdicts, source, collection.SourcesUsed, s.clock())
	s.logger.Info("scan done",
		"analyzed", rep.TotalItems, "attempted", len(collection.Items),
		"high", rep.HighCount, "medium", rep.MediumCount, "low", rep.LowCount)
	return rep, nil
}

// analyzeAll produces one verdict per item in order. Per-item failures
// are logged and the item excluded; cancellation stops the loop and keeps
// the verdicts produced so far.
func (s *Scanner) analyzeAll(ctx context.Context, items []domain.RawItem, briefingText string) []domain.Verdict {
	verdicts := make([]domain.Verdict, 0, len(items))
	for i, item := range items {
		if ctx.Err() != nil {
			s.logger.Warn("scan canceled, returning partial analysis",
				"analyzed", len(verdicts), "remaining", len(items)-i)
			break
		}

		verdict, err := s.analyzer.Analyze(ctx, item, briefingText)
		if err != nil {
			s.logger.Warn("item analysis failed, excluding",
				"title", item.Title, "error", err)
			continue
		}
		verdicts = append(verdicts, verdict)
	}
	return verdicts
}

func (s *Scanner) collectorFor(source domain.SearchSource) ports.Collector {
	switch source {
	case domain.SourceWeb:
		return s.web
	case domain.SourceFeed:
		return s.feed
	default:
		return nil
	}
}
