package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"NewsScanner/internal/domain"
	"NewsScanner/internal/ports"
)

type fakeCollector struct {
	collection ports.Collection
	err        error
	calls      int
}

func (f *fakeCollector) Collect(_ context.Context, _ string) (ports.Collection, error) {
	f.calls++
	if f.err != nil {
		return ports.Collection{}, f.err
	}
	return f.collection, nil
}

type fakeAnalyzer struct {
	failTitles map[string]bool
	cancelOn   string
	cancel     context.CancelFunc
	calls      int
}

func (f *fakeAnalyzer) Analyze(_ context.Context, item domain.RawItem, _ string) (domain.Verdict, error) {
	f.calls++
	if f.cancelOn != "" && item.Title == f.cancelOn && f.cancel != nil {
		f.cancel()
	}
	if f.failTitles[item.Title] {
		return domain.Verdict{}, errors.New("model unavailable")
	}
	return domain.Verdict{
		Title:         item.Title,
		Source:        item.Source,
		URL:           item.URL,
		Importance:    domain.ImportanceMedium,
		Confidence:    0.5,
		SearchKeyword: item.SearchKeyword,
	}, nil
}

type fakeBriefing struct {
	text string
	err  error
}

func (f fakeBriefing) Load(context.Context) (string, error) {
	return f.text, f.err
}

type fakeLearner struct {
	recorded [][]domain.Verdict
}

func (f *fakeLearner) RecordOutcomes(_ context.Context, verdicts []domain.Verdict) error {
	f.recorded = append(f.recorded, verdicts)
	return nil
}

func item(title string) domain.RawItem {
	return domain.RawItem{Title: title, URL: "https://example.com/" + strings.ToLower(title), Source: "Example"}
}

func newTestScanner(feed, web ports.Collector, an ports.Analyzer, learner ports.KeywordLearner) *Scanner {
	return NewScanner(ScannerDeps{
		FeedCollector: feed,
		WebCollector:  web,
		Analyzer:      an,
		Briefing:      fakeBriefing{text: "strategic briefing"},
		Learner:       learner,
		Clock:         func() time.Time { return time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC) },
	})
}

func TestScanFeedPipeline(t *testing.T) {
	t.Parallel()

	feed := &fakeCollector{collection: ports.Collection{
		Items:       []domain.RawItem{item("One"), item("Two"), item("Three")},
		SourcesUsed: []string{"Feed A", "Feed B"},
	}}
	learner := &fakeLearner{}
	s := newTestScanner(feed, &fakeCollector{}, &fakeAnalyzer{}, learner)

	rep, err := s.Scan(context.Background(), domain.SourceFeed)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	if rep.TotalItems != 3 {
		t.Fatalf("total items: %d", rep.TotalItems)
	}
	if len(rep.SourcesUsed) != 2 {
		t.Fatalf("sources used: %v", rep.SourcesUsed)
	}
	if rep.SearchSource != domain.SourceFeed {
		t.Fatalf("search source: %s", rep.SearchSource)
	}
	if len(learner.recorded) != 0 {
		t.Fatal("feed scans must not feed the keyword learner")
	}
}

func TestScanWebSourceRecordsOutcomes(t *testing.T) {
	t.Parallel()

	web := &fakeCollector{collection: ports.Collection{
		Items:       []domain.RawItem{item("Hit")},
		SourcesUsed: []string{"ai governance"},
	}}
	learner := &fakeLearner{}
	s := newTestScanner(&fakeCollector{}, web, &fakeAnalyzer{}, learner)

	if _, err := s.Scan(context.Background(), domain.SourceWeb); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(learner.recorded) != 1 {
		t.Fatalf("expected one learner invocation, got %d", len(learner.recorded))
	}
	if len(learner.recorded[0]) != 1 {
		t.Fatalf("learner must see the produced verdicts")
	}
}

func TestScanExcludesFailedItemsButContinues(t *testing.T) {
	t.Parallel()

	feed := &fakeCollector{collection: ports.Collection{
		Items:       []domain.RawItem{item("Good"), item("Bad"), item("Fine")},
		SourcesUsed: []string{"Feed A"},
	}}
	an := &fakeAnalyzer{failTitles: map[string]bool{"Bad": true}}
	s := newTestScanner(feed, &fakeCollector{}, an, nil)

	rep, err := s.Scan(context.Background(), domain.SourceFeed)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if rep.TotalItems != 2 {
		t.Fatalf("expected the failing item excluded, got %d verdicts", rep.TotalItems)
	}
	if an.calls != 3 {
		t.Fatalf("every item must still be attempted, got %d calls", an.calls)
	}
}

func TestScanCancellationKeepsPartialReport(t *testing.T) {
	t.Parallel()

	feed := &fakeCollector{collection: ports.Collection{
		Items:       []domain.RawItem{item("First"), item("Second"), item("Third"), item("Fourth")},
		SourcesUsed: []string{"Feed A"},
	}}
	ctx, cancel := context.WithCancel(context.Background())
	an := &fakeAnalyzer{cancelOn: "Second", cancel: cancel}
	s := newTestScanner(feed, &fakeCollector{}, an, nil)

	rep, err := s.Scan(ctx, domain.SourceFeed)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if rep.TotalItems != 2 {
		t.Fatalf("expected the two verdicts produced before cancellation, got %d", rep.TotalItems)
	}
	if an.calls != 2 {
		t.Fatalf("analysis must stop after cancellation, got %d calls", an.calls)
	}
}

func TestScanCancellationBeforeAnyVerdictReturnsError(t *testing.T) {
	t.Parallel()

	feed := &fakeCollector{collection: ports.Collection{
		Items:       []domain.RawItem{item("First"), item("Second")},
		SourcesUsed: []string{"Feed A"},
	}}
	an := &fakeAnalyzer{}
	s := newTestScanner(feed, &fakeCollector{}, an, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Scan(ctx, domain.SourceFeed); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled when nothing was analyzed, got %v", err)
	}
	if an.calls != 0 {
		t.Fatalf("no analysis expected on a canceled context, got %d calls", an.calls)
	}
}

func TestScanEmptyCollectionYieldsEmptyReport(t *testing.T) {
	t.Parallel()

	feed := &fakeCollector{collection: ports.Collection{SourcesUsed: []string{"Feed A", "Feed B"}}}
	an := &fakeAnalyzer{}
	s := newTestScanner(feed, &fakeCollector{}, an, nil)

	rep, err := s.Scan(context.Background(), domain.SourceFeed)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if rep.TotalItems != 0 || len(rep.Items) != 0 {
		t.Fatalf("expected empty report, got %+v", rep)
	}
	if len(rep.SourcesUsed) != 2 {
		t.Fatalf("sources used must survive an empty collection: %v", rep.SourcesUsed)
	}
	if an.calls != 0 {
		t.Fatal("no analysis expected for an empty collection")
	}
}

func TestScanMissingBriefing(t *testing.T) {
	t.Parallel()

	s := NewScanner(ScannerDeps{
		FeedCollector: &fakeCollector{},
		WebCollector:  &fakeCollector{},
		Analyzer:      &fakeAnalyzer{},
		Briefing:      fakeBriefing{err: errors.New("file missing")},
	})

	if _, err := s.Scan(context.Background(), domain.SourceFeed); !errors.Is(err, ErrNoStrategicContext) {
		t.Fatalf("expected ErrNoStrategicContext, got %v", err)
	}
}

func TestScanUnknownSource(t *testing.T) {
	t.Parallel()

	s := newTestScanner(&fakeCollector{}, &fakeCollector{}, &fakeAnalyzer{}, nil)
	if _, err := s.Scan(context.Background(), domain.SearchSource("carrier pigeon")); !errors.Is(err, ErrNoCollector) {
		t.Fatalf("expected ErrNoCollector, got %v", err)
	}
}

func TestScanCollectorFailureAborts(t *testing.T) {
	t.Parallel()

	feed := &fakeCollector{err: errors.New("all feeds down")}
	s := newTestScanner(feed, &fakeCollector{}, &fakeAnalyzer{}, nil)

	if _, err := s.Scan(context.Background(), domain.SourceFeed); err == nil {
		t.Fatal("expected collection failure to abort the scan")
	}
}
