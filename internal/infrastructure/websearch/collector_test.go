package websearch

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"NewsScanner/internal/config"
	"NewsScanner/internal/domain"
)

type fakeSearch struct {
	results map[string][]domain.SearchResult
	failOn  map[string]bool
	queries []string
}

func (f *fakeSearch) Search(_ context.Context, query string) ([]domain.SearchResult, error) {
	f.queries = append(f.queries, query)
	if f.failOn[query] {
		return nil, fmt.Errorf("provider error")
	}
	return f.results[query], nil
}

type fixedKeywords struct {
	list []string
	err  error
}

func (f fixedKeywords) Generate(context.Context, string) ([]string, error) {
	return f.list, f.err
}

func TestCollectPrioritizesVideos(t *testing.T) {
	t.Parallel()

	search := &fakeSearch{
		results: map[string][]domain.SearchResult{
			"topic video": {
				{Title: "A Video", URL: "https://youtube.com/watch?v=123", Snippet: "clip"},
				{Title: "Not A Video", URL: "https://blog.example/post", Snippet: "text"},
			},
			"topic": {
				{Title: "An Article", URL: "https://news.example/article", Snippet: "text"},
			},
		},
	}

	c := NewCollector(search, fixedKeywords{list: []string{"topic"}}, nil, 30*24*time.Hour, nil)
	got, err := c.Collect(context.Background(), "briefing")
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	if len(got.Items) != 2 {
		t.Fatalf("non-video hits from the video pass must be dropped; got %d items", len(got.Items))
	}
	if !strings.Contains(got.Items[0].URL, "youtube.com") {
		t.Fatalf("video must sort first, got %s", got.Items[0].URL)
	}
	if got.Items[0].SearchKeyword != "topic" {
		t.Fatalf("originating keyword must be recorded, got %q", got.Items[0].SearchKeyword)
	}
}

func TestCollectSkipsFailingKeyword(t *testing.T) {
	t.Parallel()

	search := &fakeSearch{
		results: map[string][]domain.SearchResult{
			"works": {{Title: "Hit", URL: "https://news.example/hit", Snippet: "x"}},
		},
		failOn: map[string]bool{"breaks": true, "breaks video": true, "works video": true},
	}

	c := NewCollector(search, fixedKeywords{list: []string{"breaks", "works"}}, nil, 30*24*time.Hour, nil)
	got, err := c.Collect(context.Background(), "briefing")
	if err != nil {
		t.Fatalf("a failing keyword must not abort collection: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].Title != "Hit" {
		t.Fatalf("expected the surviving keyword's hit, got %+v", got.Items)
	}
	if len(got.SourcesUsed) != 1 || got.SourcesUsed[0] != "works" {
		t.Fatalf("only keywords with a successful query count as used, got %v", got.SourcesUsed)
	}
}

func TestCollectCountsPartiallyFailedKeywordAsUsed(t *testing.T) {
	t.Parallel()

	search := &fakeSearch{
		results: map[string][]domain.SearchResult{
			"topic video": {{Title: "Clip", URL: "https://youtube.com/watch?v=9", Snippet: "x"}},
		},
		failOn: map[string]bool{"topic": true},
	}

	c := NewCollector(search, fixedKeywords{list: []string{"topic"}}, nil, 30*24*time.Hour, nil)
	got, err := c.Collect(context.Background(), "briefing")
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(got.Items) != 1 {
		t.Fatalf("video-pass hit must survive a failed plain query, got %d items", len(got.Items))
	}
	if len(got.SourcesUsed) != 1 || got.SourcesUsed[0] != "topic" {
		t.Fatalf("a keyword with one successful query counts as used, got %v", got.SourcesUsed)
	}
}

func TestCollectProceedsOnDefaultConfigWhenGenerationFails(t *testing.T) {
	t.Setenv("NEWS_SCANNER_CONFIG", "")

	cfg := config.Load()
	if len(cfg.Keywords.Fallback) == 0 {
		t.Fatal("default configuration must ship fallback keywords")
	}

	search := &fakeSearch{}
	c := NewCollector(search, fixedKeywords{err: fmt.Errorf("llm down")},
		cfg.Keywords.Fallback, cfg.Scan.WebWindow(), nil)
	got, err := c.Collect(context.Background(), "briefing")
	if err != nil {
		t.Fatalf("default fallback keywords must keep the scan alive: %v", err)
	}
	if len(got.SourcesUsed) != len(cfg.Keywords.Fallback) {
		t.Fatalf("expected every fallback keyword queried, got %v", got.SourcesUsed)
	}
}

func TestCollectDeduplicatesAcrossKeywords(t *testing.T) {
	t.Parallel()

	dup := domain.SearchResult{Title: "Same Story", URL: "https://news.example/same", Snippet: "x"}
	search := &fakeSearch{
		results: map[string][]domain.SearchResult{
			"k1": {dup},
			"k2": {dup},
		},
	}

	c := NewCollector(search, fixedKeywords{list: []string{"k1", "k2"}}, nil, 30*24*time.Hour, nil)
	got, err := c.Collect(context.Background(), "briefing")
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(got.Items) != 1 {
		t.Fatalf("expected 1 deduplicated item, got %d", len(got.Items))
	}
	if got.Items[0].SearchKeyword != "k1" {
		t.Fatalf("first-seen keyword must be credited, got %q", got.Items[0].SearchKeyword)
	}
}

func TestCollectUsesFallbackWhenGenerationFails(t *testing.T) {
	t.Parallel()

	search := &fakeSearch{
		results: map[string][]domain.SearchResult{
			"builtin": {{Title: "Hit", URL: "https://news.example/hit", Snippet: "x"}},
		},
	}

	c := NewCollector(search, fixedKeywords{err: fmt.Errorf("llm down")},
		[]string{"builtin"}, 30*24*time.Hour, nil)
	got, err := c.Collect(context.Background(), "briefing")
	if err != nil {
		t.Fatalf("fallback keywords must keep the scan alive: %v", err)
	}
	if len(got.SourcesUsed) != 1 || got.SourcesUsed[0] != "builtin" {
		t.Fatalf("expected builtin fallback, got %v", got.SourcesUsed)
	}
	if len(got.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got.Items))
	}
}

func TestCollectNoKeywordsAtAll(t *testing.T) {
	t.Parallel()

	c := NewCollector(&fakeSearch{}, fixedKeywords{err: fmt.Errorf("down")}, nil, time.Hour, nil)
	if _, err := c.Collect(context.Background(), "briefing"); err == nil {
		t.Fatal("expected error with no keywords and no fallback")
	}
}

func TestIsVideoSource(t *testing.T) {
	t.Parallel()

	if !isVideoSource("https://www.YouTube.com/watch?v=1") {
		t.Fatal("youtube must count as video")
	}
	if isVideoSource("https://news.example/story") {
		t.Fatal("news site must not count as video")
	}
}
