package websearch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"NewsScanner/internal/domain"
	"NewsScanner/internal/filter"
	"NewsScanner/internal/ports"
)

// KeywordProvider supplies the prioritized query list for a scan.
type KeywordProvider interface {
	Generate(ctx context.Context, briefing string) ([]string, error)
}

// videoDomains mark results to surface ahead of articles.
var videoDomains = []string{
	"youtube.com", "youtu.be",
	"vimeo.com",
	"tiktok.com",
	"instagram.com",
	"twitch.tv",
	"dailymotion.com",
}

// Collector derives queries from the strategic briefing, searches each
// one and yields deduplicated, window-filtered raw items with video
// sources prioritized.
type Collector struct {
	search   ports.SearchClient
	keywords KeywordProvider
	fallback []string
	window   time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

var _ ports.Collector = (*Collector)(nil)

// NewCollector wires the search client and keyword provider. The fallback
// list is the built-in safety net for total keyword-generation failure.
func NewCollector(search ports.SearchClient, keywords KeywordProvider, fallback []string, window time.Duration, log *slog.Logger) *Collector {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Collector{
		search:   search,
		keywords: keywords,
		fallback: fallback,
		window:   window,
		now:      time.Now,
		logger:   log,
	}
}

// Collect runs two passes per keyword: a video-targeted query keeping only
// video-platform hits, then the plain query. A single failed query is
// logged and skipped. Availability of some signal beats waiting on the
// keyword engine: if generation fails entirely, the fallback list is used.
func (c *Collector) Collect(ctx context.Context, briefing string) (ports.Collection, error) {
	if c.search == nil {
		return ports.Collection{}, fmt.Errorf("web collector: search client not configured")
	}

	kws, err := c.keywordList(ctx, briefing)
	if err != nil {
		return ports.Collection{}, err
	}

	var items []domain.RawItem
	queried := make([]string, 0, len(kws))
	for _, kw := range kws {
		if ctx.Err() != nil {
			break
		}

		searched := false
		videoHits, err := c.search.Search(ctx, kw+" video")
		if err != nil {
			c.logger.Warn("video search failed, continuing", "keyword", kw, "error", err)
		} else {
			searched = true
			for _, hit := range videoHits {
				if !isVideoSource(hit.URL) {
					continue
				}
				if item, ok := resultToItem(hit, kw); ok {
					items = append(items, item)
				}
			}
		}

		hits, err := c.search.Search(ctx, kw)
		if err != nil {
			c.logger.Warn("search failed, skipping keyword", "keyword", kw, "error", err)
		} else {
			searched = true
			for _, hit := range hits {
				if item, ok := resultToItem(hit, kw); ok {
					items = append(items, item)
				}
			}
		}

		// Only keywords with at least one successful query count as used.
		if searched {
			queried = append(queried, kw)
		}
	}

	items = filter.Deduplicate(items)
	items = filter.TimeWindow{Window: c.window, Now: c.now}.Apply(items)

	// Videos ahead of articles; title order within each group keeps the
	// result deterministic across providers.
	sort.SliceStable(items, func(i, j int) bool {
		vi, vj := isVideoSource(items[i].URL), isVideoSource(items[j].URL)
		if vi != vj {
			return vi
		}
		return items[i].Title < items[j].Title
	})

	videos := 0
	for _, item := range items {
		if isVideoSource(item.URL) {
			videos++
		}
	}
	c.logger.Info("web collection done",
		"keywords", len(queried), "items", len(items), "videos", videos)

	return ports.Collection{Items: items, SourcesUsed: queried}, nil
}

func (c *Collector) keywordList(ctx context.Context, briefing string) ([]string, error) {
	if c.keywords != nil {
		kws, err := c.keywords.Generate(ctx, briefing)
		if err == nil && len(kws) > 0 {
			return kws, nil
		}
		if err != nil {
			c.logger.Warn("keyword generation failed, using built-in fallback", "error", err)
		}
	}
	if len(c.fallback) == 0 {
		return nil, fmt.Errorf("web collector: no keywords and no fallback configured")
	}
	return c.fallback, nil
}

func resultToItem(hit domain.SearchResult, keyword string) (domain.RawItem, bool) {
	title := strings.TrimSpace(hit.Title)
	link := strings.TrimSpace(hit.URL)
	if title == "" || link == "" {
		return domain.RawItem{}, false
	}

	source := hit.Source
	if source == "" {
		source = "Web Search"
	}
	snippet := strings.TrimSpace(hit.Snippet)

	return domain.RawItem{
		Title:         title,
		URL:           link,
		Source:        source,
		Description:   snippet,
		Body:          snippet,
		SearchKeyword: keyword,
	}, true
}

func isVideoSource(raw string) bool {
	lower := strings.ToLower(raw)
	for _, d := range videoDomains {
		if strings.Contains(lower, d) {
			return true
		}
	}
	return false
}
