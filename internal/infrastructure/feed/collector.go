// Package feed implements the feed-based collector on top of RSS/Atom
// sources.
package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"NewsScanner/internal/config"
	"NewsScanner/internal/domain"
	"NewsScanner/internal/filter"
	"NewsScanner/internal/ports"
)

// Collector fetches configured feeds and yields deduplicated,
// window-filtered raw items. A single feed failing is logged and skipped;
// it never aborts collection from the remaining feeds.
type Collector struct {
	client *http.Client
	parser *gofeed.Parser
	feeds  []config.FeedConfig
	window time.Duration
	now    func() time.Time
	logger *slog.Logger
}

var _ ports.Collector = (*Collector)(nil)

// NewCollector wires an HTTP client; a nil client gets a sane timeout.
func NewCollector(client *http.Client, feeds []config.FeedConfig, window time.Duration, log *slog.Logger) *Collector {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Collector{
		client: client,
		parser: gofeed.NewParser(),
		feeds:  feeds,
		window: window,
		now:    time.Now,
		logger: log,
	}
}

// Collect walks every configured feed. The briefing is unused here: feed
// selection is static configuration, not context-derived.
func (c *Collector) Collect(ctx context.Context, _ string) (ports.Collection, error) {
	if len(c.feeds) == 0 {
		return ports.Collection{}, fmt.Errorf("feed collector: no feeds configured")
	}

	var items []domain.RawItem
	var used []string

	for _, f := range c.feeds {
		if f.URL == "" {
			c.logger.Warn("feed has no URL, skipping", "feed", f.Name)
			continue
		}

		parsed, err := c.fetch(ctx, f.URL)
		if err != nil {
			c.logger.Warn("feed fetch failed, skipping", "feed", f.Name, "error", err)
			continue
		}

		for _, entry := range parsed.Items {
			item, ok := entryToItem(entry, f.Name)
			if !ok {
				continue
			}
			items = append(items, item)
		}
		used = append(used, f.Name)
	}

	// Dedup before the window filter: both are order-stable and dedup is
	// the cheaper pass.
	items = filter.Deduplicate(items)
	items = filter.TimeWindow{Window: c.window, Now: c.now}.Apply(items)

	c.logger.Info("feed collection done",
		"feeds", len(c.feeds), "usable_feeds", len(used), "items", len(items))
	return ports.Collection{Items: items, SourcesUsed: used}, nil
}

func (c *Collector) fetch(ctx context.Context, url string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "NewsScanner/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned %s", resp.Status)
	}

	parsed, err := c.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return parsed, nil
}

func entryToItem(entry *gofeed.Item, feedName string) (domain.RawItem, bool) {
	title := strings.TrimSpace(entry.Title)
	link := strings.TrimSpace(entry.Link)
	if title == "" || link == "" {
		return domain.RawItem{}, false
	}

	var published time.Time
	if entry.PublishedParsed != nil {
		published = *entry.PublishedParsed
	} else if entry.UpdatedParsed != nil {
		published = *entry.UpdatedParsed
	}

	description := stripHTML(entry.Description)
	body := stripHTML(entry.Content)
	if body == "" {
		body = description
	}

	return domain.RawItem{
		Title:       title,
		URL:         link,
		Source:      feedName,
		PublishedAt: published,
		Description: description,
		Body:        body,
	}, true
}

// stripHTML reduces feed summaries to plain text; many feeds ship full
// markup in their description elements.
func stripHTML(s string) string {
	if s == "" || !strings.ContainsRune(s, '<') {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(strings.Join(strings.Fields(doc.Text()), " "))
}
