// Package analysis implements stage 2 of the scan: per-item AI
// classification with bounded retry, call-rate limiting and degraded
// parsing of noisy replies.
package analysis

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"NewsScanner/internal/domain"
	"NewsScanner/internal/ports"
)

const (
	defaultMaxAttempts = 3
	defaultBackoff     = 3 * time.Second
	defaultMinInterval = time.Second
)

// Engine turns raw items into verdicts via the chat collaborator.
type Engine struct {
	chat        ports.ChatClient
	maxAttempts int
	backoff     time.Duration
	minInterval time.Duration
	logger      *slog.Logger

	mu       sync.Mutex
	lastCall time.Time
}

var _ ports.Analyzer = (*Engine)(nil)

// Options tune retry and pacing behavior; zero values pick defaults.
// A negative MinInterval disables pacing entirely.
type Options struct {
	MaxAttempts int
	Backoff     time.Duration
	MinInterval time.Duration
}

// NewEngine wires the chat client. A nil logger disables logging.
func NewEngine(chat ports.ChatClient, opts Options, log *slog.Logger) *Engine {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.Backoff <= 0 {
		opts.Backoff = defaultBackoff
	}
	switch {
	case opts.MinInterval < 0:
		opts.MinInterval = 0
	case opts.MinInterval == 0:
		opts.MinInterval = defaultMinInterval
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		chat:        chat,
		maxAttempts: opts.MaxAttempts,
		backoff:     opts.Backoff,
		minInterval: opts.MinInterval,
		logger:      log,
	}
}

// Analyze classifies one item against the strategic briefing. Transient
// collaborator failures are retried with doubling backoff; once attempts
// are exhausted the item fails and is excluded by the caller. Unparseable
// replies never fail: they degrade to a low-confidence flagged verdict.
func (e *Engine) Analyze(ctx context.Context, item domain.RawItem, briefing string) (domain.Verdict, error) {
	if e.chat == nil {
		return domain.Verdict{}, fmt.Errorf("analysis: chat client not configured")
	}

	prompt := buildAnalysisPrompt(item, briefing)

	var reply string
	var err error
	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		if waitErr := e.pace(ctx); waitErr != nil {
			return domain.Verdict{}, waitErr
		}

		reply, err = e.chat.Complete(ctx, analysisSystemPrompt, prompt)
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			return domain.Verdict{}, ctx.Err()
		}
		if attempt == e.maxAttempts {
			return domain.Verdict{}, fmt.Errorf("analyze %q: %w", item.Title, err)
		}

		delay := e.backoff << (attempt - 1)
		e.logger.Warn("analysis call failed, retrying",
			"title", item.Title, "attempt", attempt, "delay", delay, "error", err)
		if sleepErr := sleepCtx(ctx, delay); sleepErr != nil {
			return domain.Verdict{}, sleepErr
		}
	}

	verdict, degraded := parseVerdict(reply, item)
	if degraded {
		e.logger.Warn("unparseable analysis reply, degraded verdict",
			"title", item.Title, "reply_prefix", prefix(reply, 120))
	}
	return verdict, nil
}

// pace enforces the minimum delay between consecutive collaborator calls.
// Dispatch is serialized; only the wait itself honors cancellation.
func (e *Engine) pace(ctx context.Context) error {
	if e.minInterval == 0 {
		return nil
	}

	e.mu.Lock()
	now := time.Now()
	wait := time.Duration(0)
	if !e.lastCall.IsZero() {
		if elapsed := now.Sub(e.lastCall); elapsed < e.minInterval {
			wait = e.minInterval - elapsed
		}
	}
	e.lastCall = now.Add(wait)
	e.mu.Unlock()

	if wait > 0 {
		return sleepCtx(ctx, wait)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
