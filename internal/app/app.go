package app

import (
	"log/slog"
	"time"

	"NewsScanner/internal/analysis"
	"NewsScanner/internal/config"
	"NewsScanner/internal/infrastructure/briefing"
	"NewsScanner/internal/infrastructure/feed"
	"NewsScanner/internal/infrastructure/llm"
	"NewsScanner/internal/infrastructure/storage"
	"NewsScanner/internal/infrastructure/websearch"
	"NewsScanner/internal/keywords"
	"NewsScanner/internal/logging"
	"NewsScanner/internal/ports"
	"NewsScanner/internal/server"
	"NewsScanner/internal/usecase"
)

// Application wires configuration to adapters, the scan use case and the
// HTTP surface.
type Application struct {
	cfg    config.Config
	server *server.Server
	store  *storage.KeywordStore
	logger *slog.Logger
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	chat := llm.NewClient(cfg.AI)

	var store *storage.KeywordStore
	var keywordStore ports.KeywordStore
	if cfg.Keywords.StorePath != "" {
		opened, err := storage.Open(cfg.Keywords.StorePath)
		if err != nil {
			baseLogger.Warn("keyword store unavailable, learning disabled", "error", err)
		} else {
			store = opened
			keywordStore = opened
		}
	}

	keywordEngine := keywords.NewEngine(chat, keywordStore, keywords.Options{
		MaxKeywords:      cfg.Keywords.Max,
		TopCount:         cfg.Keywords.TopCount,
		MinEffectiveness: cfg.Keywords.MinEffectiveness,
		Fallback:         cfg.Keywords.Fallback,
	}, baseLogger.With("component", "keywords"))

	analyzer := analysis.NewEngine(chat, analysis.Options{
		MaxAttempts: cfg.Scan.AnalysisAttempts,
		Backoff:     time.Duration(cfg.Scan.BackoffMillis) * time.Millisecond,
		MinInterval: time.Duration(cfg.Scan.AnalysisDelayMillis) * time.Millisecond,
	}, baseLogger.With("component", "analysis"))

	feedCollector := feed.NewCollector(nil, cfg.Feeds, cfg.Scan.FeedWindow(),
		baseLogger.With("component", "collector.feed"))

	searchClient := websearch.NewClient(cfg.Search.Endpoint, cfg.Search.APIKey, cfg.Search.MaxResults)
	webCollector := websearch.NewCollector(searchClient, keywordEngine, cfg.Keywords.Fallback,
		cfg.Scan.WebWindow(), baseLogger.With("component", "collector.web"))

	scanner := usecase.NewScanner(usecase.ScannerDeps{
		FeedCollector: feedCollector,
		WebCollector:  webCollector,
		Analyzer:      analyzer,
		Briefing:      briefing.FileSource{Path: cfg.Briefing.Path},
		Learner:       keywordEngine,
		Logger:        baseLogger.With("component", "scanner"),
	})

	return &Application{
		cfg:    cfg,
		server: server.New(scanner, cfg, baseLogger.With("component", "server")),
		store:  store,
		logger: baseLogger,
	}
}

// Run serves HTTP until the listener fails or the process exits.
func (a *Application) Run() error {
	defer a.close()
	return a.server.Run()
}

func (a *Application) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("closing keyword store", "error", err)
		}
	}
}
