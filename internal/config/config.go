package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv       = "NEWS_SCANNER_CONFIG"
	aiAPIKeyEnv         = "AI_API_KEY"
	aiAPIURLEnv         = "AI_API_URL"
	aiModelEnv          = "AI_MODEL"
	searchAPIKeyEnv     = "WEB_SEARCH_API_KEY"
	searchAPIURLEnv     = "WEB_SEARCH_API_URL"
	searchMaxResultsEnv = "WEB_SEARCH_MAX_RESULTS"
	feedWindowHoursEnv  = "RSS_TIME_WINDOW_HOURS"
	webWindowDaysEnv    = "WEB_SEARCH_TIME_WINDOW_DAYS"
	serverAddrEnv       = "NEWS_SCANNER_ADDR"
)

// Config holds high-level settings required across the application.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	AI       AIConfig       `yaml:"ai"`
	Search   SearchConfig   `yaml:"search"`
	Scan     ScanConfig     `yaml:"scan"`
	Keywords KeywordsConfig `yaml:"keywords"`
	Briefing BriefingConfig `yaml:"briefing"`
	Feeds    []FeedConfig   `yaml:"feeds"`
}

// ServerConfig describes the HTTP listener and optional static frontend.
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"staticDir"`
}

// LoggingConfig selects log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// AIConfig defines how to contact the chat completion API.
type AIConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// SearchConfig defines how to contact the web search API.
type SearchConfig struct {
	Endpoint   string `yaml:"endpoint"`
	APIKey     string `yaml:"apiKey"`
	MaxResults int    `yaml:"maxResults"`
}

// ScanConfig tunes the collection windows and analysis pacing.
type ScanConfig struct {
	FeedWindowHours     int `yaml:"feedWindowHours"`
	WebWindowDays       int `yaml:"webWindowDays"`
	AnalysisDelayMillis int `yaml:"analysisDelayMillis"`
	AnalysisAttempts    int `yaml:"analysisAttempts"`
	BackoffMillis       int `yaml:"backoffMillis"`
}

// FeedWindow converts the feed recency window to a duration.
func (s ScanConfig) FeedWindow() time.Duration {
	return time.Duration(s.FeedWindowHours) * time.Hour
}

// WebWindow converts the search recency window to a duration.
func (s ScanConfig) WebWindow() time.Duration {
	return time.Duration(s.WebWindowDays) * 24 * time.Hour
}

// KeywordsConfig tunes keyword generation and the effectiveness store.
type KeywordsConfig struct {
	StorePath        string   `yaml:"storePath"`
	Max              int      `yaml:"max"`
	TopCount         int      `yaml:"topCount"`
	MinEffectiveness float64  `yaml:"minEffectiveness"`
	Fallback         []string `yaml:"fallback"`
}

// BriefingConfig points at the strategic context document.
type BriefingConfig struct {
	Path string `yaml:"path"`
}

// FeedConfig describes one RSS/Atom source.
type FeedConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides. A .env file in the working directory is honored first.
func Load() Config {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

// Status reports which required pieces of configuration are usable;
// surfaced via the health endpoint.
func (c Config) Status() map[string]bool {
	_, briefingErr := os.Stat(c.Briefing.Path)
	return map[string]bool{
		"briefing_exists": briefingErr == nil,
		"feeds_defined":   len(c.Feeds) > 0,
		"ai_api_key_set":  c.AI.APIKey != "",
		"search_key_set":  c.Search.APIKey != "",
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(aiAPIKeyEnv); v != "" {
		c.AI.APIKey = v
	}
	if v := os.Getenv(aiAPIURLEnv); v != "" {
		c.AI.Endpoint = v
	}
	if v := os.Getenv(aiModelEnv); v != "" {
		c.AI.Model = v
	}
	if v := os.Getenv(searchAPIKeyEnv); v != "" {
		c.Search.APIKey = v
	}
	if v := os.Getenv(searchAPIURLEnv); v != "" {
		c.Search.Endpoint = v
	}
	if v := envInt(searchMaxResultsEnv); v > 0 {
		c.Search.MaxResults = v
	}
	if v := envInt(feedWindowHoursEnv); v > 0 {
		c.Scan.FeedWindowHours = v
	}
	if v := envInt(webWindowDaysEnv); v > 0 {
		c.Scan.WebWindowDays = v
	}
	if v := os.Getenv(serverAddrEnv); v != "" {
		c.Server.Addr = v
	}
}

func envInt(name string) int {
	v := os.Getenv(name)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: %s=%q is not an integer, ignoring", name, v)
		return 0
	}
	return n
}

func mergeConfig(base, override Config) Config {
	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}
	if override.Server.StaticDir != "" {
		base.Server.StaticDir = override.Server.StaticDir
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.AI.Endpoint != "" {
		base.AI.Endpoint = override.AI.Endpoint
	}
	if override.AI.Model != "" {
		base.AI.Model = override.AI.Model
	}
	if override.AI.APIKey != "" {
		base.AI.APIKey = override.AI.APIKey
	}

	if override.Search.Endpoint != "" {
		base.Search.Endpoint = override.Search.Endpoint
	}
	if override.Search.APIKey != "" {
		base.Search.APIKey = override.Search.APIKey
	}
	if override.Search.MaxResults > 0 {
		base.Search.MaxResults = override.Search.MaxResults
	}

	if override.Scan.FeedWindowHours > 0 {
		base.Scan.FeedWindowHours = override.Scan.FeedWindowHours
	}
	if override.Scan.WebWindowDays > 0 {
		base.Scan.WebWindowDays = override.Scan.WebWindowDays
	}
	if override.Scan.AnalysisDelayMillis > 0 {
		base.Scan.AnalysisDelayMillis = override.Scan.AnalysisDelayMillis
	}
	if override.Scan.AnalysisAttempts > 0 {
		base.Scan.AnalysisAttempts = override.Scan.AnalysisAttempts
	}
	if override.Scan.BackoffMillis > 0 {
		base.Scan.BackoffMillis = override.Scan.BackoffMillis
	}

	if override.Keywords.StorePath != "" {
		base.Keywords.StorePath = override.Keywords.StorePath
	}
	if override.Keywords.Max > 0 {
		base.Keywords.Max = override.Keywords.Max
	}
	if override.Keywords.TopCount > 0 {
		base.Keywords.TopCount = override.Keywords.TopCount
	}
	if override.Keywords.MinEffectiveness > 0 {
		base.Keywords.MinEffectiveness = override.Keywords.MinEffectiveness
	}
	if len(override.Keywords.Fallback) > 0 {
		base.Keywords.Fallback = override.Keywords.Fallback
	}

	if override.Briefing.Path != "" {
		base.Briefing.Path = override.Briefing.Path
	}

	if len(override.Feeds) > 0 {
		base.Feeds = override.Feeds
	}

	return base
}

// defaultFallbackKeywords keep web scans alive when both keyword history
// and AI generation are unavailable. A yaml fallback list replaces them.
var defaultFallbackKeywords = []string{
	"industry regulation changes",
	"major platform policy updates",
	"technology market trends",
	"competitor funding announcements",
	"new compliance requirements",
	"emerging industry tools",
}

func defaultConfig() Config {
	return Config{
		Server:  ServerConfig{Addr: ":8000"},
		Logging: LoggingConfig{Level: "info"},
		AI: AIConfig{
			Endpoint: "https://api.openai.com/v1/chat/completions",
			Model:    "gpt-4o-mini",
		},
		Search: SearchConfig{
			Endpoint:   "https://api.tavily.com/search",
			MaxResults: 10,
		},
		Scan: ScanConfig{
			FeedWindowHours:     48,
			WebWindowDays:       30,
			AnalysisDelayMillis: 1000,
			AnalysisAttempts:    3,
			BackoffMillis:       3000,
		},
		Keywords: KeywordsConfig{
			StorePath:        "search_keywords.db",
			Max:              10,
			TopCount:         5,
			MinEffectiveness: 0.3,
			Fallback:         defaultFallbackKeywords,
		},
		Briefing: BriefingConfig{Path: "background.md"},
	}
}
