package config

import (
	"testing"
	"time"
)

func TestDefaultsShipFallbackKeywords(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	if len(cfg.Keywords.Fallback) == 0 {
		t.Fatal("defaults must carry a built-in fallback keyword list")
	}
	for i, kw := range cfg.Keywords.Fallback {
		if kw == "" {
			t.Fatalf("fallback keyword %d is empty", i)
		}
	}
}

func TestMergeKeepsFallbackWhenFileOmitsIt(t *testing.T) {
	t.Parallel()

	merged := mergeConfig(defaultConfig(), Config{
		Keywords: KeywordsConfig{Max: 7},
	})
	if len(merged.Keywords.Fallback) == 0 {
		t.Fatal("omitting the yaml fallback list must keep the built-in one")
	}
	if merged.Keywords.Max != 7 {
		t.Fatalf("max: %d", merged.Keywords.Max)
	}
}

func TestMergeReplacesFallbackWhenFileSetsIt(t *testing.T) {
	t.Parallel()

	merged := mergeConfig(defaultConfig(), Config{
		Keywords: KeywordsConfig{Fallback: []string{"custom query"}},
	})
	if len(merged.Keywords.Fallback) != 1 || merged.Keywords.Fallback[0] != "custom query" {
		t.Fatalf("fallback: %v", merged.Keywords.Fallback)
	}
}

func TestScanWindows(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	if got := cfg.Scan.FeedWindow(); got != 48*time.Hour {
		t.Fatalf("feed window: %v", got)
	}
	if got := cfg.Scan.WebWindow(); got != 30*24*time.Hour {
		t.Fatalf("web window: %v", got)
	}
}
