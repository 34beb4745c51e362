package websearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientSearchNormalizesResults(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if payload["query"] != "test query" {
			t.Errorf("unexpected query: %v", payload["query"])
		}
		if payload["api_key"] != "secret" {
			t.Errorf("api key not sent")
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]string{
				{"title": "Hit One", "url": "https://www.news.example/one", "content": "snippet one"},
				{"title": "Hit Two", "url": "https://blog.example/two", "content": "snippet two"},
			},
		})
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "secret", 5)
	got, err := c.Search(context.Background(), "test query")
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].Source != "news.example" {
		t.Fatalf("www prefix must be stripped from source, got %q", got[0].Source)
	}
	if got[1].Snippet != "snippet two" {
		t.Fatalf("snippet: %q", got[1].Snippet)
	}
}

func TestClientSearchSurfacesProviderErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "secret", 5)
	if _, err := c.Search(context.Background(), "q"); err == nil {
		t.Fatal("expected provider error")
	}
}

func TestClientSearchRequiresAPIKey(t *testing.T) {
	t.Parallel()

	c := NewClient("", "", 5)
	if _, err := c.Search(context.Background(), "q"); err == nil {
		t.Fatal("expected misconfiguration error")
	}
}
