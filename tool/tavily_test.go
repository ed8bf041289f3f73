package tool

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTavilySearcher_RequiresAPIKey(t *testing.T) {
	_, err := NewTavilySearcher("")
	require.Error(t, err)
}

func TestTavilySearcher_ParsesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req tavilyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "go concurrency", req.Query)
		assert.Equal(t, "test-key", req.APIKey)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]string{
				{"title": "Go blog", "url": "https://go.dev/blog", "content": "share memory by communicating"},
			},
		})
	}))
	defer srv.Close()

	s, err := NewTavilySearcher("test-key")
	require.NoError(t, err)
	s.baseURL = srv.URL

	results, err := s.Search(context.Background(), "go concurrency", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Go blog", results[0].Title)
	assert.Equal(t, "share memory by communicating", results[0].Content)
}

func TestTavilySearcher_SurfacesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	s, err := NewTavilySearcher("wrong")
	require.NoError(t, err)
	s.baseURL = srv.URL

	_, err = s.Search(context.Background(), "anything", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestSearchTool_UsesBackend(t *testing.T) {
	backend := searcherFunc(func(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
		return []SearchResult{{Title: "hit", URL: "https://example.com", Content: query}}, nil
	})

	result, err := NewSearchTool(backend).Execute(context.Background(), map[string]any{"query": "weather in lisbon"})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Contains(t, result.Content, "weather in lisbon")
}

type searcherFunc func(ctx context.Context, query string, maxResults int) ([]SearchResult, error)

func (f searcherFunc) Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	return f(ctx, query, maxResults)
}
