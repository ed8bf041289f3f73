package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/coragent/coor-agent/coorerr"
)

const (
	tavilyAPIURL  = "https://api.tavily.com/search"
	tavilyMaxBody = 5 << 20
)

// TavilySearcher implements Searcher against the Tavily search API. The
// API key travels in the request body per Tavily's contract, so request
// bodies must never be logged.
type TavilySearcher struct {
	apiKey  string
	baseURL string // overridable for tests
	client  *http.Client
}

// NewTavilySearcher builds a TavilySearcher. Request lifetime is governed
// by the caller's context only; the client carries no timeout of its own
// so a shorter caller deadline always wins.
func NewTavilySearcher(apiKey string) (*TavilySearcher, error) {
	if apiKey == "" {
		return nil, coorerr.New(coorerr.ValidationError, "TavilySearcher", "New", "api key cannot be empty", nil)
	}
	return &TavilySearcher{apiKey: apiKey, baseURL: tavilyAPIURL, client: &http.Client{}}, nil
}

type tavilyRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type tavilyResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search implements Searcher.
func (t *TavilySearcher) Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	body, err := json.Marshal(tavilyRequest{APIKey: t.apiKey, Query: query, MaxResults: maxResults})
	if err != nil {
		return nil, coorerr.New(coorerr.Internal, "TavilySearcher", "Search", "failed to encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, coorerr.New(coorerr.Internal, "TavilySearcher", "Search", "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, coorerr.New(coorerr.ToolError, "TavilySearcher", "Search", "search request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, coorerr.New(coorerr.ToolError, "TavilySearcher", "Search",
			fmt.Sprintf("tavily returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))), nil)
	}

	var parsed tavilyResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, tavilyMaxBody)).Decode(&parsed); err != nil {
		return nil, coorerr.New(coorerr.ToolError, "TavilySearcher", "Search", "failed to decode response", err)
	}

	out := make([]SearchResult, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		out = append(out, SearchResult{Title: r.Title, URL: r.URL, Content: r.Content})
	}
	return out, nil
}
