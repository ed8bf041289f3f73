package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/coragent/coor-agent/coorerr"
)

// SearchResult is one hit from an external search backend.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Searcher is the narrow interface the search tool consumes, keeping the
// orchestration core independent of any one search provider. A Tavily
// backend ships in this package; other providers plug in the same way.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error)
}

var searchSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"query": {"type": "string", "description": "search query"},
		"max_results": {"type": "integer", "minimum": 1, "maximum": 20}
	},
	"required": ["query"],
	"additionalProperties": false
}`)

// NewSearchTool adapts a Searcher into a Tool named "search", used by the
// default researcher agent and by the planner's search-before-planning
// preflight.
func NewSearchTool(backend Searcher) Tool {
	return NewFunc(
		Info{Name: "search", Description: "Search the web for relevant results.", InputSchema: searchSchema},
		func(ctx context.Context, args map[string]any) (Result, error) {
			query, _ := args["query"].(string)
			if query == "" {
				return Result{}, coorerr.New(coorerr.ToolError, "SearchTool", "Execute", "query is required", nil)
			}
			maxResults := 5
			if v, ok := args["max_results"].(float64); ok && v > 0 {
				maxResults = int(v)
			}

			results, err := backend.Search(ctx, query, maxResults)
			if err != nil {
				return Result{Success: false, ToolName: "search", Error: err.Error()}, nil
			}

			content := ""
			for i, r := range results {
				content += fmt.Sprintf("%d. %s (%s)\n%s\n\n", i+1, r.Title, r.URL, r.Content)
			}
			return Result{Success: true, ToolName: "search", Content: content}, nil
		},
	)
}
