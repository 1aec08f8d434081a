package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"repoprobe/internal/api"
)

const webResultsMax = 3

func (e *Executor) execSearchError(ctx context.Context, input json.RawMessage) api.ToolResult {
	var params struct {
		ErrorMessage string `json:"error_message"`
		Language     string `json:"language"`
	}
	if err := json.Unmarshal(input, &params); err != nil {
		return invalidParams(err)
	}
	if params.ErrorMessage == "" {
		return errResult("An error message is required")
	}

	query := params.ErrorMessage
	if params.Language != "" {
		query = params.Language + " " + query
	}
	query += " programming error solution"

	return e.runWebResearch(ctx, query, params.ErrorMessage)
}

func (e *Executor) execSearchDocs(ctx context.Context, input json.RawMessage) api.ToolResult {
	var params struct {
		Query      string `json:"query"`
		Technology string `json:"technology"`
	}
	if err := json.Unmarshal(input, &params); err != nil {
		return invalidParams(err)
	}
	if params.Query == "" {
		return errResult("A query is required")
	}

	query := params.Query
	if params.Technology != "" {
		query = params.Technology + " " + query
	}
	query += " documentation"

	return e.runWebResearch(ctx, query, params.Query)
}

// runWebResearch searches, fetches and summarizes each hit, offloads
// the full content into working memory, and returns a manifest.
func (e *Executor) runWebResearch(ctx context.Context, query, topic string) api.ToolResult {
	results, err := e.search.Search(ctx, query, webResultsMax)
	if err != nil {
		return describeErr(err)
	}
	if len(results) == 0 {
		return api.ToolResult{Content: fmt.Sprintf("No results found for: %s", topic)}
	}

	processed := e.search.Process(ctx, results, e.summarizer)
	today := time.Now().Format("Mon Jan 02, 2006")

	var manifest strings.Builder
	fmt.Fprintf(&manifest, "Found %d result(s) for %q:\n", len(processed), topic)
	for _, p := range processed {
		doc := fmt.Sprintf("# Search Result: %s\n\nURL: %s\nQuery: %s\nDate: %s\n\n## Summary\n%s\n\n## Full Content\n%s\n",
			p.Title, p.URL, query, today, p.Summary, p.Content)
		e.state.WriteFile(p.Filename, doc)

		brief := p.Summary
		if len(brief) > 100 {
			brief = brief[:100] + "..."
		}
		fmt.Fprintf(&manifest, "- %s: %s\n", p.Filename, brief)
	}
	manifest.WriteString("\nUse read_file to access full details when needed.")

	return api.ToolResult{Content: manifest.String()}
}
