package websearch

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Summarizer condenses fetched page text into key findings. The LLM
// client satisfies this; tests supply a stub.
type Summarizer interface {
	Summarize(ctx context.Context, content string) (string, error)
}

// ProcessedResult is one search hit after fetching and summarization,
// ready to be written into the virtual file system.
type ProcessedResult struct {
	Title    string
	URL      string
	Filename string
	Summary  string
	Content  string
}

// summaryInputLimit caps how much page text is handed to the summarizer.
const summaryInputLimit = 4000

// Process fetches and summarizes each search result. A failed page
// fetch substitutes the engine's own snippet instead of aborting the
// batch; a failed summarization falls back to truncated page text.
// Filenames carry a unique suffix so concurrent research rarely collides.
func (c *Client) Process(ctx context.Context, results []Result, summarizer Summarizer) []ProcessedResult {
	processed := make([]ProcessedResult, 0, len(results))

	for _, r := range results {
		content, err := c.FetchPage(ctx, r.URL)
		if err != nil || content == "" {
			content = r.Content
		}

		summary := ""
		if summarizer != nil {
			input := content
			if len(input) > summaryInputLimit {
				input = input[:summaryInputLimit]
			}
			summary, err = summarizer.Summarize(ctx, input)
		}
		if summary == "" {
			summary = truncate(content, 500)
		}

		processed = append(processed, ProcessedResult{
			Title:    r.Title,
			URL:      r.URL,
			Filename: resultFilename(r.Title),
			Summary:  summary,
			Content:  content,
		})
	}
	return processed
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// resultFilename derives a slugged, unique-suffixed markdown filename
// from a result title.
func resultFilename(title string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(title), "_")
	slug = strings.Trim(slug, "_")
	if len(slug) > 40 {
		slug = slug[:40]
	}
	if slug == "" {
		slug = "search_result"
	}
	uid := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("%s_%s.md", slug, uid)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
