package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"repoprobe/internal/api"
	"repoprobe/internal/errs"
)

const (
	searchResultsMax   = 10
	snippetLimit       = 200
	repoFileLinesLimit = 400
	issueCommentsMax   = 10
)

func (e *Executor) execSearchCode(ctx context.Context, input json.RawMessage) api.ToolResult {
	var params struct {
		Query string `json:"query"`
		Repo  string `json:"repo"`
	}
	if err := json.Unmarshal(input, &params); err != nil {
		return invalidParams(err)
	}

	repo, err := e.repoOrCurrent(params.Repo)
	if err != nil {
		return errResult("%v", err)
	}

	total, matches, err := e.github.SearchCode(ctx, repo, params.Query, searchResultsMax)
	if err != nil {
		return describeErr(err)
	}
	if total == 0 {
		return api.ToolResult{Content: fmt.Sprintf("No results found for query: %s", params.Query)}
	}

	var out strings.Builder
	fmt.Fprintf(&out, "Found %d result(s) for %q in %s:\n", total, params.Query, repo)
	for i, m := range matches {
		fmt.Fprintf(&out, "\n%d. %s\n   URL: %s\n", i+1, m.Path, m.HTMLURL)
		if m.Fragment != "" {
			snippet := m.Fragment
			if len(snippet) > snippetLimit {
				snippet = snippet[:snippetLimit] + "..."
			}
			fmt.Fprintf(&out, "   Snippet: %s\n", snippet)
		}
	}
	return api.ToolResult{Content: out.String()}
}

func (e *Executor) execReadRepoFile(ctx context.Context, input json.RawMessage) api.ToolResult {
	var params struct {
		Path string `json:"path"`
		Repo string `json:"repo"`
		Ref  string `json:"ref"`
	}
	if err := json.Unmarshal(input, &params); err != nil {
		return invalidParams(err)
	}
	if params.Path == "" {
		return errResult("A file path is required")
	}

	repo, err := e.repoOrCurrent(params.Repo)
	if err != nil {
		return errResult("%v", err)
	}

	file, err := e.github.GetFile(ctx, repo, params.Path, params.Ref)
	if err != nil {
		return describeErr(err)
	}

	content := file.Content
	lines := strings.Split(content, "\n")
	truncated := false
	if len(lines) > repoFileLinesLimit {
		content = strings.Join(lines[:repoFileLinesLimit], "\n")
		truncated = true
	}

	var out strings.Builder
	fmt.Fprintf(&out, "# File: %s\nRepository: %s\nRef: %s\nSize: %d bytes\n\n", file.Path, repo, file.Ref, file.Size)
	out.WriteString(content)
	if truncated {
		fmt.Fprintf(&out, "\n... (truncated at %d lines of %d)", repoFileLinesLimit, len(lines))
	}
	return api.ToolResult{Content: out.String()}
}

func (e *Executor) execListStructure(ctx context.Context, input json.RawMessage) api.ToolResult {
	var params struct {
		Repo string `json:"repo"`
		Path string `json:"path"`
		Ref  string `json:"ref"`
	}
	if err := json.Unmarshal(input, &params); err != nil {
		return invalidParams(err)
	}

	repo, err := e.repoOrCurrent(params.Repo)
	if err != nil {
		return errResult("%v", err)
	}

	entries, err := e.github.ListDir(ctx, repo, params.Path, params.Ref)
	if err != nil {
		return describeErr(err)
	}

	location := params.Path
	if location == "" {
		location = "/ (root)"
	}

	var out strings.Builder
	fmt.Fprintf(&out, "Repository structure: %s\nPath: %s\n\n", repo, location)
	if len(entries) == 0 {
		out.WriteString("(empty)\n")
		return api.ToolResult{Content: out.String()}
	}
	// Directories first, as a repo browser would show them.
	for _, entry := range entries {
		if entry.IsDir {
			fmt.Fprintf(&out, "d %s/\n", entry.Name)
		}
	}
	for _, entry := range entries {
		if !entry.IsDir {
			fmt.Fprintf(&out, "- %s (%d bytes)\n", entry.Name, entry.Size)
		}
	}
	return api.ToolResult{Content: out.String()}
}

func (e *Executor) execIssueDetails(ctx context.Context, input json.RawMessage) api.ToolResult {
	var params struct {
		IssueURL string `json:"issue_url"`
	}
	if err := json.Unmarshal(input, &params); err != nil {
		return invalidParams(err)
	}

	ref, err := errs.ParseIssueURL(params.IssueURL)
	if err != nil {
		return errResult("Invalid GitHub issue URL: %v", err)
	}
	repo := ref.RepoName()

	issue, err := e.github.GetIssue(ctx, repo, ref.Number)
	if err != nil {
		return describeErr(err)
	}
	comments, err := e.github.ListComments(ctx, repo, ref.Number, issueCommentsMax)
	if err != nil {
		// The issue itself is in hand; degrade to no comments.
		comments = nil
	}

	var doc strings.Builder
	fmt.Fprintf(&doc, "# GitHub Issue #%d: %s\n\n", issue.Number, issue.Title)
	fmt.Fprintf(&doc, "Repository: %s\nURL: %s\nState: %s\nCreated: %s\nAuthor: %s\n",
		repo, params.IssueURL, issue.State, issue.CreatedAt.Format("2006-01-02"), issue.User.Login)
	labels := issue.LabelNames()
	fmt.Fprintf(&doc, "\n## Labels\n%s\n", labelsOrNone(labels))
	body := issue.Body
	if body == "" {
		body = "(No description provided)"
	}
	fmt.Fprintf(&doc, "\n## Description\n%s\n", body)
	if len(comments) > 0 {
		fmt.Fprintf(&doc, "\n## Comments (%d)\n", len(comments))
		for i, c := range comments {
			fmt.Fprintf(&doc, "\n### Comment %d by %s\n%s\n", i+1, c.User.Login, c.Body)
		}
	}

	filename := fmt.Sprintf("issue_%d_%s.md", issue.Number, shortUID())
	e.state.WriteFile(filename, doc.String())
	e.state.CurrentRepo = repo
	e.state.IssueURL = params.IssueURL

	summary := fmt.Sprintf(
		"Issue #%d: %s\nState: %s\nRepository: %s\nLabels: %s\nComments: %d\n\nFull details saved to %s; use read_file to view them.",
		issue.Number, issue.Title, issue.State, repo, labelsOrNone(labels), len(comments), filename)
	return api.ToolResult{Content: summary}
}

func (e *Executor) execRepoInfo(ctx context.Context, input json.RawMessage) api.ToolResult {
	var params struct {
		Repo string `json:"repo"`
	}
	if err := json.Unmarshal(input, &params); err != nil {
		return invalidParams(err)
	}

	repo, err := e.repoOrCurrent(params.Repo)
	if err != nil {
		return errResult("%v", err)
	}

	info, err := e.github.GetRepo(ctx, repo)
	if err != nil {
		return describeErr(err)
	}
	if e.state.CurrentRepo == "" {
		e.state.CurrentRepo = info.FullName
	}

	desc := info.Description
	if desc == "" {
		desc = "No description provided"
	}
	license := "Not specified"
	if info.License != nil {
		license = info.License.Name
	}
	language := info.Language
	if language == "" {
		language = "Not specified"
	}

	var out strings.Builder
	fmt.Fprintf(&out, "# Repository: %s\n\n", info.FullName)
	fmt.Fprintf(&out, "Description: %s\n", desc)
	fmt.Fprintf(&out, "Stars: %d\nForks: %d\nOpen issues: %d\n", info.Stars, info.Forks, info.OpenIssues)
	fmt.Fprintf(&out, "Default branch: %s\nLanguage: %s\nLicense: %s\n", info.DefaultBranch, language, license)
	if len(info.Topics) > 0 {
		fmt.Fprintf(&out, "Topics: %s\n", strings.Join(info.Topics, ", "))
	}
	fmt.Fprintf(&out, "URL: %s\n", info.HTMLURL)
	return api.ToolResult{Content: out.String()}
}

func labelsOrNone(labels []string) string {
	if len(labels) == 0 {
		return "None"
	}
	return strings.Join(labels, ", ")
}

func shortUID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}
