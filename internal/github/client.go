// Package github is a minimal client for the GitHub REST API covering
// the operations the research tools need: code search, file contents,
// tree listing, repository metadata, and issues.
package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"repoprobe/internal/errs"
)

const defaultBaseURL = "https://api.github.com"

// Client talks to the GitHub REST API with a personal access token.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates a client using the given token. An empty token is
// allowed; unauthenticated requests hit much lower rate limits.
func NewClient(token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		token:      token,
	}
}

// SetBaseURL overrides the API endpoint (for tests).
func (c *Client) SetBaseURL(base string) {
	c.baseURL = strings.TrimRight(base, "/")
}

func (c *Client) get(ctx context.Context, path string, query url.Values, accept string, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if accept == "" {
		accept = "application/vnd.github+json"
	}
	req.Header.Set("Accept", accept)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &errs.NetworkError{Op: "GitHub " + path, Err: err}
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, path); err != nil {
		return err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return &errs.NetworkError{Op: "GitHub " + path, Err: err}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode GitHub response for %s: %w", path, err)
	}
	return nil
}

// checkStatus maps GitHub's HTTP status codes onto the error taxonomy.
func (c *Client) checkStatus(resp *http.Response, path string) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return &errs.AuthError{Credential: "GITHUB_TOKEN"}
	case resp.StatusCode == http.StatusForbidden, resp.StatusCode == http.StatusTooManyRequests:
		// 403 with a zeroed remaining header is rate limiting; a plain
		// 403 on a private resource is an auth problem.
		if resp.Header.Get("X-RateLimit-Remaining") == "0" || resp.StatusCode == http.StatusTooManyRequests {
			return &errs.RateLimitError{API: "GitHub"}
		}
		return &errs.AuthError{Credential: "GITHUB_TOKEN"}
	case resp.StatusCode == http.StatusNotFound:
		return &errs.NotFoundError{Resource: "GitHub resource " + path}
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("GitHub API returned %d for %s: %s", resp.StatusCode, path, strings.TrimSpace(string(body)))
	}
}

// RepoInfo is repository metadata.
type RepoInfo struct {
	FullName      string `json:"full_name"`
	Description   string `json:"description"`
	Stars         int    `json:"stargazers_count"`
	Forks         int    `json:"forks_count"`
	OpenIssues    int    `json:"open_issues_count"`
	DefaultBranch string `json:"default_branch"`
	Language      string `json:"language"`
	HTMLURL       string `json:"html_url"`
	Topics        []string `json:"topics"`
	License       *struct {
		Name string `json:"name"`
	} `json:"license"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetRepo fetches repository metadata.
func (c *Client) GetRepo(ctx context.Context, repo string) (*RepoInfo, error) {
	if err := errs.ValidateRepoName(repo); err != nil {
		return nil, err
	}
	var info RepoInfo
	if err := c.get(ctx, "/repos/"+repo, nil, "", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// CodeMatch is a single code search hit.
type CodeMatch struct {
	Path     string
	RepoName string
	HTMLURL  string
	Fragment string
}

type codeSearchResponse struct {
	TotalCount int `json:"total_count"`
	Items      []struct {
		Path       string `json:"path"`
		HTMLURL    string `json:"html_url"`
		Repository struct {
			FullName string `json:"full_name"`
		} `json:"repository"`
		TextMatches []struct {
			Fragment string `json:"fragment"`
		} `json:"text_matches"`
	} `json:"items"`
}

// SearchCode runs a code search scoped to repo. The text-match media
// type is requested so results carry a snippet fragment.
func (c *Client) SearchCode(ctx context.Context, repo, query string, maxResults int) (int, []CodeMatch, error) {
	if err := errs.ValidateRepoName(repo); err != nil {
		return 0, nil, err
	}
	if maxResults <= 0 {
		maxResults = 10
	}

	q := url.Values{}
	q.Set("q", query+" repo:"+repo)
	q.Set("per_page", fmt.Sprint(maxResults))

	var resp codeSearchResponse
	if err := c.get(ctx, "/search/code", q, "application/vnd.github.text-match+json", &resp); err != nil {
		return 0, nil, err
	}

	matches := make([]CodeMatch, 0, len(resp.Items))
	for _, item := range resp.Items {
		m := CodeMatch{
			Path:     item.Path,
			RepoName: item.Repository.FullName,
			HTMLURL:  item.HTMLURL,
		}
		if len(item.TextMatches) > 0 {
			m.Fragment = item.TextMatches[0].Fragment
		}
		matches = append(matches, m)
	}
	return resp.TotalCount, matches, nil
}

// FileContent is a file fetched from a repository.
type FileContent struct {
	Path    string
	Ref     string
	Size    int
	Content string
}

type contentsEntry struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Path     string `json:"path"`
	Size     int    `json:"size"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// GetFile reads a single file at ref. When the requested ref yields a
// 404 the common default branches are tried before giving up.
func (c *Client) GetFile(ctx context.Context, repo, path, ref string) (*FileContent, error) {
	if err := errs.ValidateRepoName(repo); err != nil {
		return nil, err
	}
	if ref == "" {
		ref = "main"
	}

	refs := []string{ref}
	for _, alt := range []string{"main", "master"} {
		if alt != ref {
			refs = append(refs, alt)
		}
	}

	var lastErr error
	for _, r := range refs {
		entry, err := c.getContents(ctx, repo, path, r)
		if err != nil {
			var nf *errs.NotFoundError
			if errors.As(err, &nf) {
				lastErr = err
				continue
			}
			return nil, err
		}
		if entry.Type != "file" {
			return nil, &errs.ValidationError{Msg: fmt.Sprintf("%s is a %s, not a file", path, entry.Type)}
		}
		decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(entry.Content, "\n", ""))
		if err != nil {
			return nil, fmt.Errorf("decode content of %s: %w", path, err)
		}
		return &FileContent{Path: entry.Path, Ref: r, Size: entry.Size, Content: string(decoded)}, nil
	}
	return nil, lastErr
}

func (c *Client) getContents(ctx context.Context, repo, path, ref string) (*contentsEntry, error) {
	q := url.Values{}
	q.Set("ref", ref)
	var entry contentsEntry
	if err := c.get(ctx, "/repos/"+repo+"/contents/"+strings.TrimPrefix(path, "/"), q, "", &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// TreeEntry is one node in a repository listing.
type TreeEntry struct {
	Name  string
	Path  string
	IsDir bool
	Size  int
}

// ListDir lists the entries directly under path (empty for root).
func (c *Client) ListDir(ctx context.Context, repo, path, ref string) ([]TreeEntry, error) {
	if err := errs.ValidateRepoName(repo); err != nil {
		return nil, err
	}
	q := url.Values{}
	if ref != "" {
		q.Set("ref", ref)
	}

	var raw []contentsEntry
	if err := c.get(ctx, "/repos/"+repo+"/contents/"+strings.TrimPrefix(path, "/"), q, "", &raw); err != nil {
		return nil, err
	}

	entries := make([]TreeEntry, 0, len(raw))
	for _, e := range raw {
		entries = append(entries, TreeEntry{
			Name:  e.Name,
			Path:  e.Path,
			IsDir: e.Type == "dir",
			Size:  e.Size,
		})
	}
	return entries, nil
}

// Issue is a GitHub issue or pull request.
type Issue struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	State     string    `json:"state"`
	Body      string    `json:"body"`
	HTMLURL   string    `json:"html_url"`
	CreatedAt time.Time `json:"created_at"`
	User      struct {
		Login string `json:"login"`
	} `json:"user"`
	Labels []struct {
		Name string `json:"name"`
	} `json:"labels"`
	Comments int `json:"comments"`
}

// LabelNames returns the issue's label names.
func (i *Issue) LabelNames() []string {
	names := make([]string, 0, len(i.Labels))
	for _, l := range i.Labels {
		names = append(names, l.Name)
	}
	return names
}

// GetIssue fetches one issue by number.
func (c *Client) GetIssue(ctx context.Context, repo string, number int) (*Issue, error) {
	if err := errs.ValidateRepoName(repo); err != nil {
		return nil, err
	}
	var issue Issue
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/issues/%d", repo, number), nil, "", &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// Comment is a single issue comment.
type Comment struct {
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	User      struct {
		Login string `json:"login"`
	} `json:"user"`
}

// ListComments fetches up to max comments on an issue.
func (c *Client) ListComments(ctx context.Context, repo string, number, max int) ([]Comment, error) {
	if err := errs.ValidateRepoName(repo); err != nil {
		return nil, err
	}
	if max <= 0 {
		max = 10
	}
	q := url.Values{}
	q.Set("per_page", fmt.Sprint(max))

	var comments []Comment
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/issues/%d/comments", repo, number), q, "", &comments); err != nil {
		return nil, err
	}
	return comments, nil
}
