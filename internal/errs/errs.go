// Package errs defines the error taxonomy shared by the tool layer and
// the CLI boundary. Tool handlers convert these to descriptive strings;
// only the CLI renders them directly.
package errs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// NotFoundError indicates a repository, file, or issue does not exist.
type NotFoundError struct {
	// Resource names what was looked up (e.g. "repository owner/repo").
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// RateLimitError indicates an external API quota is exhausted.
type RateLimitError struct {
	// API names the service (e.g. "GitHub", "Tavily").
	API string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s API rate limit exceeded", e.API)
}

// AuthError indicates a bad or missing credential.
type AuthError struct {
	// Credential names the environment variable or config key at fault.
	Credential string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed (check %s)", e.Credential)
}

// NetworkError indicates a timeout or connection failure.
type NetworkError struct {
	// Op describes the attempted operation.
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network failure during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ValidationError indicates malformed user input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Describe renders any error as a user-facing message stating what
// failed, why, and one actionable next step.
func Describe(err error) string {
	var nf *NotFoundError
	var rl *RateLimitError
	var auth *AuthError
	var net *NetworkError
	var val *ValidationError

	switch {
	case errors.As(err, &nf):
		return fmt.Sprintf("%s.\nThe target may be private, renamed, or misspelled.\nSuggestion: check the name for typos and confirm you have access.", capitalize(nf.Error()))
	case errors.As(err, &rl):
		return fmt.Sprintf("%s.\nThe request quota for this credential is used up.\nSuggestion: wait a few minutes and retry, or use a token with higher limits.", capitalize(rl.Error()))
	case errors.As(err, &auth):
		return fmt.Sprintf("%s.\nThe credential is missing, expired, or lacks permissions.\nSuggestion: regenerate the credential and update your environment.", capitalize(auth.Error()))
	case errors.As(err, &net):
		return fmt.Sprintf("%s.\nThe remote service did not respond in time.\nSuggestion: check your connection and retry.", capitalize(net.Error()))
	case errors.As(err, &val):
		return fmt.Sprintf("Invalid input: %s.\nSuggestion: fix the format and retry.", val.Msg)
	default:
		return fmt.Sprintf("Unexpected error: %v.\nSuggestion: retry; report this if it persists.", err)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ValidateRepoName checks the "owner/repo" format. It returns a
// ValidationError naming the expected format on failure.
func ValidateRepoName(name string) error {
	if name == "" {
		return &ValidationError{Msg: "repository name is empty; expected format: owner/repo"}
	}
	parts := strings.Split(name, "/")
	if len(parts) != 2 {
		return &ValidationError{Msg: fmt.Sprintf("invalid repository name %q; expected format: owner/repo with exactly one '/'", name)}
	}
	if parts[0] == "" || parts[1] == "" {
		return &ValidationError{Msg: fmt.Sprintf("invalid repository name %q; both owner and repo must be non-empty", name)}
	}
	return nil
}

// IssueRef identifies a GitHub issue or pull request.
type IssueRef struct {
	Owner  string
	Repo   string
	Number int
	// Pull is true if the URL pointed at a pull request.
	Pull bool
}

// RepoName returns the "owner/repo" form.
func (r IssueRef) RepoName() string {
	return r.Owner + "/" + r.Repo
}

// ParseIssueURL parses a canonical GitHub issue or pull request URL
// (https://github.com/owner/repo/issues/123). It returns a
// ValidationError with a descriptive message on any malformed input.
func ParseIssueURL(url string) (IssueRef, error) {
	if url == "" {
		return IssueRef{}, &ValidationError{Msg: "issue URL is empty; expected https://github.com/owner/repo/issues/123"}
	}
	if !strings.Contains(url, "github.com") {
		return IssueRef{}, &ValidationError{Msg: fmt.Sprintf("not a GitHub URL: %q; expected https://github.com/owner/repo/issues/123", url)}
	}

	parts := strings.Split(strings.Trim(url, "/"), "/")
	kindIdx := -1
	pull := false
	for i, p := range parts {
		if p == "issues" {
			kindIdx = i
			break
		}
		if p == "pull" {
			kindIdx = i
			pull = true
			break
		}
	}
	if kindIdx < 2 || kindIdx+1 >= len(parts) {
		return IssueRef{}, &ValidationError{Msg: fmt.Sprintf("URL %q is not an issue or pull request; expected https://github.com/owner/repo/issues/123", url)}
	}

	number, err := strconv.Atoi(parts[kindIdx+1])
	if err != nil || number <= 0 {
		return IssueRef{}, &ValidationError{Msg: fmt.Sprintf("URL %q has a non-numeric issue number", url)}
	}

	return IssueRef{
		Owner:  parts[kindIdx-2],
		Repo:   parts[kindIdx-1],
		Number: number,
		Pull:   pull,
	}, nil
}
