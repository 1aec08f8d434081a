package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"repoprobe/internal/api"
	"repoprobe/internal/errs"
	"repoprobe/internal/github"
	"repoprobe/internal/state"
	"repoprobe/internal/websearch"
)

// DelegateFunc runs a delegated subtask and returns its report. The
// orchestrator supplies this for the coordinator's executor; sub-agent
// executors leave it nil, which makes "task" unavailable.
type DelegateFunc func(ctx context.Context, agentType, description string) api.ToolResult

// Executor dispatches tool calls against a shared state and the
// repository and search backends. It implements api.Executor.
type Executor struct {
	state      *state.State
	github     *github.Client
	search     *websearch.Client
	summarizer websearch.Summarizer
	delegate   DelegateFunc
}

// Config wires an Executor. State is required; backends may be nil when
// the executor only serves tools that do not need them.
type Config struct {
	State      *state.State
	GitHub     *github.Client
	Search     *websearch.Client
	Summarizer websearch.Summarizer
	Delegate   DelegateFunc
}

// NewExecutor creates an executor over the given state and backends.
func NewExecutor(cfg Config) *Executor {
	return &Executor{
		state:      cfg.State,
		github:     cfg.GitHub,
		search:     cfg.Search,
		summarizer: cfg.Summarizer,
		delegate:   cfg.Delegate,
	}
}

// Execute runs a tool by name with the given JSON input.
func (e *Executor) Execute(ctx context.Context, name string, input json.RawMessage) api.ToolResult {
	switch name {
	case NameLs:
		return e.execLs()
	case NameReadFile:
		return e.execReadFile(input)
	case NameWriteFile:
		return e.execWriteFile(input)
	case NameWriteTodos:
		return e.execWriteTodos(input)
	case NameReadTodos:
		return e.execReadTodos()
	case NameMarkTodoDone:
		return e.execMarkTodoDone(input)
	case NameThink:
		return e.execThink(input)
	case NameExtractStackTrace:
		return e.execExtractStackTrace(input)
	case NameParseErrorFromIssue:
		return e.execParseErrorFromIssue(input)
	case NameSearchCodeInRepo:
		return e.execSearchCode(ctx, input)
	case NameReadFileFromRepo:
		return e.execReadRepoFile(ctx, input)
	case NameListRepoStructure:
		return e.execListStructure(ctx, input)
	case NameGetIssueDetails:
		return e.execIssueDetails(ctx, input)
	case NameGetRepositoryInfo:
		return e.execRepoInfo(ctx, input)
	case NameSearchErrorSolution:
		return e.execSearchError(ctx, input)
	case NameSearchDocumentation:
		return e.execSearchDocs(ctx, input)
	case NameTask:
		return e.execTask(ctx, input)
	default:
		return errResult("Unknown tool: %s", name)
	}
}

func (e *Executor) execTask(ctx context.Context, input json.RawMessage) api.ToolResult {
	if e.delegate == nil {
		return errResult("Delegation is not available in this context")
	}
	var params struct {
		AgentType   string `json:"agent_type"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(input, &params); err != nil {
		return invalidParams(err)
	}
	if params.Description == "" {
		return errResult("A task description is required")
	}
	return e.delegate(ctx, params.AgentType, params.Description)
}

// repoOrCurrent resolves an explicit repo argument against the
// repository under analysis.
func (e *Executor) repoOrCurrent(repo string) (string, error) {
	if repo == "" {
		repo = e.state.CurrentRepo
	}
	if repo == "" {
		return "", fmt.Errorf("no repository specified and none is under analysis; pass repo as owner/repo")
	}
	if err := errs.ValidateRepoName(repo); err != nil {
		return "", err
	}
	return repo, nil
}

func errResult(format string, args ...interface{}) api.ToolResult {
	return api.ToolResult{Content: fmt.Sprintf(format, args...), IsError: true}
}

func invalidParams(err error) api.ToolResult {
	return errResult("Invalid parameters: %v", err)
}

// describeErr renders a backend failure for the model, with the error
// taxonomy's suggestion attached.
func describeErr(err error) api.ToolResult {
	return api.ToolResult{Content: errs.Describe(err), IsError: true}
}
