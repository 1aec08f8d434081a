package orchestrator

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"repoprobe/internal/api"
	"repoprobe/internal/errs"
	"repoprobe/internal/github"
	"repoprobe/internal/prompts"
	"repoprobe/internal/state"
	"repoprobe/internal/subagent"
	"repoprobe/internal/tools"
	"repoprobe/internal/websearch"
)

// Coordinator owns the shared state for an analysis session and drives
// the top-level reasoning loop. Delegated subtasks run synchronously
// through the sub-agent runner; their file deltas are merged back here.
type Coordinator struct {
	state     *state.State
	completer api.Completer
	executor  *tools.Executor
	registry  *subagent.Registry
	runner    *subagent.Runner
	logger    *DebugLogger
	onEvent   func(api.Event)
	maxSteps  int
}

// Config wires a Coordinator.
type Config struct {
	Completer  api.Completer
	GitHub     *github.Client
	Search     *websearch.Client
	Summarizer websearch.Summarizer
	// Registry defaults to the built-in sub-agent types when nil.
	Registry *subagent.Registry
	// Logger defaults to a no-op logger when nil.
	Logger *DebugLogger
	// OnEvent receives coordinator loop events; nil disables them.
	OnEvent func(api.Event)
	// MaxSteps bounds the coordinator loop; 0 uses the loop default.
	MaxSteps int
}

// New creates a Coordinator with a fresh shared state.
func New(cfg Config) *Coordinator {
	registry := cfg.Registry
	if registry == nil {
		registry = subagent.NewRegistry()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = NopLogger()
	}

	c := &Coordinator{
		state:     state.New(),
		completer: cfg.Completer,
		registry:  registry,
		logger:    logger,
		onEvent:   cfg.OnEvent,
		maxSteps:  cfg.MaxSteps,
	}
	c.runner = subagent.NewRunner(subagent.RunnerConfig{
		Completer:  cfg.Completer,
		GitHub:     cfg.GitHub,
		Search:     cfg.Search,
		Summarizer: cfg.Summarizer,
	})
	c.executor = tools.NewExecutor(tools.Config{
		State:      c.state,
		GitHub:     cfg.GitHub,
		Search:     cfg.Search,
		Summarizer: cfg.Summarizer,
		Delegate:   c.delegate,
	})
	return c
}

// State exposes the shared state for inspection after a run.
func (c *Coordinator) State() *state.State {
	return c.state
}

// delegate backs the task tool. Validation failures and sub-agent
// errors come back as error results; the parent file table is only
// touched by a successful merge.
func (c *Coordinator) delegate(ctx context.Context, agentType, description string) api.ToolResult {
	def, ok := c.registry.Get(agentType)
	if !ok {
		return api.ToolResult{
			Content: fmt.Sprintf("Unknown sub-agent type %q. Valid types: %s", agentType, c.registry.NamesList()),
			IsError: true,
		}
	}

	c.logger.Log("delegating to %s: %s", agentType, description)
	result, err := c.runner.Run(ctx, def, description, c.state.SnapshotFiles(), c.state.CurrentRepo, c.state.IssueURL)
	if err != nil {
		c.logger.Log("sub-agent %s failed: %v", agentType, err)
		return api.ToolResult{
			Content: fmt.Sprintf("Sub-agent %q could not run: %v", agentType, err),
			IsError: true,
		}
	}

	c.state.MergeFiles(result.Files)
	c.logger.Log("sub-agent %s finished: %d steps, %d tool calls, exhausted=%v",
		agentType, result.Steps, result.ToolCalls, result.Exhausted)

	report := result.Report
	if report == "" {
		report = fmt.Sprintf("Sub-agent %q returned no response.", agentType)
	}
	if result.Exhausted {
		report += "\n\n(The sub-agent stopped at its step budget; the report may be partial.)"
	}
	return api.ToolResult{Content: report}
}

// Turn runs one coordinator turn over the persistent state: the input
// is appended to the transcript and the loop runs until the model
// answers without tool calls or the step budget runs out.
func (c *Coordinator) Turn(ctx context.Context, input string) (string, error) {
	c.state.AppendMessage(anthropic.NewUserMessage(anthropic.NewTextBlock(input)))

	loop := api.NewAgentLoop(api.LoopConfig{
		Completer: c.completer,
		Executor:  c.executor,
		Tools:     tools.Definitions(),
		System:    prompts.Coordinator(),
		MaxSteps:  c.maxSteps,
		OnEvent:   c.onEvent,
	})

	result, err := loop.Run(ctx, c.state.Messages)
	if err != nil {
		return "", err
	}

	c.state.Messages = result.Messages
	c.logger.Log("turn finished: %d steps, %d tool calls, exhausted=%v",
		result.Steps, result.ToolCalls, result.Exhausted)

	if result.Output == "" && result.Exhausted {
		return "The investigation hit its step budget before producing a final report.", nil
	}
	return result.Output, nil
}

// AnalyzeIssue investigates a GitHub issue end to end.
func (c *Coordinator) AnalyzeIssue(ctx context.Context, issueURL string) (string, error) {
	if _, err := errs.ParseIssueURL(issueURL); err != nil {
		return "", err
	}

	c.logger.Log("analyzing issue %s", issueURL)
	input := fmt.Sprintf(
		"Analyze this GitHub issue and produce an investigation report: %s\n\nStart by planning with write_todos and fetching the issue with get_issue_details.",
		issueURL)
	return c.Turn(ctx, input)
}

// AskRepository answers a free-form question about a repository.
func (c *Coordinator) AskRepository(ctx context.Context, repo, question string) (string, error) {
	if err := errs.ValidateRepoName(repo); err != nil {
		return "", err
	}
	c.state.CurrentRepo = repo

	c.logger.Log("question about %s: %s", repo, question)
	input := fmt.Sprintf("Answer this question about the repository %s: %s", repo, question)
	return c.Turn(ctx, input)
}
