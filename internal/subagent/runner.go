package subagent

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"repoprobe/internal/api"
	"repoprobe/internal/github"
	"repoprobe/internal/state"
	"repoprobe/internal/tools"
	"repoprobe/internal/websearch"
	"repoprobe/pkg/models"
)

// maxSteps bounds a single sub-agent run. Exhaustion is not an error;
// whatever partial report exists goes back to the coordinator.
const maxSteps = 10

// Runner executes delegated subtasks. Each run gets a fresh state
// seeded from a snapshot of the parent's files; the parent transcript
// is never shared.
type Runner struct {
	completer  api.Completer
	github     *github.Client
	search     *websearch.Client
	summarizer websearch.Summarizer
	onEvent    func(api.Event)
}

// RunnerConfig wires a Runner.
type RunnerConfig struct {
	Completer  api.Completer
	GitHub     *github.Client
	Search     *websearch.Client
	Summarizer websearch.Summarizer
	// OnEvent receives the sub-agent's loop events; nil disables them.
	OnEvent func(api.Event)
}

// NewRunner creates a runner.
func NewRunner(cfg RunnerConfig) *Runner {
	return &Runner{
		completer:  cfg.Completer,
		github:     cfg.GitHub,
		search:     cfg.Search,
		summarizer: cfg.Summarizer,
		onEvent:    cfg.OnEvent,
	}
}

// Result is what a sub-agent run hands back to the delegation tool.
type Result struct {
	// Report is the sub-agent's final text, possibly partial when the
	// step budget ran out.
	Report string
	// Files is the sub-agent's complete file table, snapshot plus its
	// own writes, ready to merge into the parent.
	Files map[string]string
	// Steps and ToolCalls describe the run for logging.
	Steps     int
	ToolCalls int
	Exhausted bool
}

// Run executes one delegated task. The files snapshot and repository
// context come from the parent; everything else starts empty.
func (r *Runner) Run(ctx context.Context, def models.SubAgentDef, task string, files map[string]string, currentRepo, issueURL string) (*Result, error) {
	defs, err := tools.Subset(def.Tools)
	if err != nil {
		return nil, fmt.Errorf("sub-agent %q: %w", def.Name, err)
	}

	st := state.New()
	st.MergeFiles(files)
	st.CurrentRepo = currentRepo
	st.IssueURL = issueURL

	executor := tools.NewExecutor(tools.Config{
		State:      st,
		GitHub:     r.github,
		Search:     r.search,
		Summarizer: r.summarizer,
	})

	loop := api.NewAgentLoop(api.LoopConfig{
		Completer: r.completer,
		Executor:  executor,
		Tools:     defs,
		System:    def.Prompt,
		MaxSteps:  maxSteps,
		OnEvent:   r.onEvent,
	})

	messages := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(task)),
	}
	loopResult, err := loop.Run(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("sub-agent %q: %w", def.Name, err)
	}

	return &Result{
		Report:    loopResult.Output,
		Files:     st.SnapshotFiles(),
		Steps:     loopResult.Steps,
		ToolCalls: loopResult.ToolCalls,
		Exhausted: loopResult.Exhausted,
	}, nil
}
