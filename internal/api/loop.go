package api

import (
	"context"
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
)

// ToolResult is the outcome of one tool execution. Failures are
// descriptive strings with IsError set, never panics or raised errors;
// the reasoning loop can only act on text.
type ToolResult struct {
	Content string
	IsError bool
}

// Executor runs a named tool with JSON input. Unknown names must come
// back as an error-flagged ToolResult.
type Executor interface {
	Execute(ctx context.Context, name string, input json.RawMessage) ToolResult
}

// Event is a progress notification emitted during a loop run.
type Event struct {
	Type    string // "text", "tool_use", "tool_result", "done"
	Tool    string
	Content string
	Input   json.RawMessage
}

// AgentLoop drives one reasoning loop: completion, tool execution,
// repeat until the model stops calling tools or the step budget runs
// out. Both the coordinator and sub-agents are instances of this loop
// with different tool sets and executors.
type AgentLoop struct {
	completer Completer
	executor  Executor
	tools     []anthropic.ToolUnionParam
	system    string
	maxSteps  int
	onEvent   func(Event)
}

// LoopConfig configures an AgentLoop.
type LoopConfig struct {
	Completer Completer
	Executor  Executor
	Tools     []anthropic.ToolUnionParam
	System    string
	// MaxSteps bounds completion calls; 0 means the default of 50.
	MaxSteps int
	// OnEvent receives progress events; nil disables them.
	OnEvent func(Event)
}

// LoopResult is the outcome of a loop run.
type LoopResult struct {
	// Output is the final (or, when the budget ran out, partial)
	// assistant text.
	Output string
	// Messages is the updated transcript including assistant turns and
	// tool results.
	Messages []anthropic.MessageParam
	// Steps is the number of completion calls made.
	Steps int
	// ToolCalls is the number of tools executed.
	ToolCalls int
	// Exhausted is true when the step budget ran out before the model
	// finished; Output then holds whatever partial text exists.
	Exhausted bool
}

// NewAgentLoop creates a loop.
func NewAgentLoop(cfg LoopConfig) *AgentLoop {
	maxSteps := cfg.MaxSteps
	if maxSteps <= 0 {
		maxSteps = 50
	}
	return &AgentLoop{
		completer: cfg.Completer,
		executor:  cfg.Executor,
		tools:     cfg.Tools,
		system:    cfg.System,
		maxSteps:  maxSteps,
		onEvent:   cfg.OnEvent,
	}
}

func (l *AgentLoop) emit(e Event) {
	if l.onEvent != nil {
		l.onEvent(e)
	}
}

// Run executes the loop over the given transcript. The transcript must
// end with a user turn. Tool calls requested together in one step are
// executed sequentially in order; the shared file table's overwrite
// policy makes that safe.
func (l *AgentLoop) Run(ctx context.Context, messages []anthropic.MessageParam) (*LoopResult, error) {
	result := &LoopResult{Messages: messages}
	var lastText string

	for result.Steps < l.maxSteps {
		result.Steps++

		resp, err := l.completer.Complete(ctx, l.system, result.Messages, l.tools, 0)
		if err != nil {
			return result, err
		}

		var assistantBlocks []anthropic.ContentBlockParamUnion
		var toolResultBlocks []anthropic.ContentBlockParamUnion
		var stepText string

		for _, block := range resp.Content {
			switch block.Type {
			case "text":
				stepText += block.Text
				l.emit(Event{Type: "text", Content: block.Text})
				assistantBlocks = append(assistantBlocks, anthropic.NewTextBlock(block.Text))

			case "tool_use":
				result.ToolCalls++
				l.emit(Event{Type: "tool_use", Tool: block.Name, Input: block.Input})
				assistantBlocks = append(assistantBlocks,
					anthropic.NewToolUseBlock(block.ID, block.Input, block.Name))

				toolResult := l.executor.Execute(ctx, block.Name, block.Input)
				l.emit(Event{Type: "tool_result", Tool: block.Name, Content: previewForEvent(toolResult.Content)})
				toolResultBlocks = append(toolResultBlocks,
					anthropic.NewToolResultBlock(block.ID, toolResult.Content, toolResult.IsError))
			}
		}

		if stepText != "" {
			lastText = stepText
		}
		if len(assistantBlocks) > 0 {
			result.Messages = append(result.Messages, anthropic.NewAssistantMessage(assistantBlocks...))
		}

		if len(toolResultBlocks) == 0 {
			result.Output = lastText
			l.emit(Event{Type: "done"})
			return result, nil
		}
		result.Messages = append(result.Messages, anthropic.NewUserMessage(toolResultBlocks...))
	}

	// Budget exhausted: hand back the partial text rather than failing.
	result.Output = lastText
	result.Exhausted = true
	l.emit(Event{Type: "done"})
	return result, nil
}

func previewForEvent(s string) string {
	if len(s) > 500 {
		return s[:500] + "..."
	}
	return s
}
