package api

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
)

// scriptedCompleter returns canned responses in order.
type scriptedCompleter struct {
	responses []*anthropic.Message
	calls     int
}

func (s *scriptedCompleter) Complete(ctx context.Context, system string, messages []anthropic.MessageParam, tools []anthropic.ToolUnionParam, maxTokens int64) (*anthropic.Message, error) {
	if s.calls >= len(s.responses) {
		return textResponse("ran out of script"), nil
	}
	resp := s.responses[s.calls]
	s.calls++
	return resp, nil
}

func textResponse(text string) *anthropic.Message {
	return &anthropic.Message{
		Content:    []anthropic.ContentBlockUnion{{Type: "text", Text: text}},
		StopReason: anthropic.StopReasonEndTurn,
	}
}

func toolUseResponse(id, name string, input string) *anthropic.Message {
	return &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{
			{Type: "tool_use", ID: id, Name: name, Input: json.RawMessage(input)},
		},
		StopReason: anthropic.StopReasonToolUse,
	}
}

// recordingExecutor records executed tool names.
type recordingExecutor struct {
	executed []string
	result   ToolResult
}

func (r *recordingExecutor) Execute(ctx context.Context, name string, input json.RawMessage) ToolResult {
	r.executed = append(r.executed, name)
	return r.result
}

func userMessages(text string) []anthropic.MessageParam {
	return []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(text))}
}

func TestAgentLoop_FinalTextWithoutTools(t *testing.T) {
	completer := &scriptedCompleter{responses: []*anthropic.Message{textResponse("the answer")}}
	exec := &recordingExecutor{}

	loop := NewAgentLoop(LoopConfig{Completer: completer, Executor: exec, MaxSteps: 5})
	result, err := loop.Run(context.Background(), userMessages("question"))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Output != "the answer" {
		t.Errorf("Output = %q", result.Output)
	}
	if result.Steps != 1 {
		t.Errorf("Steps = %d, want 1", result.Steps)
	}
	if len(exec.executed) != 0 {
		t.Errorf("no tools should run, got %v", exec.executed)
	}
	if result.Exhausted {
		t.Error("Exhausted should be false")
	}
}

func TestAgentLoop_ExecutesToolsThenFinishes(t *testing.T) {
	completer := &scriptedCompleter{responses: []*anthropic.Message{
		toolUseResponse("t1", "read_file", `{"filename":"a.md"}`),
		textResponse("done reading"),
	}}
	exec := &recordingExecutor{result: ToolResult{Content: "file contents"}}

	loop := NewAgentLoop(LoopConfig{Completer: completer, Executor: exec, MaxSteps: 5})
	result, err := loop.Run(context.Background(), userMessages("read a.md"))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(exec.executed) != 1 || exec.executed[0] != "read_file" {
		t.Errorf("executed = %v", exec.executed)
	}
	if result.Output != "done reading" {
		t.Errorf("Output = %q", result.Output)
	}
	if result.ToolCalls != 1 {
		t.Errorf("ToolCalls = %d", result.ToolCalls)
	}
	// user, assistant(tool_use), user(tool_result), assistant(text)
	if len(result.Messages) != 4 {
		t.Errorf("len(Messages) = %d, want 4", len(result.Messages))
	}
}

func TestAgentLoop_ParallelToolCallsInOneStep(t *testing.T) {
	multi := &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{
			{Type: "tool_use", ID: "t1", Name: "ls", Input: json.RawMessage(`{}`)},
			{Type: "tool_use", ID: "t2", Name: "read_todos", Input: json.RawMessage(`{}`)},
		},
		StopReason: anthropic.StopReasonToolUse,
	}
	completer := &scriptedCompleter{responses: []*anthropic.Message{multi, textResponse("ok")}}
	exec := &recordingExecutor{result: ToolResult{Content: "x"}}

	loop := NewAgentLoop(LoopConfig{Completer: completer, Executor: exec, MaxSteps: 5})
	result, err := loop.Run(context.Background(), userMessages("go"))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(exec.executed) != 2 {
		t.Fatalf("executed = %v, want both calls", exec.executed)
	}
	if exec.executed[0] != "ls" || exec.executed[1] != "read_todos" {
		t.Errorf("order = %v, want issue order preserved", exec.executed)
	}
	if result.ToolCalls != 2 {
		t.Errorf("ToolCalls = %d", result.ToolCalls)
	}
}

func TestAgentLoop_BudgetExhaustedReturnsPartial(t *testing.T) {
	// Every response asks for another tool; loop must stop at MaxSteps
	// and return without error.
	responses := make([]*anthropic.Message, 10)
	for i := range responses {
		msg := toolUseResponse("t", "think_tool", `{"reflection":"..."}`)
		msg.Content = append([]anthropic.ContentBlockUnion{{Type: "text", Text: "still working"}}, msg.Content...)
		responses[i] = msg
	}
	completer := &scriptedCompleter{responses: responses}
	exec := &recordingExecutor{result: ToolResult{Content: "noted"}}

	loop := NewAgentLoop(LoopConfig{Completer: completer, Executor: exec, MaxSteps: 3})
	result, err := loop.Run(context.Background(), userMessages("go"))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !result.Exhausted {
		t.Error("Exhausted should be true")
	}
	if result.Steps != 3 {
		t.Errorf("Steps = %d, want 3", result.Steps)
	}
	if result.Output != "still working" {
		t.Errorf("Output = %q, want partial text", result.Output)
	}
}

func TestAgentLoop_EmitsEvents(t *testing.T) {
	completer := &scriptedCompleter{responses: []*anthropic.Message{
		toolUseResponse("t1", "ls", `{}`),
		textResponse("fin"),
	}}
	exec := &recordingExecutor{result: ToolResult{Content: "empty"}}

	var types []string
	loop := NewAgentLoop(LoopConfig{
		Completer: completer,
		Executor:  exec,
		MaxSteps:  5,
		OnEvent:   func(e Event) { types = append(types, e.Type) },
	})
	if _, err := loop.Run(context.Background(), userMessages("go")); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := []string{"tool_use", "tool_result", "text", "done"}
	if len(types) != len(want) {
		t.Fatalf("events = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("events[%d] = %q, want %q", i, types[i], want[i])
		}
	}
}
