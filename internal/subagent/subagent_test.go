package subagent

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"

	"repoprobe/internal/tools"
)

func TestRegistry_Builtins(t *testing.T) {
	r := NewRegistry()

	names := r.Names()
	if len(names) != 2 || names[0] != "error-researcher" || names[1] != "repo-investigator" {
		t.Fatalf("names = %v", names)
	}

	investigator, ok := r.Get("repo-investigator")
	if !ok {
		t.Fatal("repo-investigator missing")
	}
	for _, want := range []string{tools.NameSearchCodeInRepo, tools.NameReadFileFromRepo, tools.NameReadFile} {
		found := false
		for _, name := range investigator.Tools {
			if name == want {
				found = true
			}
		}
		if !found {
			t.Errorf("repo-investigator missing tool %s", want)
		}
	}

	if _, ok := r.Get("web-surfer"); ok {
		t.Error("unknown type should not resolve")
	}
}

func TestRegistry_LoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agents.yaml")
	content := `agents:
  - name: issue-triager
    description: Triages issues
    prompt: You triage issues.
    tools: [read_file, think_tool]
  - name: repo-investigator
    description: Narrow investigator
    tools: [search_code_in_repo, think_tool]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry()
	if err := r.LoadOverrides(path); err != nil {
		t.Fatalf("LoadOverrides failed: %v", err)
	}

	triager, ok := r.Get("issue-triager")
	if !ok || triager.Prompt != "You triage issues." {
		t.Errorf("triager = %+v", triager)
	}

	// Override keeps the built-in prompt when none is given.
	investigator, _ := r.Get("repo-investigator")
	if len(investigator.Tools) != 2 {
		t.Errorf("tools = %v", investigator.Tools)
	}
	if investigator.Prompt == "" {
		t.Error("built-in prompt should be retained")
	}
}

func TestRegistry_LoadOverrides_RejectsUnknownTool(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agents.yaml")
	content := `agents:
  - name: bad-agent
    prompt: p
    tools: [launch_missiles]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry()
	if err := r.LoadOverrides(path); err == nil {
		t.Error("expected error for unknown tool name")
	}
}

// scriptedCompleter drives a run without a live API.
type scriptedCompleter struct {
	responses []*anthropic.Message
	calls     int
	lastTools []anthropic.ToolUnionParam
}

func (s *scriptedCompleter) Complete(ctx context.Context, system string, messages []anthropic.MessageParam, toolDefs []anthropic.ToolUnionParam, maxTokens int64) (*anthropic.Message, error) {
	s.lastTools = toolDefs
	if s.calls >= len(s.responses) {
		return &anthropic.Message{
			Content: []anthropic.ContentBlockUnion{{Type: "text", Text: "done"}},
		}, nil
	}
	resp := s.responses[s.calls]
	s.calls++
	return resp, nil
}

func TestRunner_IsolatesStateAndReturnsFiles(t *testing.T) {
	completer := &scriptedCompleter{responses: []*anthropic.Message{
		{
			Content: []anthropic.ContentBlockUnion{{
				Type: "tool_use", ID: "t1", Name: tools.NameReadFile,
				Input: json.RawMessage(`{"filename":"issue_1.md"}`),
			}},
		},
		{
			Content: []anthropic.ContentBlockUnion{{Type: "text", Text: "Findings: the bug is in oauth.py"}},
		},
	}}

	runner := NewRunner(RunnerConfig{Completer: completer})
	def, _ := NewRegistry().Get("repo-investigator")

	parentFiles := map[string]string{"issue_1.md": "KeyError in oauth.py"}
	result, err := runner.Run(context.Background(), def, "Find the bug", parentFiles, "octo/app", "")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Report != "Findings: the bug is in oauth.py" {
		t.Errorf("Report = %q", result.Report)
	}
	if result.Files["issue_1.md"] != "KeyError in oauth.py" {
		t.Errorf("snapshot should carry parent files, got %v", result.Files)
	}

	// Parent map must not alias the sub-agent's table.
	result.Files["scratch.md"] = "local"
	if _, ok := parentFiles["scratch.md"]; ok {
		t.Error("sub-agent files alias the parent map")
	}

	// Only the allow-listed tools are offered.
	if len(completer.lastTools) != len(def.Tools) {
		t.Errorf("offered %d tools, want %d", len(completer.lastTools), len(def.Tools))
	}
}

func TestRunner_BudgetExhaustion(t *testing.T) {
	// The model never stops calling tools; the runner must cut it off
	// at the step budget and hand back partial text without an error.
	var responses []*anthropic.Message
	for i := 0; i < maxSteps+5; i++ {
		responses = append(responses, &anthropic.Message{
			Content: []anthropic.ContentBlockUnion{
				{Type: "text", Text: "partial notes"},
				{Type: "tool_use", ID: "t", Name: tools.NameThink, Input: json.RawMessage(`{"reflection":"hm"}`)},
			},
		})
	}
	completer := &scriptedCompleter{responses: responses}

	runner := NewRunner(RunnerConfig{Completer: completer})
	def, _ := NewRegistry().Get("error-researcher")

	result, err := runner.Run(context.Background(), def, "research forever", nil, "", "")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !result.Exhausted {
		t.Error("Exhausted should be true")
	}
	if result.Steps != maxSteps {
		t.Errorf("Steps = %d, want %d", result.Steps, maxSteps)
	}
	if result.Report != "partial notes" {
		t.Errorf("Report = %q", result.Report)
	}
}

func TestRunner_UnknownToolInDef(t *testing.T) {
	runner := NewRunner(RunnerConfig{Completer: &scriptedCompleter{}})
	def, _ := NewRegistry().Get("repo-investigator")
	def.Tools = []string{"bogus"}

	if _, err := runner.Run(context.Background(), def, "task", nil, "", ""); err == nil {
		t.Error("expected error for unknown tool in definition")
	}
	if _, err := runner.Run(context.Background(), def, "task", nil, "", ""); err != nil && !strings.Contains(err.Error(), "repo-investigator") {
		t.Errorf("error should name the agent, got %v", err)
	}
}
