package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"repoprobe/internal/api"
	"repoprobe/internal/state"
	"repoprobe/pkg/models"
)

func newTestExecutor() (*Executor, *state.State) {
	st := state.New()
	return NewExecutor(Config{State: st}), st
}

func exec(t *testing.T, e *Executor, name, input string) api.ToolResult {
	t.Helper()
	return e.Execute(context.Background(), name, json.RawMessage(input))
}

func TestExecute_UnknownTool(t *testing.T) {
	e, _ := newTestExecutor()
	res := exec(t, e, "frobnicate", `{}`)
	if !res.IsError || !strings.Contains(res.Content, "Unknown tool") {
		t.Errorf("result = %+v", res)
	}
}

func TestLs_EmptyAndPopulated(t *testing.T) {
	e, st := newTestExecutor()

	res := exec(t, e, NameLs, `{}`)
	if res.IsError || !strings.Contains(res.Content, "No files") {
		t.Errorf("empty ls = %+v", res)
	}

	st.WriteFile("notes.md", "hello")
	res = exec(t, e, NameLs, `{}`)
	if !strings.Contains(res.Content, "notes.md (5 bytes)") {
		t.Errorf("ls = %q", res.Content)
	}
}

func TestReadFile_MissingListsAvailable(t *testing.T) {
	e, st := newTestExecutor()
	st.WriteFile("a.md", "x")
	st.WriteFile("b.md", "y")

	res := exec(t, e, NameReadFile, `{"filename":"c.md"}`)
	if !res.IsError {
		t.Fatal("expected error result")
	}
	if !strings.Contains(res.Content, "a.md") || !strings.Contains(res.Content, "b.md") {
		t.Errorf("missing-file message should list available files, got %q", res.Content)
	}
}

func TestWriteFile_CreatedThenUpdated(t *testing.T) {
	e, st := newTestExecutor()

	res := exec(t, e, NameWriteFile, `{"filename":"f.md","content":"one"}`)
	if res.IsError || !strings.Contains(res.Content, "Created") {
		t.Errorf("first write = %+v", res)
	}

	res = exec(t, e, NameWriteFile, `{"filename":"f.md","content":"two"}`)
	if !strings.Contains(res.Content, "Updated") {
		t.Errorf("second write = %+v", res)
	}
	if content, _ := st.ReadFile("f.md"); content != "two" {
		t.Errorf("content = %q", content)
	}
}

func TestTodoLifecycle(t *testing.T) {
	e, st := newTestExecutor()

	res := exec(t, e, NameWriteTodos, `{"todos":[{"text":"fetch issue"},{"text":"search code","status":"in_progress"}]}`)
	if res.IsError {
		t.Fatalf("write_todos = %+v", res)
	}
	if len(st.Todos) != 2 || st.Todos[0].Status != models.TodoPending {
		t.Fatalf("todos = %+v", st.Todos)
	}

	res = exec(t, e, NameReadTodos, `{}`)
	if !strings.Contains(res.Content, "1. [ ] fetch issue") || !strings.Contains(res.Content, "2. [~] search code") {
		t.Errorf("read_todos = %q", res.Content)
	}

	res = exec(t, e, NameMarkTodoDone, `{"index":1}`)
	if res.IsError || !strings.Contains(res.Content, "fetch issue") {
		t.Errorf("mark_todo_done = %+v", res)
	}
	if st.Todos[0].Status != models.TodoDone {
		t.Errorf("status = %q", st.Todos[0].Status)
	}

	res = exec(t, e, NameMarkTodoDone, `{"index":7}`)
	if !res.IsError || !strings.Contains(res.Content, "out of range") {
		t.Errorf("bounds = %+v", res)
	}
}

func TestWriteTodos_InvalidStatus(t *testing.T) {
	e, st := newTestExecutor()
	st.SetTodos([]models.Todo{{Text: "keep me", Status: models.TodoPending}})

	res := exec(t, e, NameWriteTodos, `{"todos":[{"text":"t","status":"blocked"}]}`)
	if !res.IsError {
		t.Fatal("expected error for invalid status")
	}
	if len(st.Todos) != 1 || st.Todos[0].Text != "keep me" {
		t.Errorf("list should be untouched, got %+v", st.Todos)
	}
}

func TestThink_TruncatesEcho(t *testing.T) {
	e, _ := newTestExecutor()
	long := strings.Repeat("x", 500)

	res := exec(t, e, NameThink, `{"reflection":"`+long+`"}`)
	if res.IsError {
		t.Fatalf("think = %+v", res)
	}
	if len(res.Content) > reflectionLimit+50 {
		t.Errorf("echo too long: %d chars", len(res.Content))
	}
}

func TestExtractStackTrace(t *testing.T) {
	e, _ := newTestExecutor()
	trace := `Traceback (most recent call last):
  File "src/oauth.py", line 45, in get_token
    return data['access_token']
KeyError: 'access_token'`

	// KeyError does not match the Error-suffix pattern alone; the
	// traceback header still marks it as a trace.
	input, _ := json.Marshal(map[string]string{"text": trace})
	res := e.Execute(context.Background(), NameExtractStackTrace, input)
	if res.IsError {
		t.Fatalf("result = %+v", res)
	}
	if !strings.Contains(res.Content, "src/oauth.py at line 45") {
		t.Errorf("missing file reference: %q", res.Content)
	}
	if !strings.Contains(res.Content, "get_token()") {
		t.Errorf("missing function: %q", res.Content)
	}
}

func TestExtractStackTrace_NoTrace(t *testing.T) {
	e, _ := newTestExecutor()
	res := exec(t, e, NameExtractStackTrace, `{"text":"just a feature request, nothing broken"}`)
	if !strings.Contains(res.Content, "No clear stack trace") {
		t.Errorf("result = %q", res.Content)
	}
}

func TestParseErrorFromIssue_DetectsSections(t *testing.T) {
	e, _ := newTestExecutor()
	body := `## Environment
Python 3.11

## Steps to Reproduce
1. call login()

ValueError: bad credentials`

	input, _ := json.Marshal(map[string]string{"issue_text": body})
	res := e.Execute(context.Background(), NameParseErrorFromIssue, input)
	if res.IsError {
		t.Fatalf("result = %+v", res)
	}
	for _, want := range []string{"Environment: present", "Steps to reproduce: present", "ValueError"} {
		if !strings.Contains(res.Content, want) {
			t.Errorf("missing %q in %q", want, res.Content)
		}
	}
}

func TestRepoTools_RequireRepoContext(t *testing.T) {
	e, _ := newTestExecutor()
	res := exec(t, e, NameSearchCodeInRepo, `{"query":"handler"}`)
	if !res.IsError || !strings.Contains(res.Content, "no repository specified") {
		t.Errorf("result = %+v", res)
	}
}

func TestTask_UnavailableWithoutDelegate(t *testing.T) {
	e, _ := newTestExecutor()
	res := exec(t, e, NameTask, `{"agent_type":"repo-investigator","description":"look around"}`)
	if !res.IsError || !strings.Contains(res.Content, "not available") {
		t.Errorf("result = %+v", res)
	}
}

func TestTask_RoutesToDelegate(t *testing.T) {
	st := state.New()
	var gotType, gotDesc string
	e := NewExecutor(Config{
		State: st,
		Delegate: func(ctx context.Context, agentType, description string) api.ToolResult {
			gotType, gotDesc = agentType, description
			return api.ToolResult{Content: "sub-agent report"}
		},
	})

	res := exec(t, e, NameTask, `{"agent_type":"error-researcher","description":"research KeyError"}`)
	if res.IsError || res.Content != "sub-agent report" {
		t.Errorf("result = %+v", res)
	}
	if gotType != "error-researcher" || gotDesc != "research KeyError" {
		t.Errorf("delegate got %q / %q", gotType, gotDesc)
	}
}

func TestSubset(t *testing.T) {
	defs, err := Subset([]string{NameThink, NameReadFile})
	if err != nil {
		t.Fatalf("Subset failed: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("len = %d", len(defs))
	}
	names := map[string]bool{}
	for _, d := range defs {
		names[d.OfTool.Name] = true
	}
	if !names[NameThink] || !names[NameReadFile] {
		t.Errorf("names = %v", names)
	}

	if _, err := Subset([]string{"no_such_tool"}); err == nil {
		t.Error("expected error for unknown name")
	}
}

func TestDefinitions_CoverCatalog(t *testing.T) {
	defs := Definitions()
	if len(defs) != len(Catalog()) {
		t.Fatalf("definitions = %d, catalog = %d", len(defs), len(Catalog()))
	}
	for i, name := range Catalog() {
		if defs[i].OfTool == nil || defs[i].OfTool.Name != name {
			t.Errorf("definition %d = %v, want %s", i, defs[i].OfTool, name)
		}
	}
}

func githubJSON(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(handler))
}

func TestGetIssueDetails_OffloadsToWorkingMemory(t *testing.T) {
	srv := githubJSON(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/comments"):
			json.NewEncoder(w).Encode([]map[string]any{
				{"body": "same here", "user": map[string]any{"login": "bob"}},
			})
		default:
			json.NewEncoder(w).Encode(map[string]any{
				"number": 42, "title": "Login fails", "state": "open",
				"body": "ValueError: bad credentials",
				"user": map[string]any{"login": "alice"},
				"labels": []map[string]any{{"name": "bug"}},
			})
		}
	})
	defer srv.Close()

	st := state.New()
	gh := newGitHubForTest(srv.URL)
	e := NewExecutor(Config{State: st, GitHub: gh})

	res := exec(t, e, NameGetIssueDetails, `{"issue_url":"https://github.com/octo/app/issues/42"}`)
	if res.IsError {
		t.Fatalf("result = %+v", res)
	}
	if !strings.Contains(res.Content, "Issue #42: Login fails") {
		t.Errorf("summary = %q", res.Content)
	}
	if st.CurrentRepo != "octo/app" || st.IssueURL != "https://github.com/octo/app/issues/42" {
		t.Errorf("context = %q / %q", st.CurrentRepo, st.IssueURL)
	}

	names := st.FileNames()
	if len(names) != 1 || !strings.HasPrefix(names[0], "issue_42_") {
		t.Fatalf("files = %v", names)
	}
	content, _ := st.ReadFile(names[0])
	for _, want := range []string{"Login fails", "ValueError", "same here", "bug"} {
		if !strings.Contains(content, want) {
			t.Errorf("saved details missing %q", want)
		}
	}
}

func TestSearchCodeInRepo_UsesCurrentRepo(t *testing.T) {
	srv := githubJSON(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "login handler repo:octo/app" {
			t.Errorf("q = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"total_count": 1,
			"items": []map[string]any{{
				"path": "src/login.py", "html_url": "https://github.com/octo/app/blob/main/src/login.py",
				"repository":   map[string]any{"full_name": "octo/app"},
				"text_matches": []map[string]any{{"fragment": "def login_handler():"}},
			}},
		})
	})
	defer srv.Close()

	st := state.New()
	st.CurrentRepo = "octo/app"
	e := NewExecutor(Config{State: st, GitHub: newGitHubForTest(srv.URL)})

	res := exec(t, e, NameSearchCodeInRepo, `{"query":"login handler"}`)
	if res.IsError {
		t.Fatalf("result = %+v", res)
	}
	for _, want := range []string{"src/login.py", "def login_handler():"} {
		if !strings.Contains(res.Content, want) {
			t.Errorf("missing %q in %q", want, res.Content)
		}
	}
}
