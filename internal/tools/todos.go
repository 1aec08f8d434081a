package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"repoprobe/internal/api"
	"repoprobe/pkg/models"
)

func (e *Executor) execWriteTodos(input json.RawMessage) api.ToolResult {
	var params struct {
		Todos []struct {
			Text   string `json:"text"`
			Status string `json:"status"`
		} `json:"todos"`
	}
	if err := json.Unmarshal(input, &params); err != nil {
		return invalidParams(err)
	}

	todos := make([]models.Todo, 0, len(params.Todos))
	for i, t := range params.Todos {
		if t.Text == "" {
			return errResult("Todo %d has no text", i+1)
		}
		status := models.TodoStatus(t.Status)
		if t.Status == "" {
			status = models.TodoPending
		}
		if !status.Valid() {
			return errResult("Todo %d has invalid status %q; use pending, in_progress, or done", i+1, t.Status)
		}
		todos = append(todos, models.Todo{Text: t.Text, Status: status})
	}

	e.state.SetTodos(todos)
	return api.ToolResult{Content: fmt.Sprintf("Todo list replaced with %d item(s)", len(todos))}
}

func (e *Executor) execReadTodos() api.ToolResult {
	if len(e.state.Todos) == 0 {
		return api.ToolResult{Content: "No todos yet."}
	}

	var out strings.Builder
	for i, t := range e.state.Todos {
		fmt.Fprintf(&out, "%d. %s %s\n", i+1, t.Status.Marker(), t.Text)
	}
	return api.ToolResult{Content: out.String()}
}

func (e *Executor) execMarkTodoDone(input json.RawMessage) api.ToolResult {
	var params struct {
		Index int `json:"index"`
	}
	if err := json.Unmarshal(input, &params); err != nil {
		return invalidParams(err)
	}

	todo, err := e.state.MarkTodoDone(params.Index)
	if err != nil {
		return errResult("%v", err)
	}
	return api.ToolResult{Content: fmt.Sprintf("Marked done: %s", todo.Text)}
}

// reflectionLimit caps the echoed reflection in the think acknowledgment.
const reflectionLimit = 200

func (e *Executor) execThink(input json.RawMessage) api.ToolResult {
	var params struct {
		Reflection string `json:"reflection"`
	}
	if err := json.Unmarshal(input, &params); err != nil {
		return invalidParams(err)
	}

	echo := params.Reflection
	if len(echo) > reflectionLimit {
		echo = echo[:reflectionLimit] + "..."
	}
	return api.ToolResult{Content: "Reflection recorded: " + echo}
}
