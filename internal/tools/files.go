package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"repoprobe/internal/api"
)

func (e *Executor) execLs() api.ToolResult {
	names := e.state.FileNames()
	if len(names) == 0 {
		return api.ToolResult{Content: "No files in working memory yet."}
	}

	var out strings.Builder
	fmt.Fprintf(&out, "%d file(s) in working memory:\n", len(names))
	for _, name := range names {
		content, _ := e.state.ReadFile(name)
		fmt.Fprintf(&out, "- %s (%d bytes)\n", name, len(content))
	}
	return api.ToolResult{Content: out.String()}
}

func (e *Executor) execReadFile(input json.RawMessage) api.ToolResult {
	var params struct {
		Filename string `json:"filename"`
	}
	if err := json.Unmarshal(input, &params); err != nil {
		return invalidParams(err)
	}

	content, ok := e.state.ReadFile(params.Filename)
	if !ok {
		names := e.state.FileNames()
		if len(names) == 0 {
			return errResult("File %q not found; working memory is empty", params.Filename)
		}
		return errResult("File %q not found. Available files: %s",
			params.Filename, strings.Join(names, ", "))
	}
	return api.ToolResult{Content: content}
}

func (e *Executor) execWriteFile(input json.RawMessage) api.ToolResult {
	var params struct {
		Filename string `json:"filename"`
		Content  string `json:"content"`
	}
	if err := json.Unmarshal(input, &params); err != nil {
		return invalidParams(err)
	}
	if params.Filename == "" {
		return errResult("A filename is required")
	}

	created := e.state.WriteFile(params.Filename, params.Content)
	verb := "Updated"
	if created {
		verb = "Created"
	}
	return api.ToolResult{Content: fmt.Sprintf("%s file %q (%d bytes)", verb, params.Filename, len(params.Content))}
}
