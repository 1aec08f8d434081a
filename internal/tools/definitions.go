package tools

import (
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
)

func toolDef(name, description string, props map[string]interface{}, required ...string) anthropic.ToolUnionParam {
	return anthropic.ToolUnionParam{
		OfTool: &anthropic.ToolParam{
			Name:        name,
			Description: anthropic.String(description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: props,
				Required:   required,
			},
		},
	}
}

func strProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func intProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": description}
}

// Definitions returns the tool schemas for the full catalog, including
// the task delegation tool. The coordinator uses this directly;
// sub-agents get a Subset.
func Definitions() []anthropic.ToolUnionParam {
	return []anthropic.ToolUnionParam{
		toolDef(NameLs,
			"List all files in working memory with their sizes.",
			map[string]interface{}{}),
		toolDef(NameReadFile,
			"Read a file from working memory. Returns the full content.",
			map[string]interface{}{
				"filename": strProp("Name of the file to read"),
			}, "filename"),
		toolDef(NameWriteFile,
			"Write a file to working memory, overwriting any existing file with the same name. Use this to store research findings and keep the conversation short.",
			map[string]interface{}{
				"filename": strProp("Name of the file to write"),
				"content":  strProp("Content to store"),
			}, "filename", "content"),
		toolDef(NameWriteTodos,
			"Replace the todo list with a new plan. Each todo has a text and a status (pending, in_progress, or done).",
			map[string]interface{}{
				"todos": map[string]interface{}{
					"type":        "array",
					"description": "The new todo list, in order",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"text":   strProp("What needs to be done"),
							"status": strProp("pending, in_progress, or done (default pending)"),
						},
						"required": []string{"text"},
					},
				},
			}, "todos"),
		toolDef(NameReadTodos,
			"Show the current todo list with the status of each item.",
			map[string]interface{}{}),
		toolDef(NameMarkTodoDone,
			"Mark one todo as done by its 1-based position in the list.",
			map[string]interface{}{
				"index": intProp("1-based position of the todo to mark done"),
			}, "index"),
		toolDef(NameThink,
			"Record a reflection on progress so far. Use after completing a research step to assess what was learned and what remains.",
			map[string]interface{}{
				"reflection": strProp("Your assessment of progress and next steps"),
			}, "reflection"),
		toolDef(NameExtractStackTrace,
			"Extract stack traces and error messages from free-form text such as logs or issue bodies.",
			map[string]interface{}{
				"text": strProp("Text that may contain a stack trace"),
			}, "text"),
		toolDef(NameParseErrorFromIssue,
			"Analyze an issue body: pull out stack traces, error types, and referenced files.",
			map[string]interface{}{
				"issue_text": strProp("The issue body to analyze"),
			}, "issue_text"),
		toolDef(NameSearchCodeInRepo,
			"Search code in a GitHub repository. Returns matching paths with snippet fragments.",
			map[string]interface{}{
				"query": strProp("Search terms, e.g. a function name or error string"),
				"repo":  strProp("Repository as owner/repo (defaults to the repository under analysis)"),
			}, "query"),
		toolDef(NameReadFileFromRepo,
			"Read a file from a GitHub repository at a given ref.",
			map[string]interface{}{
				"path": strProp("File path within the repository"),
				"repo": strProp("Repository as owner/repo (defaults to the repository under analysis)"),
				"ref":  strProp("Branch, tag, or commit (defaults to the default branch)"),
			}, "path"),
		toolDef(NameListRepoStructure,
			"List files and directories at a path in a GitHub repository.",
			map[string]interface{}{
				"repo": strProp("Repository as owner/repo (defaults to the repository under analysis)"),
				"path": strProp("Directory path (empty for the repository root)"),
				"ref":  strProp("Branch, tag, or commit (defaults to the default branch)"),
			}),
		toolDef(NameGetIssueDetails,
			"Fetch a GitHub issue with its comments. The full details are saved to working memory; a summary is returned.",
			map[string]interface{}{
				"issue_url": strProp("Full URL of the issue or pull request"),
			}, "issue_url"),
		toolDef(NameGetRepositoryInfo,
			"Fetch repository metadata: description, language, stars, default branch.",
			map[string]interface{}{
				"repo": strProp("Repository as owner/repo (defaults to the repository under analysis)"),
			}),
		toolDef(NameSearchErrorSolution,
			"Search the web for solutions to an error. Each result page is fetched, summarized, and saved to working memory; a manifest is returned.",
			map[string]interface{}{
				"error_message": strProp("The error message to research"),
				"language":      strProp("Programming language or framework for context (optional)"),
			}, "error_message"),
		toolDef(NameSearchDocumentation,
			"Search the web for documentation. Each result page is fetched, summarized, and saved to working memory; a manifest is returned.",
			map[string]interface{}{
				"query":      strProp("What to look up"),
				"technology": strProp("Library or tool the documentation is for (optional)"),
			}, "query"),
		toolDef(NameTask,
			"Delegate a research subtask to a specialized sub-agent. The sub-agent works independently with its own tools and reports back; files it writes are merged into working memory.",
			map[string]interface{}{
				"agent_type":  strProp("Which sub-agent to use"),
				"description": strProp("Complete, self-contained description of the subtask"),
			}, "agent_type", "description"),
	}
}

// Subset returns the definitions for the named tools only, preserving
// catalog order. Unknown names are an error rather than a silent skip.
func Subset(names []string) ([]anthropic.ToolUnionParam, error) {
	if err := ValidateNames(names); err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	var defs []anthropic.ToolUnionParam
	for _, def := range Definitions() {
		if def.OfTool != nil && wanted[def.OfTool.Name] {
			defs = append(defs, def)
		}
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("no tools selected")
	}
	return defs, nil
}
