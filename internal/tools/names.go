// Package tools implements the tool catalog offered to the reasoning
// loops: virtual file access, todo management, reflection, stack trace
// analysis, repository inspection, and web research. Every handler
// returns a ToolResult; failures become descriptive strings the model
// can read and route around, never raised errors.
package tools

import "fmt"

// Tool names as they appear on the API wire. The catalog is closed:
// Subset rejects names outside it, and the executor answers unknown
// names with an error result.
const (
	NameLs                  = "ls"
	NameReadFile            = "read_file"
	NameWriteFile           = "write_file"
	NameWriteTodos          = "write_todos"
	NameReadTodos           = "read_todos"
	NameMarkTodoDone        = "mark_todo_done"
	NameThink               = "think_tool"
	NameExtractStackTrace   = "extract_stack_trace"
	NameParseErrorFromIssue = "parse_error_from_issue"
	NameSearchCodeInRepo    = "search_code_in_repo"
	NameReadFileFromRepo    = "read_file_from_repo"
	NameListRepoStructure   = "list_repository_structure"
	NameGetIssueDetails     = "get_issue_details"
	NameGetRepositoryInfo   = "get_repository_info"
	NameSearchErrorSolution = "search_error_solution"
	NameSearchDocumentation = "search_documentation"
	NameTask                = "task"
)

// Catalog returns every tool name, in definition order.
func Catalog() []string {
	return []string{
		NameLs,
		NameReadFile,
		NameWriteFile,
		NameWriteTodos,
		NameReadTodos,
		NameMarkTodoDone,
		NameThink,
		NameExtractStackTrace,
		NameParseErrorFromIssue,
		NameSearchCodeInRepo,
		NameReadFileFromRepo,
		NameListRepoStructure,
		NameGetIssueDetails,
		NameGetRepositoryInfo,
		NameSearchErrorSolution,
		NameSearchDocumentation,
		NameTask,
	}
}

// IsKnown reports whether name is in the catalog.
func IsKnown(name string) bool {
	for _, n := range Catalog() {
		if n == name {
			return true
		}
	}
	return false
}

// ValidateNames checks a list of tool names against the catalog.
func ValidateNames(names []string) error {
	for _, n := range names {
		if !IsKnown(n) {
			return fmt.Errorf("unknown tool name %q", n)
		}
	}
	return nil
}
