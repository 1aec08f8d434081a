package tools

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"repoprobe/internal/api"
)

var (
	errorLinePattern = regexp.MustCompile(`(\w+(?:Error|Exception)):\s*(.+)`)
	fileLinePattern  = regexp.MustCompile(`File\s+"([^"]+)",\s+line\s+(\d+)`)
	functionPattern  = regexp.MustCompile(`in\s+(\w+)\s*\(`)
	tracebackPattern = regexp.MustCompile(`(?i)Traceback\s*\(most recent call last\):`)
)

// stackAnalysis is the parsed structure behind extract_stack_trace,
// shared with parse_error_from_issue.
func stackAnalysis(text string) (string, bool) {
	var errType, errMsg string
	if m := errorLinePattern.FindStringSubmatch(text); m != nil {
		errType = m[1]
		errMsg = strings.TrimSpace(m[2])
	}

	type fileRef struct {
		path string
		line string
	}
	var files []fileRef
	for _, m := range fileLinePattern.FindAllStringSubmatch(text, -1) {
		files = append(files, fileRef{path: m[1], line: m[2]})
	}

	var functions []string
	seen := make(map[string]bool)
	for _, m := range functionPattern.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			functions = append(functions, m[1])
		}
	}

	hasTraceback := tracebackPattern.MatchString(text)
	if errType == "" && !hasTraceback {
		return "No clear stack trace found in the text.", false
	}

	var out strings.Builder
	out.WriteString("# Stack Trace Analysis\n\n")
	if errType != "" {
		fmt.Fprintf(&out, "Error type: %s\n", errType)
	}
	if errMsg != "" {
		fmt.Fprintf(&out, "Error message: %s\n", errMsg)
	}
	if len(files) > 0 {
		out.WriteString("\n## Files Mentioned\n")
		for _, f := range files {
			fmt.Fprintf(&out, "- %s at line %s\n", f.path, f.line)
		}
	}
	if len(functions) > 0 {
		out.WriteString("\n## Functions in Call Stack\n")
		for _, fn := range functions {
			fmt.Fprintf(&out, "- %s()\n", fn)
		}
	}
	out.WriteString("\nNext steps: search code for the mentioned files, read the specific lines, and research the error message online.\n")
	return out.String(), true
}

func (e *Executor) execExtractStackTrace(input json.RawMessage) api.ToolResult {
	var params struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(input, &params); err != nil {
		return invalidParams(err)
	}

	analysis, _ := stackAnalysis(params.Text)
	return api.ToolResult{Content: analysis}
}

// Section headings commonly present in issue templates.
var issueSectionPatterns = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{"Environment", regexp.MustCompile(`(?i)##?\s*environment`)},
	{"Steps to reproduce", regexp.MustCompile(`(?i)##?\s*(?:steps to reproduce|reproduction)`)},
	{"Expected behavior", regexp.MustCompile(`(?i)##?\s*expected (?:behavior|result)`)},
	{"Actual behavior", regexp.MustCompile(`(?i)##?\s*actual (?:behavior|result)`)},
	{"Version", regexp.MustCompile(`(?i)version[:]\s*\S`)},
}

func (e *Executor) execParseErrorFromIssue(input json.RawMessage) api.ToolResult {
	var params struct {
		IssueText string `json:"issue_text"`
	}
	if err := json.Unmarshal(input, &params); err != nil {
		return invalidParams(err)
	}

	analysis, _ := stackAnalysis(params.IssueText)

	var found []string
	for _, sec := range issueSectionPatterns {
		if sec.pattern.MatchString(params.IssueText) {
			found = append(found, sec.name)
		}
	}

	var out strings.Builder
	out.WriteString("# Issue Error Analysis\n\n")
	out.WriteString(analysis)
	out.WriteString("\n## Issue Structure\n")
	if len(found) > 0 {
		for _, name := range found {
			fmt.Fprintf(&out, "- %s: present\n", name)
		}
	} else {
		out.WriteString("- No standard issue template sections found\n")
	}
	out.WriteString("\nRecommendation: read the saved issue details, look up the files from the stack trace, and research the error message online.\n")

	return api.ToolResult{Content: out.String()}
}
