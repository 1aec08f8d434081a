// Package state holds the in-memory shared state for one coordinator
// run: the conversation transcript, the virtual file system, the todo
// list, and the repository context. Nothing here is persisted.
package state

import (
	"fmt"
	"sort"

	"github.com/anthropics/anthropic-sdk-go"

	"repoprobe/pkg/models"
)

// State is the mutable record shared by every tool invocation within a
// coordinator turn. Tool calls in a turn execute sequentially, so no
// locking is needed; sub-agents never touch the parent State directly —
// they work on a snapshot and the delegation tool merges their delta.
type State struct {
	// Messages is the append-only conversation transcript.
	Messages []anthropic.MessageParam
	// Files is the virtual file system used for context offloading.
	Files map[string]string
	// Todos is the coordinator's plan.
	Todos []models.Todo
	// CurrentRepo is the "owner/repo" under analysis, if any.
	CurrentRepo string
	// IssueURL is the canonical issue URL under analysis, if any.
	IssueURL string
}

// New creates an empty state.
func New() *State {
	return &State{
		Files: make(map[string]string),
	}
}

// AppendMessage adds a turn to the transcript.
func (s *State) AppendMessage(msg anthropic.MessageParam) {
	s.Messages = append(s.Messages, msg)
}

// SnapshotFiles returns a copy of the file table. Sub-agents receive
// this at spawn time so their writes stay local until merged back.
func (s *State) SnapshotFiles() map[string]string {
	snap := make(map[string]string, len(s.Files))
	for name, content := range s.Files {
		snap[name] = content
	}
	return snap
}

// MergeFiles applies a right-biased union: every entry in delta is
// written into the file table, overwriting colliding names.
func (s *State) MergeFiles(delta map[string]string) {
	for name, content := range delta {
		s.Files[name] = content
	}
}

// WriteFile stores content under name, overwriting any existing entry.
// It reports whether the write created a new file.
func (s *State) WriteFile(name, content string) (created bool) {
	_, exists := s.Files[name]
	s.Files[name] = content
	return !exists
}

// ReadFile returns the content for name and whether it exists.
func (s *State) ReadFile(name string) (string, bool) {
	content, ok := s.Files[name]
	return content, ok
}

// FileNames returns all filenames in sorted order.
func (s *State) FileNames() []string {
	names := make([]string, 0, len(s.Files))
	for name := range s.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetTodos replaces the todo list.
func (s *State) SetTodos(todos []models.Todo) {
	s.Todos = todos
}

// MarkTodoDone marks the 1-based index done. It returns an error
// without modifying the list when the index is out of range.
func (s *State) MarkTodoDone(index int) (models.Todo, error) {
	if len(s.Todos) == 0 {
		return models.Todo{}, fmt.Errorf("no todos exist; write a plan first")
	}
	if index < 1 || index > len(s.Todos) {
		return models.Todo{}, fmt.Errorf("index %d out of range; valid range: 1-%d", index, len(s.Todos))
	}
	s.Todos[index-1].Status = models.TodoDone
	return s.Todos[index-1], nil
}
