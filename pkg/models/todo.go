package models

// TodoStatus represents the current state of a todo item.
type TodoStatus string

const (
	// TodoPending indicates the item has not started.
	TodoPending TodoStatus = "pending"
	// TodoInProgress indicates the item is being worked on.
	TodoInProgress TodoStatus = "in_progress"
	// TodoDone indicates the item completed.
	TodoDone TodoStatus = "done"
)

// Valid returns true if the status is a known value.
func (s TodoStatus) Valid() bool {
	switch s {
	case TodoPending, TodoInProgress, TodoDone:
		return true
	default:
		return false
	}
}

// Marker returns the checklist marker used when rendering the item.
func (s TodoStatus) Marker() string {
	switch s {
	case TodoDone:
		return "[x]"
	case TodoInProgress:
		return "[~]"
	default:
		return "[ ]"
	}
}

// Todo represents a single planning item on the agent's todo list.
type Todo struct {
	// Text is the task description.
	Text string `json:"text"`
	// Status is the current state of the item.
	Status TodoStatus `json:"status"`
}
