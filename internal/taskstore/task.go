// Package taskstore holds the kanban board state: the task collection, the
// drag cursor, the queries and commands over them, and the persistence hook
// that mirrors every change to a storage.Storage.
package taskstore

import "sort"

// Status is a workflow stage a task can occupy.
// The set of valid statuses belongs to the application; the store accepts any value.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// DefaultStatuses is the column order used when the application configures none.
var DefaultStatuses = []Status{StatusOpen, StatusInProgress, StatusDone}

// Task is a single card on the board.
type Task struct {
	ID     string `json:"id" yaml:"id"`
	Title  string `json:"title" yaml:"title"`
	Status Status `json:"status" yaml:"status"`
}

// DefaultKey is the store name used when none is configured.
const DefaultKey = "task-store"

// SeedTasks returns the tasks a board starts with when nothing was persisted.
func SeedTasks() map[string]Task {
	return map[string]Task{
		"ABC-1": {ID: "ABC-1", Title: "Task 1", Status: StatusOpen},
		"ABC-2": {ID: "ABC-2", Title: "Task 2", Status: StatusInProgress},
		"ABC-3": {ID: "ABC-3", Title: "Task 3", Status: StatusOpen},
		"ABC-4": {ID: "ABC-4", Title: "Task 4", Status: StatusOpen},
	}
}

// State is a point-in-time copy of the board.
type State struct {
	Tasks map[string]Task

	// DraggingTaskID is empty when no drag is in progress.
	DraggingTaskID string
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	return State{
		Tasks:          cloneTasks(s.Tasks),
		DraggingTaskID: s.DraggingTaskID,
	}
}

// Sorted returns the tasks ordered by id.
func (s State) Sorted() []Task {
	return sortedTasks(s.Tasks, func(Task) bool { return true })
}

func cloneTasks(src map[string]Task) map[string]Task {
	dst := make(map[string]Task, len(src))
	for id, t := range src {
		dst[id] = t
	}
	return dst
}

func sortedTasks(tasks map[string]Task, keep func(Task) bool) []Task {
	result := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if keep(t) {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}
