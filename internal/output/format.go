// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"taskboard/internal/taskstore"
)

const (
	// ListSeparator is the separator line around column headers.
	ListSeparator = "------------"

	// DragMarker flags the task currently being dragged.
	DragMarker = "*"
)

// FormatTask formats a task line.
// Format: "{M} {ID}  {TITLE}\n" where M is DragMarker or a space.
func FormatTask(w io.Writer, task taskstore.Task, dragging bool) {
	marker := " "
	if dragging {
		marker = DragMarker
	}
	fmt.Fprintf(w, "%s %s  %s\n", marker, task.ID, normalizeTitle(task.Title))
}

// FormatColumnHeader formats a status column header with its task count.
func FormatColumnHeader(w io.Writer, status taskstore.Status, count int) {
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintf(w, "%s (%d)\n", normalizeStatus(status), count)
	fmt.Fprintln(w, ListSeparator)
}

// FormatColumn formats one column: header then its tasks in id order.
func FormatColumn(w io.Writer, status taskstore.Status, tasks []taskstore.Task, draggingID string) {
	FormatColumnHeader(w, status, len(tasks))
	for _, t := range tasks {
		FormatTask(w, t, t.ID == draggingID)
	}
}

// FormatBoard formats every column of state. Configured statuses come first
// in their configured order, even when empty; statuses present on tasks but
// not configured follow in name order.
func FormatBoard(w io.Writer, statuses []taskstore.Status, state taskstore.State) {
	byStatus := make(map[taskstore.Status][]taskstore.Task)
	for _, t := range state.Sorted() {
		byStatus[t.Status] = append(byStatus[t.Status], t)
	}

	known := make(map[taskstore.Status]bool, len(statuses))
	for _, s := range statuses {
		known[s] = true
		FormatColumn(w, s, byStatus[s], state.DraggingTaskID)
	}

	var extra []taskstore.Status
	for s := range byStatus {
		if !known[s] {
			extra = append(extra, s)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	for _, s := range extra {
		FormatColumn(w, s, byStatus[s], state.DraggingTaskID)
	}
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

func normalizeStatus(s taskstore.Status) string {
	if strings.TrimSpace(string(s)) == "" {
		return "(no status)"
	}
	return string(s)
}
