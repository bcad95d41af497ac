package commands

import (
	"errors"
	"testing"

	"taskboard/internal/taskstore"
)

var refTasks = []taskstore.Task{
	{ID: "ABC-1", Title: "Task 1"},
	{ID: "ABC-10", Title: "Task 10"},
	{ID: "ABC-2", Title: "Task 2"},
	{ID: "9f1c2a", Title: "uuid-ish"},
}

func TestParseTaskRef_Required(t *testing.T) {
	for _, args := range [][]string{nil, {""}, {"  "}} {
		if _, err := ParseTaskRef(args); !errors.Is(err, ErrTaskRefRequired) {
			t.Errorf("args %q: expected ErrTaskRefRequired, got %v", args, err)
		}
	}
}

func TestParseTaskRef_Trims(t *testing.T) {
	ref, err := ParseTaskRef([]string{" ABC-1 ", "extra"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref != "ABC-1" {
		t.Errorf("expected ABC-1, got %q", ref)
	}
}

func TestResolveTaskRef_ExactBeatsPrefix(t *testing.T) {
	// "ABC-1" is also a prefix of "ABC-10".
	task, err := ResolveTaskRef(refTasks, "ABC-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.ID != "ABC-1" {
		t.Errorf("expected ABC-1, got %s", task.ID)
	}
}

func TestResolveTaskRef_CaseInsensitive(t *testing.T) {
	task, err := ResolveTaskRef(refTasks, "abc-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.ID != "ABC-2" {
		t.Errorf("expected ABC-2, got %s", task.ID)
	}
}

func TestResolveTaskRef_UniquePrefix(t *testing.T) {
	task, err := ResolveTaskRef(refTasks, "9F")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.ID != "9f1c2a" {
		t.Errorf("expected 9f1c2a, got %s", task.ID)
	}
}

func TestResolveTaskRef_Ambiguous(t *testing.T) {
	_, err := ResolveTaskRef(refTasks, "abc")
	if !errors.Is(err, ErrAmbiguousTask) {
		t.Fatalf("expected ErrAmbiguousTask, got %v", err)
	}
	if err.Error() != "ambiguous task reference: abc" {
		t.Errorf("unexpected message %q", err)
	}
}

func TestResolveTaskRef_NotFound(t *testing.T) {
	_, err := ResolveTaskRef(refTasks, "XYZ")
	if !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
	if err.Error() != "task not found: XYZ" {
		t.Errorf("unexpected message %q", err)
	}
}
