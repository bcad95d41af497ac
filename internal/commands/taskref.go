package commands

import (
	"errors"
	"fmt"
	"strings"

	"taskboard/internal/taskstore"
)

var (
	// ErrTaskRefRequired indicates no task reference was provided.
	ErrTaskRefRequired = errors.New("task reference required")

	// ErrTaskNotFound indicates no task matches the reference.
	ErrTaskNotFound = errors.New("task not found")

	// ErrAmbiguousTask indicates the reference prefixes more than one id.
	ErrAmbiguousTask = errors.New("ambiguous task reference")
)

// ParseTaskRef extracts a task reference from args.
// The reference is the first argument, trimmed; it may not be empty.
func ParseTaskRef(args []string) (string, error) {
	if len(args) == 0 {
		return "", ErrTaskRefRequired
	}
	ref := strings.TrimSpace(args[0])
	if ref == "" {
		return "", ErrTaskRefRequired
	}
	return ref, nil
}

// ResolveTaskRef finds the task a reference points at.
//
// Matching rules:
// 1. An exact id wins.
// 2. Otherwise a case-insensitive id match or a unique case-insensitive id
//    prefix, so long ids can be shortened the way short hashes are.
// 3. Several prefix matches → ErrAmbiguousTask; none → ErrTaskNotFound.
func ResolveTaskRef(tasks []taskstore.Task, ref string) (taskstore.Task, error) {
	for _, t := range tasks {
		if t.ID == ref {
			return t, nil
		}
	}

	lower := strings.ToLower(ref)
	var matches []taskstore.Task
	for _, t := range tasks {
		id := strings.ToLower(t.ID)
		if id == lower {
			return t, nil
		}
		if strings.HasPrefix(id, lower) {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 0:
		return taskstore.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return taskstore.Task{}, fmt.Errorf("%w: %s", ErrAmbiguousTask, ref)
	}
}

// lookupTask parses args and resolves the reference against the store.
func lookupTask(st *taskstore.Store, args []string) (taskstore.Task, error) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		return taskstore.Task{}, err
	}
	return ResolveTaskRef(st.Tasks(), ref)
}
