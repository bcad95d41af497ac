package taskstore

import (
	"encoding/json"
	"errors"
	"fmt"
)

// StateVersion is the version written into every persisted envelope.
const StateVersion = 0

// ErrMalformedState is returned when a persisted blob cannot be turned back into a State.
var ErrMalformedState = errors.New("malformed persisted state")

// envelope is the persisted layout: {"state": {...}, "version": 0}.
type envelope struct {
	State   persistedState `json:"state"`
	Version int            `json:"version"`
}

type persistedState struct {
	Tasks          map[string]Task `json:"tasks"`
	DraggingTaskID string          `json:"draggingTaskId,omitempty"`
}

// Encode serializes the whole state for storage.
func Encode(s State) ([]byte, error) {
	tasks := s.Tasks
	if tasks == nil {
		tasks = map[string]Task{}
	}
	return json.Marshal(envelope{
		State:   persistedState{Tasks: tasks, DraggingTaskID: s.DraggingTaskID},
		Version: StateVersion,
	})
}

// EncodeIndent is Encode with indentation, for inspection output.
func EncodeIndent(s State) ([]byte, error) {
	data, err := Encode(s)
	if err != nil {
		return nil, err
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return json.MarshalIndent(env, "", "  ")
}

// Decode parses a blob produced by Encode.
// Every task must be stored under its own id.
func Decode(data []byte) (State, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	if env.Version != StateVersion {
		return State{}, fmt.Errorf("%w: unsupported version %d", ErrMalformedState, env.Version)
	}
	if env.State.Tasks == nil {
		return State{}, fmt.Errorf("%w: missing tasks", ErrMalformedState)
	}
	for key, t := range env.State.Tasks {
		if key != t.ID {
			return State{}, fmt.Errorf("%w: task %q stored under key %q", ErrMalformedState, t.ID, key)
		}
	}
	return State{
		Tasks:          env.State.Tasks,
		DraggingTaskID: env.State.DraggingTaskID,
	}, nil
}
