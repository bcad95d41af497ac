package taskstore

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrUnknownAction is returned by Dispatch for an unrecognised action name.
var ErrUnknownAction = errors.New("unknown action")

// Action is a named store command that can be replayed for diagnostics.
type Action struct {
	Type   string `yaml:"type" json:"type"`
	Title  string `yaml:"title,omitempty" json:"title,omitempty"`
	Status Status `yaml:"status,omitempty" json:"status,omitempty"`
	TaskID string `yaml:"taskId,omitempty" json:"taskId,omitempty"`
}

// Dispatch applies a named action to the store.
func (s *Store) Dispatch(a Action) error {
	switch a.Type {
	case ActionAddTask:
		s.AddTask(a.Title, a.Status)
	case ActionSetDraggingTaskID:
		if a.TaskID == "" {
			return fmt.Errorf("%s: taskId required", a.Type)
		}
		s.SetDraggingTaskID(a.TaskID)
	case ActionRemoveDraggingTaskID:
		s.RemoveDraggingTaskID()
	case ActionChangeTaskStatus:
		if a.TaskID == "" {
			return fmt.Errorf("%s: taskId required", a.Type)
		}
		s.ChangeTaskStatus(a.TaskID, a.Status)
	case ActionOnTaskDrop:
		s.OnTaskDrop(a.Status)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, a.Type)
	}
	return nil
}

// ParseActions decodes an action script. The script is a YAML (or JSON)
// list of actions, or a mapping with an "actions" list.
func ParseActions(data []byte) ([]Action, error) {
	var list []Action
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var doc struct {
		Actions []Action `yaml:"actions"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse actions: %w", err)
	}
	return doc.Actions, nil
}
