package graph

import (
	"encoding/json"
	"strings"
)

// Node represents one activity in a workflow definition. A node may carry a
// note with no action, an action with no note, both, or neither.
type Node struct {
	// ID is unique within a definition
	ID string `json:"id" yaml:"id"`

	// Label is the display text, captured verbatim from the diagram
	Label string `json:"label,omitempty" yaml:"label,omitempty"`

	// Note holds free display text attached via a diagram note
	Note string `json:"note,omitempty" yaml:"note,omitempty"`

	// Action is the parsed action metadata, when the node's note carried one
	Action *Action `json:"action,omitempty" yaml:"action,omitempty"`
}

// Action describes a side effect bound to a node by name. It is decoded once
// at parse time and never re-parsed on node entry.
type Action struct {
	Name   string            `json:"action" yaml:"action"`
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
}

func (n *Node) equal(other *Node) bool {
	if n.ID != other.ID || n.Label != other.Label || n.Note != other.Note {
		return false
	}
	return n.Action.equal(other.Action)
}

func (a *Action) equal(other *Action) bool {
	if a == nil || other == nil {
		return a == nil && other == nil
	}
	if a.Name != other.Name || len(a.Params) != len(other.Params) {
		return false
	}
	for key, value := range a.Params {
		if other.Params[key] != value {
			return false
		}
	}
	return true
}

// ParseAction decodes action metadata from note text of the form
// {"action":"<name>","params":{"k":"v"}}. It returns nil when the text is not
// an action note; params default to an empty map when absent.
func ParseAction(note string) *Action {
	trimmed := strings.TrimSpace(note)
	if !strings.HasPrefix(trimmed, "{") {
		return nil
	}
	var action Action
	if err := json.Unmarshal([]byte(trimmed), &action); err != nil || action.Name == "" {
		return nil
	}
	if action.Params == nil {
		action.Params = map[string]string{}
	}
	return &action
}
