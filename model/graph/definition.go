package graph

import (
	"fmt"
	"sort"
	"strings"
)

// Definition represents a parsed workflow graph. Once stored it is treated as
// immutable; a changed diagram replaces the whole definition via re-import.
type Definition struct {
	// ID is the unique identifier for the workflow
	ID string `json:"id" yaml:"id"`

	// Name is a human-readable display name
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Nodes lists the nodes in declaration order
	Nodes []*Node `json:"nodes,omitempty" yaml:"nodes,omitempty"`

	// Transitions lists the directed edges in declaration order
	Transitions []*Transition `json:"transitions,omitempty" yaml:"transitions,omitempty"`

	// StartPoints lists the declared entry points; zero, one or many are valid
	StartPoints []*StartPoint `json:"startPoints,omitempty" yaml:"startPoints,omitempty"`
}

// Transition represents a directed edge between two nodes of one definition.
type Transition struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`

	// Condition carries a branch label or loop predicate; empty means
	// unconditional
	Condition string `json:"condition,omitempty" yaml:"condition,omitempty"`
}

// StartPoint marks a node as a workflow entry point.
type StartPoint struct {
	NodeID string `json:"nodeId" yaml:"nodeId"`
}

// Node returns the node with the given id or nil.
func (d *Definition) Node(id string) *Node {
	for _, node := range d.Nodes {
		if node.ID == id {
			return node
		}
	}
	return nil
}

// Outgoing returns the transitions leaving the given node in declaration
// order. Declaration order determines the meaning of a choice listing, so the
// returned slice must never be re-sorted by callers.
func (d *Definition) Outgoing(nodeID string) []*Transition {
	var out []*Transition
	for _, transition := range d.Transitions {
		if transition.From == nodeID {
			out = append(out, transition)
		}
	}
	return out
}

// Validate performs a best-effort structural validation of the definition.
// The returned slice is empty when the definition is sound; otherwise it
// contains human-readable error descriptions. No expressions are evaluated -
// only static properties are verified.
func (d *Definition) Validate() []error {
	var issues []error

	seen := map[string]bool{}
	for _, node := range d.Nodes {
		if node.ID == "" {
			issues = append(issues, fmt.Errorf("node with empty id"))
			continue
		}
		if seen[node.ID] {
			issues = append(issues, fmt.Errorf("duplicate node id %s", node.ID))
		}
		seen[node.ID] = true
	}

	for _, transition := range d.Transitions {
		if !seen[transition.From] {
			issues = append(issues, fmt.Errorf("transition from unknown node %s", transition.From))
		}
		if !seen[transition.To] {
			issues = append(issues, fmt.Errorf("transition to unknown node %s", transition.To))
		}
		if transition.From == transition.To && transition.Condition == "" {
			issues = append(issues, fmt.Errorf("unconditional self transition on node %s", transition.From))
		}
	}

	for _, start := range d.StartPoints {
		if !seen[start.NodeID] {
			issues = append(issues, fmt.Errorf("start point refers to unknown node %s", start.NodeID))
		}
	}
	return issues
}

// Equal reports whether two definitions are structurally identical: same
// name, same node set, same transition set and same start-point set. Node and
// transition comparison is set-based except that the relative order of
// transitions leaving one node is significant (it defines choice order).
func (d *Definition) Equal(other *Definition) bool {
	if d == nil || other == nil {
		return d == other
	}
	if d.Name != other.Name {
		return false
	}
	if len(d.Nodes) != len(other.Nodes) ||
		len(d.Transitions) != len(other.Transitions) ||
		len(d.StartPoints) != len(other.StartPoints) {
		return false
	}

	nodes := map[string]*Node{}
	for _, node := range d.Nodes {
		nodes[node.ID] = node
	}
	for _, node := range other.Nodes {
		counterpart, ok := nodes[node.ID]
		if !ok || !counterpart.equal(node) {
			return false
		}
	}

	starts := map[string]bool{}
	for _, start := range d.StartPoints {
		starts[start.NodeID] = true
	}
	for _, start := range other.StartPoints {
		if !starts[start.NodeID] {
			return false
		}
	}

	for _, node := range d.Nodes {
		left := d.Outgoing(node.ID)
		right := other.Outgoing(node.ID)
		if len(left) != len(right) {
			return false
		}
		for i := range left {
			if *left[i] != *right[i] {
				return false
			}
		}
	}
	return true
}

// Listing renders a stable textual summary of the definition, one line per
// node, transition and start point, used when logging a diff between a stored
// definition and its replacement.
func (d *Definition) Listing() []string {
	var lines []string
	for _, node := range d.Nodes {
		line := fmt.Sprintf("node %s label=%q", node.ID, node.Label)
		if node.Action != nil {
			line += fmt.Sprintf(" action=%s", node.Action.Name)
		}
		lines = append(lines, line)
	}
	for _, transition := range d.Transitions {
		line := fmt.Sprintf("edge %s -> %s", transition.From, transition.To)
		if transition.Condition != "" {
			line += fmt.Sprintf(" [%s]", transition.Condition)
		}
		lines = append(lines, line)
	}
	for _, start := range d.StartPoints {
		lines = append(lines, "start "+start.NodeID)
	}
	sort.Strings(lines)
	for i := range lines {
		lines[i] += "\n"
	}
	return lines
}

func (d *Definition) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "definition %s (%d nodes, %d transitions)", d.ID, len(d.Nodes), len(d.Transitions))
	return b.String()
}
