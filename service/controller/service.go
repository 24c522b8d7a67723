// Package controller drives workflow instances across their definition
// graphs: it imports diagram text, computes the observable state, applies the
// auto-advance rule and takes explicit choices, persisting every position
// move through the repository collaborator.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/viant/actflow/model/graph"
	"github.com/viant/actflow/runtime/instance"
	"github.com/viant/actflow/service/dao"
	"github.com/viant/actflow/service/executor"
	"github.com/viant/actflow/service/parser"
	"github.com/viant/actflow/service/repository"
)

var (
	// ErrUnknownWorkflow is returned when no definition is stored for the id.
	ErrUnknownWorkflow = errors.New("controller: unknown workflow")

	// ErrInvalidChoice is returned when the workflow is not at a choice point
	// or the selector does not name one of its options. State is unchanged.
	ErrInvalidChoice = errors.New("controller: invalid choice")
)

// Choice is one selectable transition at a choice point.
type Choice struct {
	// Condition carries the transition's condition or branch label.
	Condition string

	// Target is the id of the node the choice leads to; it is also the
	// selector accepted by AdvanceByChoice.
	Target string
}

// State is the observable position of a workflow.
type State struct {
	NodeID    string
	Completed bool
	IsChoice  bool
	Choices   []Choice
}

// Service coordinates definitions, instances, action execution and position
// persistence. Advancing is serialized per workflow id.
type Service struct {
	definitions dao.Service[string, graph.Definition]
	instances   *instance.Manager
	executor    executor.Service
	repository  repository.Repository
	locks       *locks
}

// New creates a controller over the given collaborators.
func New(definitions dao.Service[string, graph.Definition], instances *instance.Manager, exec executor.Service, repo repository.Repository) *Service {
	return &Service{
		definitions: definitions,
		instances:   instances,
		executor:    exec,
		repository:  repo,
		locks:       newLocks(),
	}
}

// Import parses diagram text and installs it under the given id. When a
// structurally identical definition is already stored, the existing one is
// returned with no store or persistence writes. A changed definition is
// logged as a unified diff, replaces the stored one, clears the position and
// re-runs the initial advance cycle.
func (s *Service) Import(ctx context.Context, text, id, name string) (*graph.Definition, error) {
	if strings.TrimSpace(id) == "" {
		return nil, dao.ErrInvalidID
	}
	unlock := s.locks.lock(id)
	defer unlock()

	definition, err := parser.Parse([]byte(text), id, name)
	if err != nil {
		return nil, err
	}

	existing, err := s.definitions.Load(ctx, id)
	if err != nil && !errors.Is(err, dao.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		if existing.Equal(definition) {
			return existing, nil
		}
		s.logDefinitionDiff(id, existing, definition)
	}

	// run the initial cycle before storing, so a failed persistence write
	// leaves the store untouched and the import safe to retry
	s.instances.ClearCurrentNode(id)
	if err := s.runInitialCycle(ctx, id, definition); err != nil {
		return nil, err
	}
	if err := s.definitions.Save(ctx, definition); err != nil {
		return nil, err
	}
	return definition, nil
}

// State returns the observable position of the workflow. An unpositioned
// instance is restored from the repository record when one exists.
func (s *Service) State(ctx context.Context, workflowID string) (*State, error) {
	unlock := s.locks.lock(workflowID)
	defer unlock()

	definition, err := s.definition(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	current, positioned := s.position(ctx, workflowID, definition)
	if !positioned {
		return nil, fmt.Errorf("workflow %s has no position: %w", workflowID, ErrUnknownWorkflow)
	}
	return s.stateAt(definition, current), nil
}

// AdvanceByChoice takes the choice-point transition leading to target: the
// position moves, is persisted, the entered node's action runs and
// auto-advance resumes. Outside a choice point or for an unknown target the
// call fails with ErrInvalidChoice and no state change.
func (s *Service) AdvanceByChoice(ctx context.Context, workflowID, target string) error {
	unlock := s.locks.lock(workflowID)
	defer unlock()

	definition, err := s.definition(ctx, workflowID)
	if err != nil {
		return err
	}
	current, positioned := s.position(ctx, workflowID, definition)
	if !positioned {
		return fmt.Errorf("workflow %s has no position: %w", workflowID, ErrUnknownWorkflow)
	}

	state := s.stateAt(definition, current)
	if !state.IsChoice {
		return fmt.Errorf("workflow %s is not at a choice point (node %s): %w", workflowID, current, ErrInvalidChoice)
	}
	selected := ""
	for _, choice := range state.Choices {
		if choice.Target == target {
			selected = choice.Target
			break
		}
	}
	if selected == "" {
		return fmt.Errorf("node %s has no choice leading to %s: %w", current, target, ErrInvalidChoice)
	}

	proceed, err := s.moveTo(ctx, workflowID, definition, selected)
	if err != nil {
		return err
	}
	if !proceed {
		return nil
	}
	return s.autoAdvance(ctx, workflowID, definition)
}

// definition loads the stored definition, mapping a missing one to
// ErrUnknownWorkflow.
func (s *Service) definition(ctx context.Context, workflowID string) (*graph.Definition, error) {
	definition, err := s.definitions.Load(ctx, workflowID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, fmt.Errorf("workflow %s: %w", workflowID, ErrUnknownWorkflow)
		}
		return nil, err
	}
	return definition, nil
}

// position returns the instance's current node, restoring it from the
// repository record after a restart.
func (s *Service) position(ctx context.Context, workflowID string, definition *graph.Definition) (string, bool) {
	if current, ok := s.instances.CurrentNode(workflowID); ok {
		return current, true
	}
	record, err := s.repository.GetByID(ctx, workflowID)
	if err != nil || record == nil || record.CurrentNode == "" {
		return "", false
	}
	if definition.Node(record.CurrentNode) == nil {
		return "", false
	}
	s.instances.SetCurrentNode(workflowID, record.CurrentNode)
	return record.CurrentNode, true
}

func (s *Service) stateAt(definition *graph.Definition, nodeID string) *State {
	outgoing := definition.Outgoing(nodeID)
	state := &State{NodeID: nodeID}
	switch {
	case len(outgoing) == 0:
		state.Completed = true
	case len(outgoing) == 1 && outgoing[0].Condition == "":
		// auto-advance already consumed this edge; being here means the
		// target is where we are, not a pending option
	default:
		state.IsChoice = true
		for _, transition := range outgoing {
			state.Choices = append(state.Choices, Choice{
				Condition: transition.Condition,
				Target:    transition.To,
			})
		}
	}
	return state
}

// runInitialCycle positions the instance at the resolved start node and runs
// the advance cycle. An empty definition leaves the instance unpositioned.
func (s *Service) runInitialCycle(ctx context.Context, workflowID string, definition *graph.Definition) error {
	start := resolveStart(definition)
	if start == "" {
		return nil
	}
	proceed, err := s.moveTo(ctx, workflowID, definition, start)
	if err != nil {
		return err
	}
	if !proceed {
		return nil
	}
	return s.autoAdvance(ctx, workflowID, definition)
}

// autoAdvance follows single unconditional outgoing edges until reaching a
// terminal node, a choice point or a faulting action. A node is never
// entered twice within one cycle, so explicit unconditional cycles
// terminate promptly.
func (s *Service) autoAdvance(ctx context.Context, workflowID string, definition *graph.Definition) error {
	visited := map[string]bool{}
	for {
		current, ok := s.instances.CurrentNode(workflowID)
		if !ok {
			return nil
		}
		visited[current] = true
		outgoing := definition.Outgoing(current)
		if len(outgoing) != 1 || outgoing[0].Condition != "" {
			return nil
		}
		if visited[outgoing[0].To] {
			return nil
		}
		proceed, err := s.moveTo(ctx, workflowID, definition, outgoing[0].To)
		if err != nil {
			return err
		}
		if !proceed {
			return nil
		}
	}
}

// moveTo persists the new position, updates the instance and executes the
// entered node's action. Persistence failures surface before any in-memory
// change, so the call is safe to retry. A faulting or cancelled action stops
// further advancing: proceed is false and the workflow stays observable at
// the entered node. A skipped action (missing handler) still proceeds.
func (s *Service) moveTo(ctx context.Context, workflowID string, definition *graph.Definition, nodeID string) (proceed bool, err error) {
	if err := s.repository.UpdateCurrentNode(ctx, workflowID, nodeID); err != nil {
		return false, fmt.Errorf("failed to persist position of %s: %w", workflowID, err)
	}
	s.instances.SetCurrentNode(workflowID, nodeID)
	if node := definition.Node(nodeID); node != nil && node.Action != nil {
		if result := s.executor.Execute(ctx, workflowID, node.Action); result.Err != nil {
			return false, nil
		}
	}
	return true, nil
}

// resolveStart picks the first start point's node, else the first declared
// node. A cosmetic start marker with a single outgoing edge is skipped in
// favour of its target.
func resolveStart(definition *graph.Definition) string {
	var candidate *graph.Node
	if len(definition.StartPoints) > 0 {
		candidate = definition.Node(definition.StartPoints[0].NodeID)
	}
	if candidate == nil && len(definition.Nodes) > 0 {
		candidate = definition.Nodes[0]
	}
	if candidate == nil {
		return ""
	}
	if isStartMarker(candidate) {
		if outgoing := definition.Outgoing(candidate.ID); len(outgoing) == 1 {
			return outgoing[0].To
		}
	}
	return candidate.ID
}

// isStartMarker reports a cosmetic start node: blank label, label "start" or
// an id beginning with "start".
func isStartMarker(node *graph.Node) bool {
	label := strings.TrimSpace(node.Label)
	if label == "" || strings.EqualFold(label, "start") {
		return true
	}
	return strings.HasPrefix(strings.ToLower(node.ID), "start")
}

func (s *Service) logDefinitionDiff(id string, previous, next *graph.Definition) {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        previous.Listing(),
		B:        next.Listing(),
		FromFile: fmt.Sprintf("%s (stored)", id),
		ToFile:   fmt.Sprintf("%s (imported)", id),
		Context:  3,
	})
	if err != nil {
		log.Printf("failed to diff definition %s: %v", id, err)
		return
	}
	log.Printf("definition %s changed:\n%s", id, diff)
}
