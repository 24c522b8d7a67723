package actflow

import (
	"context"
	"time"

	"github.com/viant/actflow/model/graph"
	"github.com/viant/actflow/service/controller"
	"github.com/viant/actflow/service/repository"
)

// Runtime is the high-level facade end-users interact with: importing
// workflow documents, querying state and taking choices.
type Runtime struct {
	service *Service
}

// Import parses diagram text and installs it under id, running the initial
// advance cycle. Re-importing identical text returns the stored definition
// with no writes.
func (r *Runtime) Import(ctx context.Context, text, id, name string) (*graph.Definition, error) {
	return r.service.controller.Import(ctx, text, id, name)
}

// LoadAndImport loads diagram text from the document source and imports it.
func (r *Runtime) LoadAndImport(ctx context.Context, location, id, name string) (*graph.Definition, error) {
	text, err := r.service.metaService.Load(ctx, location)
	if err != nil {
		return nil, err
	}
	return r.Import(ctx, text, id, name)
}

// RefreshDefinition discards any cached copy of the document at the given
// location; the next LoadAndImport rereads it from storage.
func (r *Runtime) RefreshDefinition(location string) {
	r.service.metaService.Refresh(location)
}

// UpsertDefinition stores document text in the source cache under location
// for immediate availability. Empty text falls back to a lazy refresh.
func (r *Runtime) UpsertDefinition(location, text string) {
	if text == "" {
		r.service.metaService.Refresh(location)
		return
	}
	r.service.metaService.Upsert(location, text)
}

// State returns the observable position of the workflow.
func (r *Runtime) State(ctx context.Context, workflowID string) (*controller.State, error) {
	return r.service.controller.State(ctx, workflowID)
}

// AdvanceByChoice takes the choice-point transition leading to the target
// node id.
func (r *Runtime) AdvanceByChoice(ctx context.Context, workflowID, target string) error {
	return r.service.controller.AdvanceByChoice(ctx, workflowID, target)
}

// SetVariable sets a workflow instance variable.
func (r *Runtime) SetVariable(workflowID, key, value string) {
	r.service.instances.SetVariable(workflowID, key, value)
}

// Variables returns an isolated copy of the workflow's variables.
func (r *Runtime) Variables(workflowID string) map[string]string {
	return r.service.instances.Variables(workflowID)
}

// Records returns persisted positions whose workflow name contains pattern
// and whose last update is not before since.
func (r *Runtime) Records(ctx context.Context, pattern string, since time.Time) ([]*repository.Record, error) {
	return r.service.repository.FindByNamePattern(ctx, pattern, since)
}
