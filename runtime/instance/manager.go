// Package instance tracks per-workflow runtime state: variables and current
// position. The manager is shared and mutated concurrently by many callers;
// state for distinct workflow ids is fully independent.
package instance

import (
	"sync"

	"github.com/viant/actflow/internal/idgen"
)

// Manager owns one Instance per workflow id.
type Manager struct {
	instances map[string]*Instance
	mux       sync.RWMutex
}

// NewManager creates an empty instance manager.
func NewManager() *Manager {
	return &Manager{instances: map[string]*Instance{}}
}

// Instance returns the instance for the given workflow id, creating it on
// first touch.
func (m *Manager) Instance(workflowID string) *Instance {
	m.mux.RLock()
	existing, ok := m.instances[workflowID]
	m.mux.RUnlock()
	if ok {
		return existing
	}

	m.mux.Lock()
	defer m.mux.Unlock()
	if existing, ok = m.instances[workflowID]; ok {
		return existing
	}
	created := &Instance{
		ID:         idgen.New(),
		WorkflowID: workflowID,
		variables:  map[string]string{},
	}
	m.instances[workflowID] = created
	return created
}

// SetVariable upserts one variable on the workflow's instance.
func (m *Manager) SetVariable(workflowID, key, value string) {
	m.Instance(workflowID).SetVariable(key, value)
}

// Variables returns an isolated, stable view of the workflow's variables.
func (m *Manager) Variables(workflowID string) map[string]string {
	return m.Instance(workflowID).Variables()
}

// MergeVariables applies all pairs to the workflow's instance.
func (m *Manager) MergeVariables(workflowID string, updates map[string]string) {
	m.Instance(workflowID).Merge(updates)
}

// CurrentNode returns the workflow's position, ok=false when unpositioned.
func (m *Manager) CurrentNode(workflowID string) (string, bool) {
	return m.Instance(workflowID).CurrentNode()
}

// SetCurrentNode moves the workflow's position.
func (m *Manager) SetCurrentNode(workflowID, nodeID string) {
	m.Instance(workflowID).SetCurrentNode(nodeID)
}

// ClearCurrentNode drops the workflow's position, keeping variables intact.
func (m *Manager) ClearCurrentNode(workflowID string) {
	m.Instance(workflowID).ClearCurrentNode()
}
