package instance

import (
	"sync"
)

// Instance holds the mutable runtime state for one workflow id: its current
// position and its variables. Instances are never implicitly destroyed; their
// lifetime matches the owning manager.
type Instance struct {
	// ID is a unique run identifier assigned on first touch
	ID string

	// WorkflowID keys the instance
	WorkflowID string

	currentNode string
	positioned  bool
	variables   map[string]string
	mu          sync.RWMutex
}

// SetVariable upserts one variable. Concurrent writers to the same key are
// serialized; exactly one of the racing values wins, never a torn value.
func (i *Instance) SetVariable(key, value string) {
	i.mu.Lock()
	i.variables[key] = value
	i.mu.Unlock()
}

// Variables returns an isolated copy of the instance's variables; later
// writes never leak into the returned map.
func (i *Instance) Variables() map[string]string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	result := make(map[string]string, len(i.variables))
	for k, v := range i.variables {
		result[k] = v
	}
	return result
}

// Merge applies all key/value pairs to the instance's variables.
func (i *Instance) Merge(updates map[string]string) {
	if len(updates) == 0 {
		return
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	for k, v := range updates {
		i.variables[k] = v
	}
}

// CurrentNode returns the instance position; ok is false when the instance is
// unpositioned.
func (i *Instance) CurrentNode() (string, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.currentNode, i.positioned
}

// SetCurrentNode moves the instance position.
func (i *Instance) SetCurrentNode(nodeID string) {
	i.mu.Lock()
	i.currentNode = nodeID
	i.positioned = true
	i.mu.Unlock()
}

// ClearCurrentNode drops the position without discarding variables.
func (i *Instance) ClearCurrentNode() {
	i.mu.Lock()
	i.currentNode = ""
	i.positioned = false
	i.mu.Unlock()
}
