// Package repository defines the persistence collaborator for workflow
// positions. The engine only talks to the Repository interface; memory and
// filesystem implementations live in the sub packages.
package repository

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no record exists for the requested workflow.
var ErrNotFound = errors.New("repository: record not found")

// Record is a persisted workflow position.
type Record struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CurrentNode string    `json:"currentNode"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Repository persists workflow positions.
type Repository interface {
	// GetByID returns the record for the given workflow id or ErrNotFound.
	GetByID(ctx context.Context, id string) (*Record, error)

	// UpdateCurrentNode upserts the position of the given workflow and
	// refreshes its update time.
	UpdateCurrentNode(ctx context.Context, id, nodeID string) error

	// FindByNamePattern returns records whose name contains pattern and whose
	// last update is not before since. A zero since matches any time.
	FindByNamePattern(ctx context.Context, pattern string, since time.Time) ([]*Record, error)
}
