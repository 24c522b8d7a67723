// Package memory provides an in-process position repository, the default for
// tests and embedded use.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/viant/actflow/internal/clock"
	"github.com/viant/actflow/service/dao"
	"github.com/viant/actflow/service/repository"
)

// Service keeps workflow positions in a mutex-guarded map.
type Service struct {
	records map[string]*repository.Record
	mux     sync.RWMutex
}

// Ensure Service implements repository.Repository
var _ repository.Repository = (*Service)(nil)

// GetByID returns a copy of the stored record.
func (s *Service) GetByID(ctx context.Context, id string) (*repository.Record, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	record, ok := s.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *record
	return &clone, nil
}

// UpdateCurrentNode upserts the workflow position. A first update creates the
// record with the id doubling as its name; Save can set a display name.
func (s *Service) UpdateCurrentNode(ctx context.Context, id, nodeID string) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	record, ok := s.records[id]
	if !ok {
		record = &repository.Record{ID: id, Name: id}
		s.records[id] = record
	}
	record.CurrentNode = nodeID
	record.UpdatedAt = clock.Now()
	return nil
}

// FindByNamePattern returns records whose name contains pattern, updated at
// or after since. Pattern text is matched literally.
func (s *Service) FindByNamePattern(ctx context.Context, pattern string, since time.Time) ([]*repository.Record, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	var matched []*repository.Record
	for _, record := range s.records {
		if !strings.Contains(record.Name, pattern) {
			continue
		}
		if !since.IsZero() && record.UpdatedAt.Before(since) {
			continue
		}
		clone := *record
		matched = append(matched, &clone)
	}
	return matched, nil
}

// Save stores a full record, replacing any previous one.
func (s *Service) Save(ctx context.Context, record *repository.Record) error {
	if record == nil {
		return dao.ErrNilEntity
	}
	if record.ID == "" {
		return dao.ErrInvalidID
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	clone := *record
	s.records[record.ID] = &clone
	return nil
}

// New creates an empty in-memory repository.
func New() *Service {
	return &Service{records: map[string]*repository.Record{}}
}
