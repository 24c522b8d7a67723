package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/viant/actflow/model/graph"
	"github.com/viant/actflow/service/dao"
)

// Service implements an in-memory, thread-safe store for workflow
// definitions. Save is insert-or-overwrite by id; concurrent traffic across
// distinct ids never interferes.
type Service struct {
	definitions map[string]*graph.Definition
	mux         sync.RWMutex
}

var _ dao.Service[string, graph.Definition] = (*Service)(nil)

func (s *Service) Save(_ context.Context, definition *graph.Definition) error {
	if definition == nil {
		return dao.ErrNilEntity
	}
	if definition.ID == "" {
		return dao.ErrInvalidID
	}

	s.mux.Lock()
	defer s.mux.Unlock()
	s.definitions[definition.ID] = definition
	return nil
}

func (s *Service) Load(_ context.Context, id string) (*graph.Definition, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	s.mux.RLock()
	definition, ok := s.definitions[id]
	s.mux.RUnlock()

	if !ok {
		return nil, dao.ErrNotFound
	}
	return definition, nil
}

func (s *Service) Delete(_ context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	if _, ok := s.definitions[id]; !ok {
		return dao.ErrNotFound
	}
	delete(s.definitions, id)
	return nil
}

func (s *Service) List(_ context.Context, parameters ...*dao.Parameter) ([]*graph.Definition, error) {
	var name string
	for _, parameter := range parameters {
		if parameter.Name == "name" {
			if value, ok := parameter.Value.(string); ok {
				name = value
			}
		}
	}

	s.mux.RLock()
	defer s.mux.RUnlock()

	out := make([]*graph.Definition, 0, len(s.definitions))
	for _, definition := range s.definitions {
		if name != "" && !strings.Contains(definition.Name, name) {
			continue
		}
		out = append(out, definition)
	}
	return out, nil
}

func New() *Service {
	return &Service{definitions: map[string]*graph.Definition{}}
}
