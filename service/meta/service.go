// Package meta loads workflow diagram documents from any afs location with a
// process-level cache, so repeated imports of the same location avoid
// storage round trips.
package meta

import (
	"context"
	"fmt"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
)

// Service is a cached document source rooted at a base URL.
type Service struct {
	fs        afs.Service
	baseURL   string
	fsOptions []storage.Option
	cache     map[string]string
	mux       sync.RWMutex
}

// Load returns the document at location (joined with the base URL unless
// absolute), serving from cache when present. ${env.KEY} expressions in the
// document are expanded on first load.
func (s *Service) Load(ctx context.Context, location string) (string, error) {
	s.mux.RLock()
	cached, ok := s.cache[location]
	s.mux.RUnlock()
	if ok {
		return cached, nil
	}

	URL := s.normalizeURL(location)
	data, err := s.fs.DownloadWithURL(ctx, URL, s.fsOptions...)
	if err != nil {
		return "", fmt.Errorf("failed to load document %s: %w", URL, err)
	}
	document := expandEnvExpr(string(data))

	s.mux.Lock()
	s.cache[location] = document
	s.mux.Unlock()
	return document, nil
}

// Refresh drops the cached copy of location so the next Load rereads it.
func (s *Service) Refresh(location string) {
	s.mux.Lock()
	delete(s.cache, location)
	s.mux.Unlock()
}

// Upsert seeds or replaces the cached document for location without touching
// storage.
func (s *Service) Upsert(location, document string) {
	s.mux.Lock()
	s.cache[location] = document
	s.mux.Unlock()
}

func (s *Service) normalizeURL(location string) string {
	if s.baseURL == "" || !url.IsRelative(location) {
		return location
	}
	return url.Join(s.baseURL, location)
}

// New creates a document source; baseURL may be empty, in which case
// locations are used as-is.
func New(fs afs.Service, baseURL string, options ...storage.Option) *Service {
	return &Service{
		fs:        fs,
		baseURL:   baseURL,
		fsOptions: options,
		cache:     map[string]string{},
	}
}
