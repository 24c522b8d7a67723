// Package fs provides a filesystem-backed position repository on top of
// viant/afs, so records survive restarts and can live on any afs scheme.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/viant/actflow/internal/clock"
	"github.com/viant/actflow/service/repository"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"
)

// Service stores one JSON record per workflow under a base URL.
type Service struct {
	baseURL string
	fs      afs.Service
	mu      sync.RWMutex
}

// Ensure Service implements repository.Repository
var _ repository.Repository = (*Service)(nil)

// GetByID reads the record file for the given workflow id.
func (s *Service) GetByID(ctx context.Context, id string) (*repository.Record, error) {
	if id == "" {
		return nil, repository.ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load(ctx, id)
}

// UpdateCurrentNode upserts the record file with the new position.
func (s *Service) UpdateCurrentNode(ctx context.Context, id, nodeID string) error {
	if id == "" {
		return fmt.Errorf("workflow id cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.load(ctx, id)
	if err != nil {
		if err != repository.ErrNotFound {
			return err
		}
		record = &repository.Record{ID: id, Name: id}
	}
	record.CurrentNode = nodeID
	record.UpdatedAt = clock.Now()
	return s.store(ctx, record)
}

// FindByNamePattern scans all record files, matching name substring and the
// since lower bound. Unreadable files are logged and skipped.
func (s *Service) FindByNamePattern(ctx context.Context, pattern string, since time.Time) ([]*repository.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objects, err := s.fs.List(ctx, s.baseURL, option.NewRecursive(true))
	if err != nil {
		return nil, fmt.Errorf("failed to list record files: %w", err)
	}
	var matched []*repository.Record
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			log.Printf("failed to read record file %s: %v", object.URL(), err)
			continue
		}
		var record repository.Record
		if err := json.Unmarshal(data, &record); err != nil {
			log.Printf("failed to decode record file %s: %v", object.URL(), err)
			continue
		}
		if !strings.Contains(record.Name, pattern) {
			continue
		}
		if !since.IsZero() && record.UpdatedAt.Before(since) {
			continue
		}
		matched = append(matched, &record)
	}
	return matched, nil
}

func (s *Service) load(ctx context.Context, id string) (*repository.Record, error) {
	location := s.recordURL(id)
	exists, err := s.fs.Exists(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to check record %s: %w", location, err)
	}
	if !exists {
		return nil, repository.ErrNotFound
	}
	data, err := s.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read record %s: %w", location, err)
	}
	var record repository.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode record %s: %w", location, err)
	}
	return &record, nil
}

func (s *Service) store(ctx context.Context, record *repository.Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	location := s.recordURL(record.ID)
	if err := s.fs.Upload(ctx, location, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write record %s: %w", location, err)
	}
	return nil
}

func (s *Service) recordURL(id string) string {
	return url.Join(s.baseURL, fmt.Sprintf("%s.json", id))
}

// New creates a filesystem repository rooted at baseURL, creating the
// directory when absent.
func New(baseURL string) (*Service, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	fs := afs.New()
	ctx := context.Background()
	exists, _ := fs.Exists(ctx, baseURL)
	if !exists {
		if err := fs.Create(ctx, baseURL, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", err)
		}
	}
	return &Service{
		baseURL: url.Normalize(baseURL, file.Scheme),
		fs:      fs,
	}, nil
}
