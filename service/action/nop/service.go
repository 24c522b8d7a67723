package nop

import "context"

const name = "nop"

// Service performs no operation and returns immediately.
type Service struct{}

// New creates a nop handler.
func New() *Service {
	return &Service{}
}

// Name returns the action name.
func (s *Service) Name() string {
	return name
}

// Handle does nothing.
func (s *Service) Handle(ctx context.Context, params map[string]string) (map[string]string, error) {
	return nil, nil
}
