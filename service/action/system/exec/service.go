// Package exec runs shell commands through a local gosh runner. The handler
// understands `command` and `timeoutMs` parameters and exposes the captured
// stdout and exit status as workflow variables.
package exec

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/viant/gosh"
	"github.com/viant/gosh/runner"
	"github.com/viant/gosh/runner/local"
	"github.com/viant/toolbox"
)

const name = "system.exec"

const defaultTimeout = time.Minute

// Service executes terminal commands on the local system.
type Service struct {
	service *gosh.Service
	mux     sync.Mutex
}

// New creates a new Service instance.
func New() *Service {
	return &Service{}
}

// Name returns the action name.
func (s *Service) Name() string {
	return name
}

// Handle runs the command parameter and returns stdout and status variables.
// An optional timeoutMs parameter bounds the run; zero or absent falls back
// to one minute.
func (s *Service) Handle(ctx context.Context, params map[string]string) (map[string]string, error) {
	command := params["command"]
	if command == "" {
		return nil, fmt.Errorf("command parameter is required")
	}

	timeout := defaultTimeout
	if value := params["timeoutMs"]; value != "" {
		millis, err := toolbox.ToInt(value)
		if err != nil {
			return nil, fmt.Errorf("invalid timeoutMs %q: %w", value, err)
		}
		if millis > 0 {
			timeout = time.Duration(millis) * time.Millisecond
		}
	}

	session, err := s.session(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create shell session: %w", err)
	}

	stdout, status, err := session.Run(ctx, command, runner.WithTimeout(int(timeout.Milliseconds())))
	if err != nil {
		return nil, fmt.Errorf("command %q failed: %w", command, err)
	}
	return map[string]string{
		"stdout": stdout,
		"status": strconv.Itoa(status),
	}, nil
}

func (s *Service) session(ctx context.Context) (*gosh.Service, error) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.service != nil {
		return s.service, nil
	}
	service, err := gosh.New(ctx, local.New())
	if err != nil {
		return nil, err
	}
	s.service = service
	return service, nil
}
