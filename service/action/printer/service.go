package printer

import (
	"context"
	"fmt"
	"io"
	"os"
)

const name = "printer.print"

// Service prints the message parameter to its writer.
type Service struct {
	writer io.Writer
}

// New creates a printer handler writing to standard output.
func New() *Service {
	return &Service{writer: os.Stdout}
}

// NewWithWriter creates a printer handler with a custom writer.
func NewWithWriter(writer io.Writer) *Service {
	return &Service{writer: writer}
}

// Name returns the action name.
func (s *Service) Name() string {
	return name
}

// Handle prints the message parameter, post substitution, and returns no
// variable updates.
func (s *Service) Handle(ctx context.Context, params map[string]string) (map[string]string, error) {
	if _, err := fmt.Fprintln(s.writer, params["message"]); err != nil {
		return nil, err
	}
	return nil, nil
}
