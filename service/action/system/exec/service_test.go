package exec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestService_Handle(t *testing.T) {
	service := New()
	updates, err := service.Handle(context.Background(), map[string]string{
		"command": "echo hello",
	})
	assert.NoError(t, err)
	assert.Contains(t, updates["stdout"], "hello")
	assert.Equal(t, "0", updates["status"])
}

func TestService_HandleMissingCommand(t *testing.T) {
	service := New()
	_, err := service.Handle(context.Background(), map[string]string{})
	assert.Error(t, err)
}

func TestService_HandleInvalidTimeout(t *testing.T) {
	service := New()
	_, err := service.Handle(context.Background(), map[string]string{
		"command":   "echo hi",
		"timeoutMs": "soon",
	})
	assert.Error(t, err)
}
