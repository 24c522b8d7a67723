package extension

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTyped(t *testing.T) {
	type greetInput struct {
		Message string `json:"message"`
		Times   int    `json:"times"`
	}

	registry := NewTypes()
	handler := NewTyped("greet", registry, func(ctx context.Context, input *greetInput) (map[string]string, error) {
		out := ""
		for i := 0; i < input.Times; i++ {
			out += input.Message
		}
		return map[string]string{"greeting": out}, nil
	})
	assert.Equal(t, "greet", handler.Name())

	updates, err := handler.Handle(context.Background(), map[string]string{
		"message":  "hi",
		"times":    "2",
		"unmapped": "ignored",
	})
	assert.NoError(t, err)
	assert.Equal(t, "hihi", updates["greeting"])
}
