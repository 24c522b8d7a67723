package extension

import (
	"context"
	"reflect"

	"github.com/viant/actflow/model/types"
	"github.com/viant/structology/conv"
	"github.com/viant/x"
)

// Typed adapts a function taking a typed input struct to the Handler
// contract. The node's (already substituted) parameter map is converted into
// *T before invocation, so handlers can declare fields instead of poking at
// string maps.
type Typed[T any] struct {
	name      string
	converter *conv.Converter
	fn        func(ctx context.Context, input *T) (map[string]string, error)
}

// Name returns the handler name.
func (t *Typed[T]) Name() string { return t.name }

// Handle converts params into the typed input and delegates to the wrapped
// function.
func (t *Typed[T]) Handle(ctx context.Context, params map[string]string) (map[string]string, error) {
	input := new(T)
	if err := t.converter.Convert(params, input); err != nil {
		return nil, err
	}
	return t.fn(ctx, input)
}

// NewTyped creates a typed handler and records the input type in the supplied
// type registry so that tooling can discover it.
func NewTyped[T any](name string, registry *Types, fn func(ctx context.Context, input *T) (map[string]string, error)) types.Handler {
	options := conv.DefaultOptions()
	options.IgnoreUnmapped = true
	if registry != nil {
		registry.Register(x.NewType(reflect.TypeOf((*T)(nil)).Elem()))
	}
	return &Typed[T]{
		name:      name,
		converter: conv.NewConverter(options),
		fn:        fn,
	}
}
