package types

import "context"

// Handler is the plugin surface of the engine: a named unit of side-effecting
// logic bound to a node by action name. Handle receives the node's parameter
// map after template substitution and returns variable updates to merge into
// the workflow instance; a nil result means "no updates". Cancellation of ctx
// must abort the handler's effect.
type Handler interface {
	Name() string
	Handle(ctx context.Context, params map[string]string) (map[string]string, error)
}

// Factory produces a handler instance. In scoped execution mode the factory
// runs once per action execution; in unscoped mode its first product is
// reused.
type Factory func() Handler

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc struct {
	HandlerName string
	Fn          func(ctx context.Context, params map[string]string) (map[string]string, error)
}

// Name returns the handler name.
func (h HandlerFunc) Name() string { return h.HandlerName }

// Handle invokes the wrapped function.
func (h HandlerFunc) Handle(ctx context.Context, params map[string]string) (map[string]string, error) {
	return h.Fn(ctx, params)
}

// NewHandler wraps fn as a Handler with the given name.
func NewHandler(name string, fn func(ctx context.Context, params map[string]string) (map[string]string, error)) Handler {
	return HandlerFunc{HandlerName: name, Fn: fn}
}
