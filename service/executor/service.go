// Package executor invokes node actions against workflow instances. The
// service resolves the registered handler, expands {{name}} templates in
// action parameters from instance variables and merges returned updates back
// into the instance. Handler faults and cancellations are contained per node.
package executor

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/viant/actflow/extension"
	"github.com/viant/actflow/model/expander"
	"github.com/viant/actflow/model/graph"
	"github.com/viant/actflow/model/types"
	"github.com/viant/actflow/runtime/instance"
	"github.com/viant/actflow/tracing"
)

// Listener is invoked once an action completes, successfully or not.
// Implementations can log, collect metrics or perform any other side-effects
// they require.
type Listener func(workflowID string, action *graph.Action, result Result)

// Result describes the outcome of one action execution.
type Result struct {
	// Skipped reports that no handler was registered for the action name.
	Skipped bool

	// Updates holds the variable updates merged into the instance.
	Updates map[string]string

	// Err is the contained execution failure, if any.
	Err error

	// Elapsed is the handler invocation time.
	Elapsed time.Duration
}

// Option customises the executor instance.
type Option func(*service)

// WithListener overrides the listener invoked after every executed action.
// Passing nil disables the callback entirely.
func WithListener(l Listener) Option {
	return func(s *service) {
		s.listener = l
	}
}

// WithScoped toggles scoped execution: when on, the handler factory runs once
// per execution so every invocation sees a fresh handler.
func WithScoped(scoped bool) Option {
	return func(s *service) {
		s.scoped = scoped
	}
}

// WithElapsedLogging turns on per-execution elapsed time logging.
func WithElapsedLogging(enabled bool) Option {
	return func(s *service) {
		s.logElapsed = enabled
	}
}

// Service executes node actions for workflow instances.
type Service interface {
	Execute(ctx context.Context, workflowID string, action *graph.Action) Result
}

type service struct {
	actions    *extension.Actions
	instances  *instance.Manager
	listener   Listener
	scoped     bool
	logElapsed bool

	cached *handlerCache
}

// Execute runs the action for the given workflow. A missing handler is a
// logged no-op success; handler faults and context cancellation are contained
// and reported in the result without merging any variables.
func (s *service) Execute(ctx context.Context, workflowID string, action *graph.Action) Result {
	if action == nil || action.Name == "" {
		return Result{Skipped: true}
	}

	ctx, span := tracing.StartSpan(ctx, fmt.Sprintf("action/%s", action.Name), "INTERNAL")
	span.WithAttributes(map[string]string{"workflow.id": workflowID, "action.name": action.Name})

	result := s.execute(ctx, workflowID, action)
	tracing.EndSpan(span, result.Err)

	if s.listener != nil {
		s.listener(workflowID, action, result)
	}
	return result
}

func (s *service) execute(ctx context.Context, workflowID string, action *graph.Action) Result {
	handler, err := s.handler(action.Name)
	if err != nil {
		log.Printf("no handler registered for action %q (workflow %s): skipping", action.Name, workflowID)
		return Result{Skipped: true}
	}

	variables := s.instances.Variables(workflowID)
	params := expander.ExpandParams(action.Params, variables)

	started := time.Now()
	updates, err := s.invoke(ctx, handler, params)
	elapsed := time.Since(started)
	if s.logElapsed {
		log.Printf("action %q (workflow %s) took %s", action.Name, workflowID, elapsed)
	}

	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		log.Printf("action %q (workflow %s) failed: %v", action.Name, workflowID, err)
		return Result{Err: err, Elapsed: elapsed}
	}

	if len(updates) > 0 {
		s.instances.MergeVariables(workflowID, updates)
	}
	return Result{Updates: updates, Elapsed: elapsed}
}

// invoke calls the handler, converting a panic into a handler fault error so
// a misbehaving handler cannot take the engine down.
func (s *service) invoke(ctx context.Context, handler types.Handler, params map[string]string) (updates map[string]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = types.NewHandlerFaultError(handler.Name(), fmt.Errorf("panic: %v", r))
		}
	}()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return handler.Handle(ctx, params)
}

// handler resolves the handler for an action name. In scoped mode, the
// factory runs on every call; otherwise, the first product is cached for the
// executor's lifetime.
func (s *service) handler(name string) (types.Handler, error) {
	if !s.scoped {
		if cached, ok := s.cached.lookup(name); ok {
			return cached, nil
		}
	}
	factory, ok := s.actions.LookupFactory(name)
	if !ok {
		return nil, fmt.Errorf("handler %q not registered", name)
	}
	handler := factory()
	if handler == nil {
		return nil, types.NewNilFactoryError(name)
	}
	if !s.scoped {
		s.cached.store(name, handler)
	}
	return handler, nil
}

// New creates an action executor backed by the given registry and instance
// manager.
func New(actions *extension.Actions, instances *instance.Manager, options ...Option) Service {
	ret := &service{
		actions:   actions,
		instances: instances,
		cached:    newHandlerCache(),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}
