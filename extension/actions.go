package extension

import (
	"strings"
	"sync"

	"github.com/viant/actflow/model/types"
	"github.com/viant/x"
)

// Actions maps action names to handler factories. Lookups are
// case-insensitive; Register case-folds the name once so that lookup stays a
// single map access regardless of registry size.
type Actions struct {
	types     *Types
	factories map[string]types.Factory
	mux       sync.RWMutex
}

func (a *Actions) Types() *Types {
	return a.types
}

// Register binds a factory to an action name, overwriting any prior entry for
// the same case-folded name. Blank or whitespace-only names and nil factories
// are rejected.
func (a *Actions) Register(name string, factory types.Factory) error {
	if strings.TrimSpace(name) == "" {
		return types.NewInvalidNameError(name)
	}
	if factory == nil {
		return types.NewNilFactoryError(name)
	}
	a.mux.Lock()
	defer a.mux.Unlock()
	a.factories[strings.ToLower(name)] = factory
	return nil
}

// RegisterHandler binds a prototype handler under its own name; the factory
// returns the prototype itself, so the handler is shared across executions.
func (a *Actions) RegisterHandler(handler types.Handler) error {
	if handler == nil {
		return types.NewNilFactoryError("")
	}
	return a.Register(handler.Name(), func() types.Handler { return handler })
}

// LookupFactory returns the factory registered under name. Unknown or empty
// names report found=false; no lookup ever fails.
func (a *Actions) LookupFactory(name string) (types.Factory, bool) {
	a.mux.RLock()
	defer a.mux.RUnlock()
	factory, ok := a.factories[strings.ToLower(name)]
	return factory, ok
}

// NewActions creates a new action registry.
func NewActions(goTypes ...*x.Type) *Actions {
	ret := &Actions{
		types:     NewTypes(),
		factories: make(map[string]types.Factory),
	}
	for _, t := range goTypes {
		if t != nil {
			ret.types.Register(t)
		}
	}
	return ret
}
