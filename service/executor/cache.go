package executor

import (
	"strings"
	"sync"

	"github.com/viant/actflow/model/types"
)

// handlerCache keeps one handler per action name for unscoped execution.
type handlerCache struct {
	handlers map[string]types.Handler
	mux      sync.RWMutex
}

func (c *handlerCache) lookup(name string) (types.Handler, bool) {
	c.mux.RLock()
	defer c.mux.RUnlock()
	handler, ok := c.handlers[strings.ToLower(name)]
	return handler, ok
}

func (c *handlerCache) store(name string, handler types.Handler) {
	c.mux.Lock()
	defer c.mux.Unlock()
	c.handlers[strings.ToLower(name)] = handler
}

func newHandlerCache() *handlerCache {
	return &handlerCache{handlers: map[string]types.Handler{}}
}
