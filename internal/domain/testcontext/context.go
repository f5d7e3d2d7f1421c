// Package testcontext holds state shared by the page objects of one test scenario.
package testcontext

import (
	"sync"

	"github.com/google/uuid"
)

type Context struct {
	id     string
	mu     sync.RWMutex
	values map[string]any
}

func New() *Context {
	return &Context{
		id:     uuid.NewString(),
		values: make(map[string]any),
	}
}

// ID identifies the scenario run; evidence files are grouped by it.
func (c *Context) ID() string {
	return c.id
}

func (c *Context) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
}

func (c *Context) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key]
	return v, ok
}

func (c *Context) GetString(key string) string {
	v, ok := c.Get(key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func (c *Context) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
}

func (c *Context) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	return keys
}
