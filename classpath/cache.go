package classpath

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/dhamidi/javasem/classfile"
)

// Finder decodes classes by internal name.
type Finder interface {
	FindClass(internalName string) (*classfile.ClassFile, error)
}

type cached struct {
	class *classfile.ClassFile
	err   error
}

// Cache memoizes decoded classes, including failures, across analysis
// sessions. Concurrent requests for the same class share one decode.
// Decoded class files are never mutated after they are cached.
type Cache struct {
	finder Finder
	group  singleflight.Group
	mu     sync.RWMutex
	items  map[string]cached
	loads  atomic.Int64
}

func NewCache(finder Finder) *Cache {
	return &Cache{finder: finder, items: map[string]cached{}}
}

func (c *Cache) FindClass(internalName string) (*classfile.ClassFile, error) {
	c.mu.RLock()
	item, ok := c.items[internalName]
	c.mu.RUnlock()
	if ok {
		return item.class, item.err
	}
	v, _, _ := c.group.Do(internalName, func() (any, error) {
		c.mu.RLock()
		item, ok := c.items[internalName]
		c.mu.RUnlock()
		if ok {
			return item, nil
		}
		c.loads.Add(1)
		cf, err := c.finder.FindClass(internalName)
		item = cached{class: cf, err: err}
		c.mu.Lock()
		c.items[internalName] = item
		c.mu.Unlock()
		return item, nil
	})
	item = v.(cached)
	return item.class, item.err
}

// Loads reports how many times the underlying finder was consulted.
func (c *Cache) Loads() int64 {
	return c.loads.Load()
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
