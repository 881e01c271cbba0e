package analysis

import (
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/xtding233/luck-curve/internal/luck"
)

// Cache memoizes evaluated rows for a fixed model.
// Purge it whenever the model changes.
type Cache struct {
	lru *expirable.LRU[string, Row]
}

// NewCache creates a cache holding at most size rows for ttl each.
func NewCache(size int, ttl time.Duration) *Cache {
	return &Cache{lru: expirable.NewLRU[string, Row](size, nil, ttl)}
}

func cacheKey(label string, level int, f luck.Formula) string {
	return fmt.Sprintf("%s|%T:%s|%d", label, f, Describe(f), level)
}

// Evaluate returns the cached row or runs the pipeline; hit reports which.
func (c *Cache) Evaluate(m Model, label string, level int, f luck.Formula) (row Row, hit bool, err error) {
	key := cacheKey(label, level, f)
	if row, ok := c.lru.Get(key); ok {
		return row, true, nil
	}
	row, err = Evaluate(m, label, level, f)
	if err != nil {
		return Row{}, false, err
	}
	c.lru.Add(key, row)
	return row, false, nil
}

// Purge drops every cached row.
func (c *Cache) Purge() { c.lru.Purge() }

// Len is the number of cached rows.
func (c *Cache) Len() int { return c.lru.Len() }
