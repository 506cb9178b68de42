package inmemory

import (
	"sync"
	"time"

	householddomain "housing-coop-go/internal/domain/household"
)

type InMemoryHouseholdCache struct {
	mu    sync.RWMutex
	items map[string]householdItem
	now   func() time.Time
}

type householdItem struct {
	value     householddomain.Household
	expiresAt time.Time
}

func NewInMemoryHouseholdCache() *InMemoryHouseholdCache {
	return &InMemoryHouseholdCache{
		items: make(map[string]householdItem),
		now:   time.Now,
	}
}

func (c *InMemoryHouseholdCache) Get(id string) (*householddomain.Household, bool) {
	now := c.now()

	c.mu.RLock()
	item, ok := c.items[id]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[id]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, id)
		}
		c.mu.Unlock()
		return nil, false
	}

	value := item.value
	return &value, true
}

func (c *InMemoryHouseholdCache) Set(id string, household *householddomain.Household, ttl time.Duration) {
	if household == nil || ttl <= 0 {
		c.Delete(id)
		return
	}

	c.mu.Lock()
	c.items[id] = householdItem{
		value:     *household,
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *InMemoryHouseholdCache) Delete(id string) {
	c.mu.Lock()
	delete(c.items, id)
	c.mu.Unlock()
}

func (c *InMemoryHouseholdCache) Clear() {
	c.mu.Lock()
	c.items = make(map[string]householdItem)
	c.mu.Unlock()
}

func (c *InMemoryHouseholdCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
