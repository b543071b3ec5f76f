package inmemory

import (
	"sync"
	"time"

	userdomain "finance-dashboard-go/internal/domain/user"
)

type UserCache struct {
	mu    sync.RWMutex
	items map[string]userItem
	now   func() time.Time
}

type userItem struct {
	value     userdomain.User
	expiresAt time.Time
}

func NewUserCache() *UserCache {
	return &UserCache{
		items: make(map[string]userItem),
		now:   time.Now,
	}
}

func (c *UserCache) GetByUserID(userID string) (*userdomain.User, bool) {
	now := c.now()

	c.mu.RLock()
	item, ok := c.items[userID]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[userID]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, userID)
		}
		c.mu.Unlock()
		return nil, false
	}

	value := item.value
	return &value, true
}

func (c *UserCache) SetByUserID(userID string, user *userdomain.User, ttl time.Duration) {
	if user == nil || ttl <= 0 {
		c.DeleteByUserID(userID)
		return
	}

	c.mu.Lock()
	c.items[userID] = userItem{
		value:     *user,
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *UserCache) DeleteByUserID(userID string) {
	c.mu.Lock()
	delete(c.items, userID)
	c.mu.Unlock()
}

func (c *UserCache) Clear() {
	c.mu.Lock()
	c.items = make(map[string]userItem)
	c.mu.Unlock()
}

func (c *UserCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
