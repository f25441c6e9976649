package forms

import "sync"

/**
 * Session scoped record of server checked usernames and emails
 * @description
 * - Maps the checked string to "available"
 * - Absence means the value has not been checked and cannot be verified
 * - Entries are never evicted for the lifetime of the session
 */
type AvailabilityCache struct {
	mu        sync.RWMutex
	usernames map[string]bool
	emails    map[string]bool
}

func NewAvailabilityCache() *AvailabilityCache {
	return &AvailabilityCache{
		usernames: make(map[string]bool),
		emails:    make(map[string]bool),
	}
}

// Username returns the cached availability and whether name was checked.
func (c *AvailabilityCache) Username(name string) (available bool, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	available, ok = c.usernames[name]
	return
}

func (c *AvailabilityCache) Email(email string) (available bool, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	available, ok = c.emails[email]
	return
}

func (c *AvailabilityCache) HasUsername(name string) bool {
	_, ok := c.Username(name)
	return ok
}

func (c *AvailabilityCache) HasEmail(email string) bool {
	_, ok := c.Email(email)
	return ok
}

func (c *AvailabilityCache) SetUsername(name string, available bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.usernames[name] = available
}

func (c *AvailabilityCache) SetEmail(email string, available bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.emails[email] = available
}

// Len returns the number of cached usernames and emails.
func (c *AvailabilityCache) Len() (usernames int, emails int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.usernames), len(c.emails)
}
