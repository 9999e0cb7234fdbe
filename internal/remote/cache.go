package remote

import (
	"fmt"
	"sync"
)

// SessionCache reuses Clients keyed by user@address. It is an explicit
// object rather than package state so each orchestrator invocation (and each
// test) owns a fresh one.
type SessionCache struct {
	mu       sync.Mutex
	sessions map[string]*Client

	// newClient is replaced in tests to inject fakes.
	newClient func(address, user string) *Client
}

// NewSessionCache creates an empty cache.
func NewSessionCache() *SessionCache {
	return &SessionCache{
		sessions:  make(map[string]*Client),
		newClient: NewClient,
	}
}

// Get returns the cached client for (address, user), creating it on first
// use.
func (c *SessionCache) Get(address, user string) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := sessionKey(address, user)
	if client, ok := c.sessions[key]; ok {
		return client
	}
	client := c.newClient(address, user)
	c.sessions[key] = client
	return client
}

// Invalidate drops the cached client for (address, user). Called after
// events that change the instance's host identity, such as re-creation.
func (c *SessionCache) Invalidate(address, user string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, sessionKey(address, user))
}

// Clear drops all cached clients.
func (c *SessionCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions = make(map[string]*Client)
}

func sessionKey(address, user string) string {
	return fmt.Sprintf("%s@%s", user, address)
}
