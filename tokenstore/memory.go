package tokenstore

import (
	"context"
	"sync"
)

var _ Store = (*Memory)(nil)

// Memory is an in-process Store with a local map and a single cookie value.
// It backs tests and non-HTTP callers.
type Memory struct {
	mu     sync.RWMutex
	local  map[string]string
	cookie string
}

func NewMemory() *Memory {
	return &Memory{local: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if token := m.local[KeyAuthToken]; token != "" {
		return token, true
	}
	if m.cookie != "" {
		return m.cookie, true
	}
	return "", false
}

func (m *Memory) Set(_ context.Context, token string) {
	m.write(localValues(token), token)
}

func (m *Memory) SetTenant(_ context.Context, token string, tenant TenantRecord) {
	m.write(tenantValues(token, tenant), token)
}

func (m *Memory) write(values map[string]string, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, k := range derivedKeys {
		delete(m.local, k)
	}
	for k, v := range values {
		m.local[k] = v
	}
	m.cookie = token
}

func (m *Memory) Clear(_ context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, k := range derivedKeys {
		delete(m.local, k)
	}
	m.cookie = ""
}

// Value returns a raw local storage entry
func (m *Memory) Value(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.local[key]
	return v, ok
}

// Cookie returns the mirrored cookie value
func (m *Memory) Cookie() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cookie
}

// SetCookieOnly simulates a browser that only carries the cookie
func (m *Memory) SetCookieOnly(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cookie = token
}
