package localstorage

import (
	"context"
	"fmt"
	"sync"

	"github.com/jrsteele09/crm-portal/internal/errors"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is an in-memory implementation of Repo
type InMemoryRepo struct {
	mu     sync.RWMutex
	values map[string]map[string]string // namespace -> key -> value
}

// NewInMemoryRepo creates a new in-memory local storage repository
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		values: make(map[string]map[string]string),
	}
}

// Get returns the value stored under key, or errors.ErrNotFound
func (r *InMemoryRepo) Get(_ context.Context, namespace, key string) (string, error) {
	if namespace == "" {
		return "", errors.Wrapf(errors.ErrInvalidRequest, "namespace is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.values[namespace][key]
	if !ok {
		return "", fmt.Errorf("%s: %w", key, errors.ErrNotFound)
	}
	return value, nil
}

// Set writes all values to the namespace in one step
func (r *InMemoryRepo) Set(_ context.Context, namespace string, values map[string]string) error {
	if namespace == "" {
		return errors.Wrapf(errors.ErrInvalidRequest, "namespace is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.values[namespace]; !ok {
		r.values[namespace] = make(map[string]string)
	}
	for k, v := range values {
		r.values[namespace][k] = v
	}
	return nil
}

// Delete removes keys; missing keys are not an error
func (r *InMemoryRepo) Delete(_ context.Context, namespace string, keys ...string) error {
	if namespace == "" {
		return errors.Wrapf(errors.ErrInvalidRequest, "namespace is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	nsValues, ok := r.values[namespace]
	if !ok {
		return nil
	}
	for _, k := range keys {
		delete(nsValues, k)
	}

	// Clean up empty namespaces
	if len(nsValues) == 0 {
		delete(r.values, namespace)
	}
	return nil
}
