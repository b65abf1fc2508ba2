// Package registry holds player instances by key and picks the preferred one
// for the hook layer.
package registry

import (
	"log/slog"
	"sync"
)

// PreferredKey is the key Bind registers under. Preferred checks it before
// falling back to the first registered instance.
const PreferredKey = "hooks.preferred_instance"

// Registry maps string keys to instances. Keys keep their first insertion
// position, so First is deterministic even after overwrites.
type Registry[T any] struct {
	mu        sync.RWMutex
	order     []string
	instances map[string]T
	logger    *slog.Logger
}

// New creates an empty registry. A nil logger uses slog.Default.
func New[T any](logger *slog.Logger) *Registry[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry[T]{instances: make(map[string]T), logger: logger}
}

// Register inserts or overwrites the instance stored under key.
func (r *Registry[T]) Register(key string, instance T) {
	r.mu.Lock()
	_, exists := r.instances[key]
	if !exists {
		r.order = append(r.order, key)
	}
	r.instances[key] = instance
	r.mu.Unlock()

	r.logger.Debug("instance registered", "key", key, "overwrite", exists)
}

// Bind makes instance the preferred one.
func (r *Registry[T]) Bind(instance T) {
	r.Register(PreferredKey, instance)
}

func (r *Registry[T]) Get(key string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.instances[key]
	return v, ok
}

// First returns the instance under the earliest registered key.
func (r *Registry[T]) First() (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.order) == 0 {
		var zero T
		return zero, false
	}
	return r.instances[r.order[0]], true
}

// Preferred returns the bound instance, else the first registered one.
// An empty registry reports false.
func (r *Registry[T]) Preferred() (T, bool) {
	if v, ok := r.Get(PreferredKey); ok {
		return v, true
	}
	return r.First()
}

// Keys returns the registered keys in insertion order.
func (r *Registry[T]) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}
