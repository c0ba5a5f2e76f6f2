package scenenav

import (
	"slices"
)

// Registry maps restoration keys to constructors. It replaces reflective
// class lookup: every key that can appear in saved state must be registered
// by the host application.
type Registry[T any] struct {
	factories map[SceneKey]func(state *SavedState) T
	order     []SceneKey
}

// NewRegistry creates an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		factories: make(map[SceneKey]func(state *SavedState) T),
	}
}

// Register adds or replaces the constructor for key.
// The constructor receives nil when nothing was saved for the element.
func (r *Registry[T]) Register(key SceneKey, fn func(state *SavedState) T) *Registry[T] {
	if _, ok := r.factories[key]; !ok {
		r.order = append(r.order, key)
	}
	r.factories[key] = fn
	return r
}

// Instantiate builds the element registered under key. An unregistered key
// is a configuration error and panics with ErrUnknownKey.
func (r *Registry[T]) Instantiate(key SceneKey, state *SavedState) T {
	fn, ok := r.factories[key]
	if !ok {
		violate("instantiate", string(key), ErrUnknownKey)
	}
	return fn(state)
}

// Keys returns the registered keys in registration order.
func (r *Registry[T]) Keys() []SceneKey {
	return slices.Clone(r.order)
}
