// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Typed stores values of T as JSON under a namespace.
type Typed[T any] struct {
	cache     Cacher
	namespace string
	ttl       time.Duration
}

// NewTyped creates a Typed cache. Keys are stored as "namespace:key".
func NewTyped[T any](c Cacher, namespace string, ttl time.Duration) *Typed[T] {
	return &Typed[T]{cache: c, namespace: namespace, ttl: ttl}
}

func (t *Typed[T]) key(k string) string {
	return t.namespace + ":" + k
}

// Get returns the value and true when present and decodable.
func (t *Typed[T]) Get(ctx context.Context, key string) (T, bool) {
	var value T
	data, err := t.cache.Get(ctx, t.key(key))
	if err != nil {
		return value, false
	}
	if err := json.Unmarshal(data, &value); err != nil {
		var zero T
		return zero, false
	}
	return value, true
}

// Set stores value with the default TTL.
func (t *Typed[T]) Set(ctx context.Context, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return t.cache.Set(ctx, t.key(key), data, t.ttl)
}

// Delete removes key.
func (t *Typed[T]) Delete(ctx context.Context, key string) error {
	return t.cache.Delete(ctx, t.key(key))
}
