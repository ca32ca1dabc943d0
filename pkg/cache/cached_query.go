// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/bookbuild/pkg/log"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// ErrCacheMiss indicates that the key was not found in cache
var ErrCacheMiss = redis.Nil

// QueryFunc loads the value on a cache miss
type QueryFunc[T any] func(ctx context.Context) (T, error)

// KeyFunc builds the cache key from parameters
type KeyFunc func(params ...any) string

// CachedQuery is a generic cache-aside helper. Concurrent misses for the same
// key share one query. A nil cache degrades to calling the query directly.
type CachedQuery[T any] struct {
	cache     ICache
	keyFunc   KeyFunc
	ttl       time.Duration
	logPrefix string
	group     singleflight.Group
}

// CachedQueryOption configures CachedQuery behavior
type CachedQueryOption[T any] func(*CachedQuery[T])

// WithTTL sets the cache expiration time
func WithTTL[T any](ttl time.Duration) CachedQueryOption[T] {
	return func(cq *CachedQuery[T]) {
		if ttl > 0 {
			cq.ttl = ttl
		}
	}
}

// WithLogPrefix sets the log prefix for debugging
func WithLogPrefix[T any](prefix string) CachedQueryOption[T] {
	return func(cq *CachedQuery[T]) {
		cq.logPrefix = prefix
	}
}

func NewCachedQuery[T any](cache ICache, keyFunc KeyFunc, opts ...CachedQueryOption[T]) *CachedQuery[T] {
	cq := &CachedQuery[T]{
		cache:     cache,
		keyFunc:   keyFunc,
		ttl:       time.Hour,
		logPrefix: "[CachedQuery]",
	}
	for _, opt := range opts {
		opt(cq)
	}
	return cq
}

// Get returns the cached value for params or runs query and caches its result.
// Cache failures are logged and never fail the call.
func (cq *CachedQuery[T]) Get(ctx context.Context, query QueryFunc[T], params ...any) (T, error) {
	if cq.cache == nil {
		return query(ctx)
	}

	key := cq.keyFunc(params...)
	if v, ok := cq.load(ctx, key); ok {
		return v, nil
	}

	res, err, shared := cq.group.Do(key, func() (any, error) {
		result, err := query(ctx)
		if err != nil {
			return result, err
		}
		cq.store(ctx, key, result)
		return result, nil
	})
	if shared {
		log.Debugw(cq.logPrefix+" shared in-flight query", "key", key)
	}
	if err != nil {
		var zero T
		return zero, fmt.Errorf("cached query %s: %w", key, err)
	}
	return res.(T), nil
}

// Invalidate removes the cached value for params
func (cq *CachedQuery[T]) Invalidate(ctx context.Context, params ...any) error {
	if cq.cache == nil {
		return nil
	}
	key := cq.keyFunc(params...)
	if err := cq.cache.Del(ctx, key).Err(); err != nil {
		log.Warnw(cq.logPrefix+" failed to invalidate cache", "key", key, "error", err)
		return err
	}
	return nil
}

func (cq *CachedQuery[T]) load(ctx context.Context, key string) (T, bool) {
	var result T
	data, err := cq.cache.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			log.Warnw(cq.logPrefix+" cache get error", "key", key, "error", err)
		}
		return result, false
	}
	if err := sonic.UnmarshalString(data, &result); err != nil {
		log.Warnw(cq.logPrefix+" failed to unmarshal cached data", "key", key, "error", err)
		return result, false
	}
	log.Debugw(cq.logPrefix+" cache hit", "key", key)
	return result, true
}

func (cq *CachedQuery[T]) store(ctx context.Context, key string, value T) {
	data, err := sonic.MarshalString(value)
	if err != nil {
		log.Warnw(cq.logPrefix+" failed to marshal result for caching", "key", key, "error", err)
		return
	}
	if err := cq.cache.Set(ctx, key, data, cq.ttl).Err(); err != nil {
		log.Warnw(cq.logPrefix+" failed to cache result", "key", key, "error", err)
	}
}
