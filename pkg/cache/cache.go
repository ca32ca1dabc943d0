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
	"time"

	"github.com/redis/go-redis/v9"
)

// ICache is the subset of redis commands the services rely on. The local
// FastCache implements it too so callers never know which backend is wired.
type ICache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

const (
	TypeRedis  = "redis"
	TypeMemory = "memory"
	TypeNone   = "none"
)

// Config selects the cache backend
type Config struct {
	Type string `mapstructure:"type"`
	// LocalMaxBytes sizes the in-memory backend
	LocalMaxBytes int           `mapstructure:"localMaxBytes"`
	TTL           time.Duration `mapstructure:"ttl"`
}
