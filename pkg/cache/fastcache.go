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
	"encoding/binary"
	"time"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

const expiryHeaderSize = 8

// FastCacheConfig holds fastcache configuration
type FastCacheConfig struct {
	MaxBytes int
}

// FastCache is an in-process ICache on top of VictoriaMetrics fastcache.
// Each value is prefixed with its expiry (unix nanos, 0 = never) and
// expired entries are dropped lazily on read.
type FastCache struct {
	cache *fastcache.Cache
}

func NewFastCache(conf FastCacheConfig) *FastCache {
	maxBytes := conf.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 32 * 1024 * 1024
	}
	return &FastCache{cache: fastcache.New(maxBytes)}
}

func (fc *FastCache) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx, "get", key)

	raw, ok := fc.cache.HasGet(nil, []byte(key))
	if !ok || len(raw) < expiryHeaderSize {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	if exp := int64(binary.BigEndian.Uint64(raw[:expiryHeaderSize])); exp != 0 && time.Now().UnixNano() > exp {
		fc.cache.Del([]byte(key))
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(string(raw[expiryHeaderSize:]))
	return cmd
}

func (fc *FastCache) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx, "set", key)

	var payload []byte
	switch v := value.(type) {
	case string:
		payload = []byte(v)
	case []byte:
		payload = v
	default:
		data, err := sonic.Marshal(v)
		if err != nil {
			cmd.SetErr(err)
			return cmd
		}
		payload = data
	}

	var exp int64
	if expiration > 0 {
		exp = time.Now().Add(expiration).UnixNano()
	}
	buf := make([]byte, expiryHeaderSize+len(payload))
	binary.BigEndian.PutUint64(buf, uint64(exp))
	copy(buf[expiryHeaderSize:], payload)

	fc.cache.Set([]byte(key), buf)
	cmd.SetVal("OK")
	return cmd
}

func (fc *FastCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx, "del")
	var n int64
	for _, key := range keys {
		if fc.cache.Has([]byte(key)) {
			fc.cache.Del([]byte(key))
			n++
		}
	}
	cmd.SetVal(n)
	return cmd
}

// Stats returns fastcache statistics
func (fc *FastCache) Stats() fastcache.Stats {
	var s fastcache.Stats
	fc.cache.UpdateStats(&s)
	return s
}

func (fc *FastCache) Reset() {
	fc.cache.Reset()
}
