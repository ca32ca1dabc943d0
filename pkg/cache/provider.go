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
	"fmt"

	"github.com/go-arcade/bookbuild/pkg/log"
	"github.com/google/wire"
)

// ProviderSet provides the configured ICache
var ProviderSet = wire.NewSet(ProvideCache)

// ProvideCache returns the backend selected by conf.Type. The "none" type
// yields a nil ICache, which CachedQuery treats as pass-through.
func ProvideCache(conf Config, redisConf Redis) (ICache, func(), error) {
	switch conf.Type {
	case TypeRedis:
		client, err := NewRedis(redisConf)
		if err != nil {
			return nil, nil, err
		}
		rc := NewRedisCache(client)
		return rc, func() { _ = rc.Close() }, nil
	case TypeMemory:
		fc := NewFastCache(FastCacheConfig{MaxBytes: conf.LocalMaxBytes})
		log.Infow("in-memory cache enabled", "maxBytes", conf.LocalMaxBytes)
		return fc, func() { fc.Reset() }, nil
	case TypeNone, "":
		return nil, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported cache type: %s", conf.Type)
	}
}
