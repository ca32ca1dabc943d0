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

package id

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetUUID(t *testing.T) {
	assert.Len(t, GetUUID(), 36)
	u := GetUUIDWithoutDashes()
	assert.Len(t, u, 32)
	assert.NotContains(t, u, "-")
}

func TestGetUlid_SortableAndUnique(t *testing.T) {
	ids := make([]string, 1000)
	for i := range ids {
		ids[i] = GetUlid()
		assert.True(t, IsUlid(ids[i]))
	}
	assert.True(t, sort.StringsAreSorted(ids))

	seen := make(map[string]struct{}, len(ids))
	for _, v := range ids {
		seen[v] = struct{}{}
	}
	assert.Len(t, seen, len(ids))
}

func TestGetUlid_Concurrent(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[string]struct{})
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v := GetUlid()
			mu.Lock()
			seen[v] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 50)
	assert.False(t, IsUlid("not-a-ulid"))
}
