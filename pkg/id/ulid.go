package id

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	ulidMu      sync.Mutex
	ulidEntropy = ulid.Monotonic(rand.Reader, 0)
)

// GetUlid returns a lexically sortable, monotonic ULID string.
func GetUlid() string {
	ulidMu.Lock()
	defer ulidMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulidEntropy).String()
}

// IsUlid reports whether s parses as a ULID.
func IsUlid(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
