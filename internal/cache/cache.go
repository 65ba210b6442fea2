package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Cache stores opaque byte payloads with a TTL.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// keyVersion changes whenever the cached payload layout changes.
const keyVersion = "reformcast:v1:"

// Key hashes the given parts into a namespaced cache key. Parts are
// separated so that ("ab","c") and ("a","bc") never collide.
func Key(parts ...any) string {
	h := sha256.New()
	for _, p := range parts {
		fmt.Fprintf(h, "%v\x1f", p)
	}
	return keyVersion + hex.EncodeToString(h.Sum(nil))
}
