package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"time"
)

// CacheService represents a generic cache service
type CacheService interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Add stores a value only if the key is not already present.
	// It returns ErrExists when the key is taken.
	Add(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}

// Key builds a memcache-safe key from a prefix and an arbitrary value such as
// a URL, which may be longer than 250 bytes or contain spaces.
func Key(prefix, raw string) string {
	sum := sha1.Sum([]byte(raw))
	return prefix + ":" + hex.EncodeToString(sum[:])
}
