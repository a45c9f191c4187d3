package cache

import (
	"errors"
	"math"
	"time"

	"github.com/bradfitz/gomemcache/memcache"

	apperrors "listapresentes/productworker/pkg/errors"
)

// ErrMiss is returned by Get when the key is not cached
var ErrMiss = memcache.ErrCacheMiss

// ErrExists is returned by Add when the key is already cached
var ErrExists = memcache.ErrNotStored

// memcached reads expirations above 30 days as absolute Unix timestamps
const maxRelativeExpiration = 30 * 24 * time.Hour

// MemcacheService implements CacheService using memcache
type MemcacheService struct {
	client *memcache.Client
}

// NewMemcacheService creates a new memcache service
func NewMemcacheService(serverAddr string) *MemcacheService {
	client := memcache.New(serverAddr)
	client.Timeout = 500 * time.Millisecond
	client.MaxIdleConns = 8

	return &MemcacheService{
		client: client,
	}
}

// Ping checks that memcached is reachable
func (m *MemcacheService) Ping() error {
	if err := m.client.Ping(); err != nil {
		return apperrors.NewCache("memcached is unreachable", err)
	}
	return nil
}

// Get retrieves a value from memcache. A miss returns an error matching ErrMiss.
func (m *MemcacheService) Get(key string) ([]byte, error) {
	item, err := m.client.Get(key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, err
	}
	if err != nil {
		return nil, apperrors.NewCache("get "+key, err)
	}
	return item.Value, nil
}

// Set stores a value in memcache with an expiration time
func (m *MemcacheService) Set(key string, value []byte, expiration time.Duration) error {
	err := m.client.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: expirationSeconds(expiration, time.Now()),
	})
	if err != nil {
		return apperrors.NewCache("set "+key, err)
	}
	return nil
}

// Add stores a value only if the key is absent. A taken key returns an
// error matching ErrExists.
func (m *MemcacheService) Add(key string, value []byte, expiration time.Duration) error {
	err := m.client.Add(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: expirationSeconds(expiration, time.Now()),
	})
	if errors.Is(err, memcache.ErrNotStored) {
		return err
	}
	if err != nil {
		return apperrors.NewCache("add "+key, err)
	}
	return nil
}

// Delete removes a value from memcache. Deleting a missing key is not an error.
func (m *MemcacheService) Delete(key string) error {
	err := m.client.Delete(key)
	if err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
		return apperrors.NewCache("delete "+key, err)
	}
	return nil
}

// expirationSeconds converts a TTL into memcached's expiration field
func expirationSeconds(ttl time.Duration, now time.Time) int32 {
	if ttl <= 0 {
		return 0
	}
	if ttl > maxRelativeExpiration {
		return int32(now.Add(ttl).Unix())
	}
	return int32(math.Ceil(ttl.Seconds()))
}
