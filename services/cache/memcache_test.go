package cache

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "listapresentes/productworker/pkg/errors"
)

// This test requires a running memcached instance
// If memcached is not available, the test will be skipped
func TestMemcacheService(t *testing.T) {
	mc := NewMemcacheService("localhost:11211")

	if err := mc.Ping(); err != nil {
		t.Skip("Memcached is not available, skipping test")
	}

	key := Key("test", "https://www.kabum.com.br/produto/1")

	err := mc.Set(key, []byte(`{"success":true}`), 2*time.Second)
	require.NoError(t, err)

	value, err := mc.Get(key)
	require.NoError(t, err)
	assert.Equal(t, `{"success":true}`, string(value))

	err = mc.Delete(key)
	assert.NoError(t, err)

	_, err = mc.Get(key)
	assert.True(t, errors.Is(err, ErrMiss), "Deleted key should be a miss")

	assert.NoError(t, mc.Delete(key), "Deleting a missing key is not an error")
}

func TestMemcacheService_Add(t *testing.T) {
	mc := NewMemcacheService("localhost:11211")

	if err := mc.Ping(); err != nil {
		t.Skip("Memcached is not available, skipping test")
	}

	key := Key("test", "https://loja.example/claim")
	defer mc.Delete(key)
	mc.Delete(key)

	require.NoError(t, mc.Add(key, []byte("first"), 5*time.Second))

	err := mc.Add(key, []byte("second"), 5*time.Second)
	assert.True(t, errors.Is(err, ErrExists), "A taken key should not be overwritten")

	value, err := mc.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "first", string(value))
}

func TestExpirationSeconds(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, int32(0), expirationSeconds(0, now))
	assert.Equal(t, int32(1), expirationSeconds(300*time.Millisecond, now))
	assert.Equal(t, int32(3600), expirationSeconds(time.Hour, now))
	assert.Equal(t, int32(2592000), expirationSeconds(30*24*time.Hour, now))

	// Longer TTLs become absolute timestamps
	ttl := 31 * 24 * time.Hour
	assert.Equal(t, int32(now.Add(ttl).Unix()), expirationSeconds(ttl, now))
}

func TestMemcacheService_Unreachable(t *testing.T) {
	mc := NewMemcacheService("127.0.0.1:1")

	err := mc.Ping()
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeCache, apperrors.TypeOf(err))

	_, err = mc.Get("anything")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMiss), "Connection failures are not misses")
}

func TestKey(t *testing.T) {
	long := "https://loja.example/" + strings.Repeat("x", 400) + "?q=a b"

	key := Key("result", long)
	assert.True(t, strings.HasPrefix(key, "result:"))
	assert.Len(t, key, len("result:")+40)
	assert.NotContains(t, key, " ")
	assert.Equal(t, key, Key("result", long), "Keys are deterministic")
	assert.NotEqual(t, key, Key("escalation", long))
}
