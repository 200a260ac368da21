package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Without a configured Redis host every cache helper must degrade to a
// no-op: reads miss, writes and deletes return without touching anything.
func TestCacheHelpersWithoutRedis(t *testing.T) {
	CacheSetBytes("cache:test:key", []byte("value"), time.Minute)
	CacheSetJSON("cache:test:json", map[string]string{"k": "v"}, time.Minute)

	_, ok := CacheGetBytes("cache:test:key")
	assert.False(t, ok)

	CacheDelete("cache:test:key")
	InvalidateByPrefix("cache:test:")
}
