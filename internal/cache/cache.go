// Package cache provides layered response caching for the imagery backend.
// Satellite statistics queries are slow and quota-bound; identical queries
// inside the audit window are served from cache instead.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from an operation name and its serialized
// request payload.
func Key(op string, payload []byte) string {
	hash := sha256.New()
	hash.Write([]byte(op))
	hash.Write([]byte{0})
	hash.Write(payload)
	return "sentinel:v1:" + hex.EncodeToString(hash.Sum(nil))
}
