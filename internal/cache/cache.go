// Package cache provides the layered response cache the fetchers use
// to keep repeat curation runs inside third-party API quotas.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a TTL-bound byte store
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// ResponseKey builds a namespaced cache key for one fetch. kind keeps
// comment, search, and page responses from colliding on equal inputs.
func ResponseKey(kind, input string) string {
	hash := sha256.Sum256([]byte(input))
	return "meguri:v1:" + kind + ":" + hex.EncodeToString(hash[:])
}
