package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Store is a byte oriented key value store with per entry TTL.
type Store interface {
	// Get returns the value and true on a hit, nil and false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Key builds "<prefix>:<operation>:<sha256 of the canonical JSON of params>".
// encoding/json sorts map keys and emits struct fields in declaration order,
// so equal params always produce the same key.
func Key(prefix, operation string, params any) (string, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cache key params: %w", err)
	}
	sum := sha256.Sum256(raw)
	return fmt.Sprintf("%s:%s:%s", prefix, operation, hex.EncodeToString(sum[:])), nil
}
