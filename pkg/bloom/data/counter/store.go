package counter

import (
	"context"
)

// Store hands out monotonically increasing sequence values per key. It
// backs human-facing document numbers like PT-10001 and RF-10001.
type Store interface {
	// GetNext atomically increments and returns the sequence value for a
	// given key. The first call for a key returns 1.
	GetNext(ctx context.Context, key string) (uint64, error)
}
