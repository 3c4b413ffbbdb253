package outputs

import (
	"context"
	"errors"
	"fmt"
)

// ErrQuotaExceeded is returned when a blob is larger than the backend allows.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Backend stores opaque blobs by key. Load returns nil data and a nil error
// when the key has never been written.
type Backend interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Close() error
}

func checkQuota(data []byte, maxBytes int64) error {
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrQuotaExceeded, len(data), maxBytes)
	}
	return nil
}
