package outputs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/renameio/v2"
)

const lockRetryDelay = 25 * time.Millisecond

// FileBackend keeps each key in {Dir}/{key}.json. Writes replace the file
// atomically and both reads and writes hold an advisory lock on
// {Dir}/{key}.lock so concurrent CLI invocations never observe a torn blob.
type FileBackend struct {
	Dir      string
	MaxBytes int64
}

// NewFileBackend creates dir when needed.
func NewFileBackend(dir string, maxBytes int64) (*FileBackend, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("file backend: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file backend: create directory: %w", err)
	}
	return &FileBackend{Dir: dir, MaxBytes: maxBytes}, nil
}

func (b *FileBackend) blobPath(key string) string {
	return filepath.Join(b.Dir, key+".json")
}

func (b *FileBackend) lockPath(key string) string {
	return filepath.Join(b.Dir, key+".lock")
}

// Load reads the blob for key under a shared lock.
func (b *FileBackend) Load(ctx context.Context, key string) ([]byte, error) {
	lock := flock.New(b.lockPath(key))
	locked, err := lock.TryRLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("file backend: lock %s: %w", key, err)
	}
	if !locked {
		return nil, fmt.Errorf("file backend: lock %s: not acquired", key)
	}
	defer func() { _ = lock.Unlock() }()

	data, err := os.ReadFile(b.blobPath(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("file backend: read %s: %w", key, err)
	}
	return data, nil
}

// Save atomically replaces the blob for key under an exclusive lock.
func (b *FileBackend) Save(ctx context.Context, key string, data []byte) error {
	if err := checkQuota(data, b.MaxBytes); err != nil {
		return err
	}
	lock := flock.New(b.lockPath(key))
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("file backend: lock %s: %w", key, err)
	}
	if !locked {
		return fmt.Errorf("file backend: lock %s: not acquired", key)
	}
	defer func() { _ = lock.Unlock() }()

	pending, err := renameio.NewPendingFile(b.blobPath(key), renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("file backend: create pending file: %w", err)
	}
	defer func() { _ = pending.Cleanup() }()

	if _, err := pending.Write(data); err != nil {
		return fmt.Errorf("file backend: write %s: %w", key, err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("file backend: replace %s: %w", key, err)
	}
	return nil
}

// Close is a no-op; locks are released after every call.
func (b *FileBackend) Close() error {
	return nil
}
