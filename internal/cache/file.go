package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type fileEntry struct {
	Data      json.RawMessage `json:"data"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

// FileCache stores JSON values as one file per key under dir. It has the
// same contract as RedisCache for callers without Redis.
type FileCache struct {
	dir string
	now func() time.Time
}

func NewFileCache(dir string) *FileCache {
	return &FileCache{dir: dir, now: time.Now}
}

// DefaultFileCacheDir returns ~/.cache/pollenow.
func DefaultFileCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "pollenow")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "pollenow")
}

func (c *FileCache) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:8])+".json")
}

// Get decodes the value stored at key into dst. Missing, expired and
// unreadable entries are misses; expired files are removed.
func (c *FileCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	p := c.path(key)
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read cache: %w", err)
	}

	var e fileEntry
	if err := json.Unmarshal(data, &e); err != nil {
		_ = os.Remove(p)
		return false, nil
	}
	if !c.now().Before(e.ExpiresAt) {
		_ = os.Remove(p)
		return false, nil
	}

	if err := json.Unmarshal(e.Data, dst); err != nil {
		return false, fmt.Errorf("failed to decode cached value: %w", err)
	}
	return true, nil
}

// Set stores v at key for ttl.
func (c *FileCache) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}
	out, err := json.Marshal(fileEntry{Data: raw, ExpiresAt: c.now().Add(ttl)})
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}
	if err := os.WriteFile(c.path(key), out, 0o600); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}
