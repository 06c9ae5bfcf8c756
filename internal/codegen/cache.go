package codegen

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"lrgen/internal/project"
)

// Current schema version - increment when cachePayload format changes
const cacheSchemaVersion uint16 = 1

// DiskCache хранит результаты генерации по Digest модели.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

type cachePayload struct {
	Schema uint16
	Output Output
}

// OpenDiskCache uses dir, creating it if needed.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// OpenUserCache opens the cache under $XDG_CACHE_HOME/<app> (or ~/.cache/<app>).
func OpenUserCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCache(filepath.Join(base, app))
}

// Dir returns the cache directory.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key project.Digest) string {
	return filepath.Join(c.dir, "gen", key.Hex()+".mp")
}

// Put writes out under key, replacing any previous entry atomically.
func (c *DiskCache) Put(key project.Digest, out *Output) (err error) {
	if c == nil || out == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(&cachePayload{Schema: cacheSchemaVersion, Output: *out}); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, p)
}

// Get loads the entry for key. A missing entry or one written by another
// schema version is a miss, not an error.
func (c *DiskCache) Get(key project.Digest) (*Output, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload cachePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("decode cache entry %s: %w", key.Hex(), err)
	}
	if payload.Schema != cacheSchemaVersion {
		return nil, false, nil
	}
	return &payload.Output, true, nil
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "gen"))
}
