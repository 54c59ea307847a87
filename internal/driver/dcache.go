package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// Digest keys cache entries: SHA-256 of the input text plus the target
// package name.
type Digest [sha256.Size]byte

// Bump when the payload format changes so stale entries miss cleanly.
const cacheSchemaVersion uint16 = 1

// DiskCache stores rendered output per input digest under the user
// cache directory. Safe for concurrent use; a nil cache is a no-op.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

type cachePayload struct {
	Schema uint16
	Source string
	Codes  int
}

// OpenDiskCache initializes the cache at the standard location
// ($XDG_CACHE_HOME/<app> or ~/.cache/<app>).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheDir(filepath.Join(base, app))
}

// OpenDiskCacheDir initializes the cache rooted at an explicit
// directory.
func OpenDiskCacheDir(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "gen", hex.EncodeToString(key[:])+".mp")
}

// Store serializes one compile result. Failures are non-fatal to the
// caller; the entry is simply absent next time.
func (c *DiskCache) Store(key Digest, source string, codes int) error {
	if c == nil {
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
	defer os.Remove(f.Name())

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(&cachePayload{
		Schema: cacheSchemaVersion,
		Source: source,
		Codes:  codes,
	}); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Atomic replace.
	return os.Rename(f.Name(), p)
}

// Load returns the cached source and code count for key, or ok=false
// on a miss, a schema mismatch, or a corrupt entry.
func (c *DiskCache) Load(key Digest) (source string, codes int, ok bool) {
	if c == nil {
		return "", 0, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		return "", 0, false
	}
	defer f.Close()

	var payload cachePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return "", 0, false
	}
	if payload.Schema != cacheSchemaVersion {
		return "", 0, false
	}
	return payload.Source, payload.Codes, true
}

// DropAll removes every cache entry, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	err := os.RemoveAll(filepath.Join(c.dir, "gen"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
