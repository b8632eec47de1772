package cache

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileCache keeps entries as JSON files for the CLI. Entries are grouped by
// kind, so placement plans and fetched images can be inspected and cleared
// separately:
//
//	<dir>/plan/3f/a9c1...json
//	<dir>/image/07/d2e4...json
type FileCache struct {
	dir string
}

// fileEntry is the on-disk envelope of one entry.
type fileEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

// Usage summarizes the entries of one kind.
type Usage struct {
	Entries int
	Bytes   int64
}

// NewFileCache opens a file cache rooted at dir, creating it if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

func (c *FileCache) String() string { return "file " + c.dir }

// Get returns a stored entry. Expired and unreadable entries are removed and
// reported as misses.
func (c *FileCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var e fileEntry
	if json.Unmarshal(raw, &e) != nil || e.expired(time.Now()) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return e.Data, true, nil
}

// Set stores data under key. A ttl <= 0 never expires.
func (c *FileCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	e := fileEntry{Data: data}
	if ttl > 0 {
		e.ExpiresAt = time.Now().Add(ttl)
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0644)
}

// Delete removes key. Deleting a missing key is not an error.
func (c *FileCache) Delete(_ context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (c *FileCache) Close() error { return nil }

// Clear removes the entries of the given kinds, or everything when none are
// named. It returns how many entries were removed.
func (c *FileCache) Clear(kinds ...string) (int, error) {
	if len(kinds) == 0 {
		top, err := os.ReadDir(c.dir)
		if os.IsNotExist(err) {
			return 0, nil
		}
		if err != nil {
			return 0, err
		}
		for _, e := range top {
			kinds = append(kinds, e.Name())
		}
	}

	removed := 0
	for _, kind := range kinds {
		root := filepath.Join(c.dir, kind)
		n, err := countFiles(root)
		if err != nil {
			return removed, err
		}
		if err := os.RemoveAll(root); err != nil {
			return removed, err
		}
		removed += n
	}
	return removed, nil
}

// Usage reports entry counts and sizes per kind. Expired entries are counted
// until a Get or Clear removes them.
func (c *FileCache) Usage() (map[string]Usage, error) {
	out := make(map[string]Usage)
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		rel, _ := filepath.Rel(c.dir, path)
		kind, _, nested := strings.Cut(filepath.ToSlash(rel), "/")
		if !nested {
			kind = KindOther
		}
		u := out[kind]
		u.Entries++
		u.Bytes += info.Size()
		out[kind] = u
		return nil
	})
	return out, err
}

// path maps a key to <dir>/<kind>/<2 hex>/<rest>.json. The fan-out keeps
// directories small.
func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, KindOf(key), h[:2], h[2:]+".json")
}

func (e fileEntry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

func countFiles(root string) (int, error) {
	n := 0
	err := filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	return n, err
}

var _ Cache = (*FileCache)(nil)
