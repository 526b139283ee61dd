package gallery

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
)

// Cache persists the last known gallery state as a single JSON file so the UI
// can paint before the first remote round trip completes. It is an
// optimization, never a correctness requirement: every write is a complete
// replacement, and callers are expected to discard its errors.
type Cache struct {
	path string
}

// NewCache creates a Cache backed by the file at path.
func NewCache(path string) *Cache {
	return &Cache{path: path}
}

// Save serializes items and replaces the snapshot file.
func (c *Cache) Save(items []Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0o644)
}

// Load returns the snapshot and true, or nil and false when there is no
// usable data: a missing file, malformed JSON, and JSON that is not a list
// all read as "no data". Load never fails to its caller.
func (c *Cache) Load() ([]Item, bool) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, false
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false
	}
	if items == nil {
		return nil, false // "null" decodes without error but is not a list
	}
	return items, true
}

// Clear removes the snapshot file. A missing file is not an error.
func (c *Cache) Clear() error {
	if err := os.Remove(c.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
