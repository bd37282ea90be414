// Package overrides is the session image-override cache.
//
// After an editor saves an image change, the remote API may keep serving
// the old image field for a while. The cache records the last locally-known
// truth per note so the list and editors stop trusting the stale remote
// value for the rest of the session. An override is a hint, not a source of
// truth: it never expires on its own and is only superseded by newer writes
// to the same key.
package overrides

import (
	"encoding/json"
	"sync"

	"github.com/daybookhq/daybook/internal/kv"
)

// Slot is the named slot holding the serialized override map.
const Slot = "noteImageOverrides"

// Entry is the last locally-known image state for one note.
// A nil ImageID means "the user removed the image this session"; that is
// distinct from the key being absent.
type Entry struct {
	ImageID  *int    `json:"imageId"`
	ImageURL *string `json:"imageUrl,omitempty"`
}

// Cache reads and writes the override map. Construct one per application
// session and pass it to the views that need it.
type Cache struct {
	db *kv.DB
	mu sync.Mutex
}

// NewCache creates a Cache on top of the slot store.
func NewCache(db *kv.DB) *Cache {
	return &Cache{db: db}
}

// Get returns the override entry for a note key.
// An unreadable or corrupt persisted map reads as empty, never as an error.
func (c *Cache) Get(noteKey string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := c.load()
	entry, ok := entries[noteKey]
	return entry, ok
}

// Set merges one entry into the persisted map, overwriting any prior entry
// for the same key and preserving all other keys. Last write wins.
func (c *Cache) Set(noteKey string, imageID *int, imageURL *string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := c.load()
	entries[noteKey] = Entry{ImageID: imageID, ImageURL: imageURL}

	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.db.Set(Slot, string(data))
}

// Clear drops every override, ending the session's hints.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.Delete(Slot)
}

// Resolve applies the override rule to a note's remote image field and
// returns the effective image ID (nil means no image):
//   - an entry with a nil ImageID forces "no image" regardless of the remote;
//   - an entry with a numeric ImageID wins over the remote field;
//   - no entry leaves the remote field authoritative.
func (c *Cache) Resolve(noteKey string, remoteImageID *int) *int {
	entry, ok := c.Get(noteKey)
	if !ok {
		return remoteImageID
	}
	return entry.ImageID
}

// load reads the persisted map under the held lock.
func (c *Cache) load() map[string]Entry {
	entries := make(map[string]Entry)

	raw, found, err := c.db.Get(Slot)
	if err != nil || !found {
		return entries
	}
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		// Corrupt blob is treated as empty.
		return make(map[string]Entry)
	}
	return entries
}
