// Package gallery is the local photo store: a durable, newest-first list of
// captured photos whose metadata lives in one named slot and whose bytes
// live in the app data directory.
package gallery

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/nfnt/resize"
	"github.com/oklog/ulid/v2"

	"github.com/daybookhq/daybook/internal/errors"
	"github.com/daybookhq/daybook/internal/kv"
)

// Slot is the named slot holding the serialized photo list.
const Slot = "photos"

// Mode selects how photo bytes move between storage and display.
// It is resolved once at startup and injected; operations never re-detect.
type Mode string

const (
	// ModeNativeFile references stored files by a directly renderable URI.
	ModeNativeFile Mode = "native"
	// ModeTranscode reads file bytes back and base64-encodes them for display.
	ModeTranscode Mode = "transcode"
)

// ParseMode validates a photo mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeNativeFile, ModeTranscode:
		return Mode(s), nil
	}
	return "", errors.NewInvalidRequest(fmt.Sprintf("photo_mode must be one of: %s, %s", ModeNativeFile, ModeTranscode))
}

// Photo is one gallery record. Identity is Filepath, unique within the
// store. DisplaySource is derived per mode on load and never persisted.
type Photo struct {
	Filepath      string `json:"filepath"`
	DisplaySource string `json:"-"`
}

// Source locates the bytes of a freshly captured or picked image.
// Exactly one of Path (native file path) or URL (fetchable web URL) is set.
type Source struct {
	Path string
	URL  string
}

// Store owns the photo list. Views hold only transient Photo copies.
type Store struct {
	dir     string
	db      *kv.DB
	mode    Mode
	thumbPx int
	httpc   *http.Client

	mu     sync.Mutex
	photos []Photo // newest first
	loaded bool
}

// NewStore creates a Store writing photo bytes under dir.
func NewStore(dir string, db *kv.DB, mode Mode, thumbPx int) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create photo directory: %w", err)
	}
	return &Store{
		dir:     dir,
		db:      db,
		mode:    mode,
		thumbPx: thumbPx,
		httpc:   http.DefaultClient,
	}, nil
}

// List returns the full ordered photo sequence, newest first, with each
// record's display source populated for the store's mode. A missing or
// unreadable persisted list reads as empty.
func (s *Store) List(ctx context.Context) ([]Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadLocked()

	out := make([]Photo, len(s.photos))
	copy(out, s.photos)
	for i := range out {
		out[i].DisplaySource = s.displaySource(out[i].Filepath)
	}
	return out, nil
}

// Add saves a captured image into the gallery: assigns a collision-resistant
// file name, writes the bytes into the data directory, generates a thumbnail
// rendition, prepends the record, and persists the updated list as a whole.
// The in-memory list is updated before the durable write; a persistence
// failure is returned but not rolled back.
func (s *Store) Add(ctx context.Context, src Source) (*Photo, error) {
	data, err := s.readSource(ctx, src)
	if err != nil {
		return nil, err
	}

	name := newFileName()
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return nil, fmt.Errorf("failed to write photo: %w", err)
	}

	// Thumbnail rendition is an enrichment: failure leaves the grid to fall
	// back to the full image.
	s.writeThumbnail(name, data)

	photo := Photo{Filepath: name, DisplaySource: s.displaySource(name)}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
	s.photos = append([]Photo{photo}, s.photos...)

	if err := s.persistLocked(); err != nil {
		return &photo, err
	}
	return &photo, nil
}

// Delete removes the record from the list and persists the update before
// touching storage. Removing the underlying files is best-effort; a photo
// that is already gone is not an error, so Delete is idempotent.
func (s *Store) Delete(ctx context.Context, photo Photo) error {
	s.mu.Lock()
	s.loadLocked()

	next := s.photos[:0:0]
	for _, p := range s.photos {
		if p.Filepath != photo.Filepath {
			next = append(next, p)
		}
	}
	s.photos = next
	err := s.persistLocked()
	s.mu.Unlock()

	_ = os.Remove(filepath.Join(s.dir, photo.Filepath))
	_ = os.Remove(filepath.Join(s.dir, thumbName(photo.Filepath)))

	return err
}

// Find returns the photo record with the given filepath.
func (s *Store) Find(ctx context.Context, name string) (*Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadLocked()
	for _, p := range s.photos {
		if p.Filepath == name {
			photo := p
			photo.DisplaySource = s.displaySource(p.Filepath)
			return &photo, nil
		}
	}
	return nil, errors.NewNotFound(name)
}

// ReadBytes returns the stored bytes of a gallery photo, for re-upload.
func (s *Store) ReadBytes(photo Photo) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, photo.Filepath))
	if err != nil {
		return nil, fmt.Errorf("failed to read photo %q: %w", photo.Filepath, err)
	}
	return data, nil
}

// PhotoPath returns the on-disk path of a photo's bytes.
func (s *Store) PhotoPath(photo Photo) string {
	return filepath.Join(s.dir, photo.Filepath)
}

// ThumbnailPath returns the on-disk path of a photo's thumbnail rendition.
// The second return value reports whether the rendition exists.
func (s *Store) ThumbnailPath(photo Photo) (string, bool) {
	path := filepath.Join(s.dir, thumbName(photo.Filepath))
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// readSource fetches the raw image bytes for the store's mode: a native
// file path read in native mode, a fetchable URL in transcode mode. Either
// source kind is accepted in either mode; captures just arrive differently
// per platform.
func (s *Store) readSource(ctx context.Context, src Source) ([]byte, error) {
	switch {
	case src.Path != "":
		data, err := os.ReadFile(src.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read source image: %w", err)
		}
		return data, nil
	case src.URL != "":
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
		if err != nil {
			return nil, err
		}
		resp, err := s.httpc.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch source image: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("failed to fetch source image: status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	}
	return nil, errors.NewInvalidRequest("photo source must have a path or a URL")
}

// displaySource derives the renderable URI for a stored photo.
func (s *Store) displaySource(name string) string {
	path := filepath.Join(s.dir, name)
	if s.mode == ModeNativeFile {
		return "file://" + path
	}

	// Transcode mode: materialize a data URI from the stored bytes.
	// Read failure fails open to no display source.
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data)
}

// loadLocked hydrates the in-memory list from the slot once per process.
// Missing or corrupt metadata reads as an empty gallery.
func (s *Store) loadLocked() {
	if s.loaded {
		return
	}
	s.loaded = true

	raw, found, err := s.db.Get(Slot)
	if err != nil || !found {
		return
	}
	var photos []Photo
	if err := json.Unmarshal([]byte(raw), &photos); err != nil {
		return
	}
	s.photos = photos
}

// persistLocked writes the whole ordered list back to the slot.
func (s *Store) persistLocked() error {
	data, err := json.Marshal(s.photos)
	if err != nil {
		return err
	}
	return s.db.Set(Slot, string(data))
}

// writeThumbnail decodes the image and stores a bounded JPEG rendition
// alongside the original. Best-effort.
func (s *Store) writeThumbnail(name string, data []byte) {
	if s.thumbPx <= 0 {
		return
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return
	}
	thumb := resize.Thumbnail(uint(s.thumbPx), uint(s.thumbPx), img, resize.Lanczos3)

	f, err := os.OpenFile(filepath.Join(s.dir, thumbName(name)), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	_ = jpeg.Encode(f, thumb, &jpeg.Options{Quality: 85})
}

// newFileName assigns a collision-resistant photo file name. ULIDs keep the
// newest-first property sortable while avoiding the timestamp-collision
// problem of naming by milliseconds.
func newFileName() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		// rand.Reader does not fail in practice; fall back to a timestamp.
		return fmt.Sprintf("%d.jpg", time.Now().UnixNano())
	}
	return id.String() + ".jpg"
}

func thumbName(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + ".thumb.jpg"
}
