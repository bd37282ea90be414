package notes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/daybookhq/daybook/internal/gallery"
	"github.com/daybookhq/daybook/internal/wp"
)

// fakeWordPress is a stateful stand-in for the remote: it assigns IDs on
// create, stores the posted ACF fields, and serves them back on reads.
type fakeWordPress struct {
	nextID int
	notes  map[int]map[string]any
}

func newFakeWordPress() *fakeWordPress {
	return &fakeWordPress{nextID: 100, notes: map[int]map[string]any{}}
}

func (f *fakeWordPress) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /wp/v2/quick-note", func(w http.ResponseWriter, r *http.Request) {
		var out []map[string]any
		for id, acf := range f.notes {
			out = append(out, f.record(id, acf))
		}
		if out == nil {
			out = []map[string]any{}
		}
		json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc("GET /wp/v2/daily-journal", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	mux.HandleFunc("POST /wp/v2/quick-note", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		id := f.nextID
		f.nextID++
		f.notes[id], _ = body["acf"].(map[string]any)
		fmt.Fprintf(w, `{"id": %d}`, id)
	})
	mux.HandleFunc("GET /wp/v2/quick-note/{id}", func(w http.ResponseWriter, r *http.Request) {
		var id int
		fmt.Sscanf(r.PathValue("id"), "%d", &id)
		acf, ok := f.notes[id]
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(f.record(id, acf))
	})
	mux.HandleFunc("POST /wp/v2/quick-note/{id}", func(w http.ResponseWriter, r *http.Request) {
		var id int
		fmt.Sscanf(r.PathValue("id"), "%d", &id)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		f.notes[id], _ = body["acf"].(map[string]any)
		fmt.Fprintf(w, `{"id": %d}`, id)
	})
	mux.HandleFunc("POST /wp/v2/media", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 501, "source_url": "https://cdn.example/501.jpg",
			"media_details": {"sizes": {"thumbnail": {"source_url": "https://cdn.example/501-150.jpg"}}}}`))
	})
	mux.HandleFunc("GET /wp/v2/media/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		fmt.Fprintf(w, `{"id": %s, "source_url": "https://cdn.example/%s.jpg",
			"media_details": {"sizes": {"thumbnail": {"source_url": "https://cdn.example/%s-150.jpg"}}}}`, id, id, id)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func (f *fakeWordPress) record(id int, acf map[string]any) map[string]any {
	return map[string]any{
		"id":    id,
		"date":  "2024-03-01T09:00:00",
		"type":  "quick-note",
		"title": map[string]any{"rendered": "Lifecycle"},
		"acf":   acf,
	}
}

// TestFullWorkflow exercises the complete note lifecycle:
// attach image → create → list → fetch → remove image → list → clear cache
func TestFullWorkflow(t *testing.T) {
	ctx := context.Background()
	srv := newFakeWordPress().server(t)
	client := newClient(srv.URL)
	cache := newCache(t)
	store := newGallery(t)

	// 1. Attach a fresh capture: saved to the gallery, uploaded as media.
	capture := filepath.Join(t.TempDir(), "capture.jpg")
	require.NoError(t, os.WriteFile(capture, []byte("jpeg-bytes"), 0600))

	attached, err := AttachImage(ctx, client, store, AttachInput{Source: gallery.Source{Path: capture}})
	require.NoError(t, err)
	require.Equal(t, 501, attached.MediaID)
	require.NotEmpty(t, attached.GalleryFile)

	photos, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, photos, 1)

	// 2. Create the note carrying the uploaded image.
	created, err := Create(ctx, client, cache, SaveInput{
		Type:      wp.TypeQuickNote,
		Title:     "Lifecycle",
		ImageID:   intPtr(attached.MediaID),
		ImageURL:  strPtr(attached.DisplayURL),
		NotesBody: "first draft",
	})
	require.NoError(t, err)
	require.Equal(t, 100, created.ID)
	require.Equal(t, "quick-note-100", created.NoteKey)

	// 3. List: the override's URL serves as the thumbnail directly.
	listed, err := List(ctx, client, cache)
	require.NoError(t, err)
	require.Len(t, listed.Items, 1)
	require.Equal(t, "https://cdn.example/501-150.jpg", listed.Items[0].ThumbnailURL)

	// 4. Fetch for editing: same image resolution as the list.
	fetched, err := Fetch(ctx, client, cache, FetchInput{Type: wp.TypeQuickNote, ID: created.ID})
	require.NoError(t, err)
	require.NotNil(t, fetched.ImageID)
	require.Equal(t, 501, *fetched.ImageID)
	require.Equal(t, "first draft", fetched.NotesBody)

	// 5. Save with the image removed.
	_, err = Save(ctx, client, cache, SaveInput{
		Type:      wp.TypeQuickNote,
		ID:        created.ID,
		Title:     "Lifecycle",
		ImageID:   nil,
		NotesBody: "second draft",
	})
	require.NoError(t, err)

	listed, err = List(ctx, client, cache)
	require.NoError(t, err)
	require.Len(t, listed.Items, 1)
	require.Nil(t, listed.Items[0].ImageID)
	require.Empty(t, listed.Items[0].ThumbnailURL)

	// 6. Clear the session cache: the remote record is authoritative again,
	// and it now agrees the image is gone.
	require.NoError(t, cache.Clear())

	fetched, err = Fetch(ctx, client, cache, FetchInput{Type: wp.TypeQuickNote, ID: created.ID})
	require.NoError(t, err)
	require.Nil(t, fetched.ImageID)
	require.Equal(t, "second draft", fetched.NotesBody)
}
