package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/daybookhq/daybook/internal/errors"
	"github.com/daybookhq/daybook/internal/gallery"
	"github.com/daybookhq/daybook/internal/notes"
	"github.com/daybookhq/daybook/internal/overrides"
	"github.com/daybookhq/daybook/internal/wp"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	client   *wp.Client
	cache    *overrides.Cache
	store    *gallery.Store
	renderer *Renderer
}

// HandleList handles GET /notes: the merged quick-note and journal feed.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	result, err := notes.List(r.Context(), h.client, h.cache)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, r, "list", ListPageData{
		PageData: PageData{
			Title:   "Notes",
			Version: h.renderer.version,
			Nav:     "notes",
		},
		Items: result.Items,
	})
}

// HandleDetail handles GET /notes/{type}/{id}: view a single note or journal.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	noteType, err := wp.ParsePostType(r.PathValue("type"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("note ID must be a positive integer"))
		return
	}

	note, err := notes.Fetch(r.Context(), h.client, h.cache, notes.FetchInput{Type: noteType, ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, note)
		return
	}

	body := note.NotesBody
	if noteType == wp.TypeDailyJournal {
		body = note.JournalEntry
	}

	h.renderer.renderPage(w, r, "detail", DetailPageData{
		PageData: PageData{
			Title:   displayName(note.Title, string(noteType), id),
			Version: h.renderer.version,
			Nav:     "notes",
		},
		Note:         note,
		RenderedHTML: renderMarkdown(body),
		IsJournal:    noteType == wp.TypeDailyJournal,
	})
}

// HandleGallery handles GET /gallery: the local photo gallery.
func (h *Handlers) HandleGallery(w http.ResponseWriter, r *http.Request) {
	photos, err := h.store.List(r.Context())
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, map[string]any{"photos": photos})
		return
	}

	h.renderer.renderPage(w, r, "gallery", GalleryPageData{
		PageData: PageData{
			Title:   "Gallery",
			Version: h.renderer.version,
			Nav:     "gallery",
		},
		Photos: photos,
	})
}

// HandleGalleryDelete handles POST /gallery/{file}/delete: remove a photo.
func (h *Handlers) HandleGalleryDelete(w http.ResponseWriter, r *http.Request) {
	photo, err := h.store.Find(r.Context(), r.PathValue("file"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if err := h.store.Delete(r.Context(), *photo); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, map[string]any{"deleted": photo.Filepath})
		return
	}

	http.Redirect(w, r, "/gallery", http.StatusFound)
}

// HandlePhoto handles GET /photos/{file}: serve a gallery photo's bytes.
func (h *Handlers) HandlePhoto(w http.ResponseWriter, r *http.Request) {
	photo, err := h.store.Find(r.Context(), r.PathValue("file"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	http.ServeFile(w, r, h.store.PhotoPath(*photo))
}

// HandleThumbnail handles GET /photos/{file}/thumb: serve the local
// thumbnail, falling back to the full photo when none was generated.
func (h *Handlers) HandleThumbnail(w http.ResponseWriter, r *http.Request) {
	photo, err := h.store.Find(r.Context(), r.PathValue("file"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	if path, ok := h.store.ThumbnailPath(*photo); ok {
		http.ServeFile(w, r, path)
		return
	}
	http.ServeFile(w, r, h.store.PhotoPath(*photo))
}
