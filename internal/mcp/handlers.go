package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/daybookhq/daybook/internal/errors"
	"github.com/daybookhq/daybook/internal/gallery"
	"github.com/daybookhq/daybook/internal/notes"
	"github.com/daybookhq/daybook/internal/overrides"
	"github.com/daybookhq/daybook/internal/wp"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	client *wp.Client
	cache  *overrides.Cache
	store  *gallery.Store
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(client *wp.Client, cache *overrides.Cache, store *gallery.Store) *Handlers {
	return &Handlers{client: client, cache: cache, store: store}
}

// Request types for each tool

// NoteFetchRequest represents the arguments for note_fetch.
type NoteFetchRequest struct {
	Type string `json:"type"`
	ID   int    `json:"id"`
}

// NoteSaveRequest represents the arguments for note_save and note_create.
// For note_create the ID is ignored; for note_save it is required.
type NoteSaveRequest struct {
	Type             string  `json:"type"`
	ID               int     `json:"id,omitempty"`
	Title            string  `json:"title,omitempty"`
	ImageID          *int    `json:"image_id,omitempty"`
	ImageURL         *string `json:"image_url,omitempty"`
	ImageDescription string  `json:"image_description,omitempty"`
	ImageLocation    string  `json:"image_location,omitempty"`
	NotesBody        string  `json:"notes_body,omitempty"`
	JournalDate      string  `json:"journal_date,omitempty"`
	Mood             string  `json:"mood,omitempty"`
	JournalEntry     string  `json:"journal_entry,omitempty"`
	JournalPrompt    string  `json:"journal_prompt,omitempty"`
}

// NoteAttachRequest represents the arguments for note_attach_image.
type NoteAttachRequest struct {
	Path        string `json:"path,omitempty"`
	URL         string `json:"url,omitempty"`
	GalleryFile string `json:"gallery_file,omitempty"`
}

// GalleryAddRequest represents the arguments for gallery_add.
type GalleryAddRequest struct {
	Path string `json:"path,omitempty"`
	URL  string `json:"url,omitempty"`
}

// GalleryDeleteRequest represents the arguments for gallery_delete.
type GalleryDeleteRequest struct {
	File string `json:"file"`
}

// saveInput maps a tool request onto the save operation's input.
func saveInput(t wp.PostType, input NoteSaveRequest) notes.SaveInput {
	return notes.SaveInput{
		Type:             t,
		ID:               input.ID,
		Title:            input.Title,
		ImageID:          input.ImageID,
		ImageURL:         input.ImageURL,
		ImageDescription: input.ImageDescription,
		ImageLocation:    input.ImageLocation,
		NotesBody:        input.NotesBody,
		JournalDate:      input.JournalDate,
		Mood:             input.Mood,
		JournalEntry:     input.JournalEntry,
		JournalPrompt:    input.JournalPrompt,
	}
}

// Handler implementations

// HandleNoteList handles the note_list tool call.
func (h *Handlers) HandleNoteList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := notes.List(ctx, h.client, h.cache)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleNoteFetch handles the note_fetch tool call.
func (h *Handlers) HandleNoteFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[NoteFetchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	t, err := wp.ParsePostType(input.Type)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := notes.Fetch(ctx, h.client, h.cache, notes.FetchInput{Type: t, ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleNoteSave handles the note_save tool call.
func (h *Handlers) HandleNoteSave(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[NoteSaveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	t, err := wp.ParsePostType(input.Type)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := notes.Save(ctx, h.client, h.cache, saveInput(t, input))
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleNoteCreate handles the note_create tool call.
func (h *Handlers) HandleNoteCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[NoteSaveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	t, err := wp.ParsePostType(input.Type)
	if err != nil {
		return errorResult(err), nil
	}

	input.ID = 0
	result, err := notes.Create(ctx, h.client, h.cache, saveInput(t, input))
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleNoteAttach handles the note_attach_image tool call.
func (h *Handlers) HandleNoteAttach(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[NoteAttachRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := notes.AttachImage(ctx, h.client, h.store, notes.AttachInput{
		Source:      gallery.Source{Path: input.Path, URL: input.URL},
		GalleryFile: input.GalleryFile,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleGalleryList handles the gallery_list tool call.
func (h *Handlers) HandleGalleryList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	photos, err := h.store.List(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"photos": photos, "count": len(photos)})
}

// HandleGalleryAdd handles the gallery_add tool call.
func (h *Handlers) HandleGalleryAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GalleryAddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	photo, err := h.store.Add(ctx, gallery.Source{Path: input.Path, URL: input.URL})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(photo)
}

// HandleGalleryDelete handles the gallery_delete tool call.
func (h *Handlers) HandleGalleryDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GalleryDeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	photo, err := h.store.Find(ctx, input.File)
	if err != nil {
		return errorResult(err), nil
	}
	if err := h.store.Delete(ctx, *photo); err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"deleted": photo.Filepath})
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var dErr *errors.DaybookError
	if stderrors.As(err, &dErr) {
		errorObj := map[string]any{
			"code":    dErr.Code,
			"message": err.Error(),
			"status":  dErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or upstream response bodies
		if dErr.Code != errors.ErrInternal && dErr.Details != nil {
			errorObj["details"] = dErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
