package wp

import (
	"fmt"
	"html"

	"github.com/daybookhq/daybook/internal/errors"
)

// PostType identifies one of the two note record kinds.
type PostType string

const (
	TypeQuickNote    PostType = "quick-note"
	TypeDailyJournal PostType = "daily-journal"
)

// ParsePostType validates a post type string.
func ParsePostType(s string) (PostType, error) {
	switch PostType(s) {
	case TypeQuickNote, TypeDailyJournal:
		return PostType(s), nil
	}
	return "", errors.NewInvalidRequest(fmt.Sprintf("type must be one of: %s, %s", TypeQuickNote, TypeDailyJournal))
}

// NoteKey builds the composite identity used to key image overrides.
func NoteKey(t PostType, id int) string {
	return fmt.Sprintf("%s-%d", t, id)
}

// RenderedText is WordPress's rendered-field wrapper.
type RenderedText struct {
	Rendered string `json:"rendered"`
}

// QuickNoteFields is the ACF field group for quick notes.
type QuickNoteFields struct {
	NoteImage        *int   `json:"note_image"`
	ImageDescription string `json:"image_description"`
	ImageLocation    string `json:"image_location"`
	NotesBody        string `json:"notes_body"`
}

// QuickNote is a quick-note record as returned by the content API.
type QuickNote struct {
	ID       int             `json:"id"`
	Date     string          `json:"date"`
	Modified string          `json:"modified"`
	Type     PostType        `json:"type"`
	Title    RenderedText    `json:"title"`
	Fields   QuickNoteFields `json:"acf"`
}

// DailyJournalFields is the ACF field group for daily journals.
// JournalDate is a YYYYMMDD string.
type DailyJournalFields struct {
	JournalDate   string `json:"journal_date"`
	Mood          string `json:"mood"`
	JournalImage  *int   `json:"journal_image"`
	JournalEntry  string `json:"journal_entry"`
	JournalPrompt string `json:"journal_prompt"`
}

// DailyJournal is a daily-journal record as returned by the content API.
type DailyJournal struct {
	ID       int                `json:"id"`
	Date     string             `json:"date"`
	Modified string             `json:"modified"`
	Type     PostType           `json:"type"`
	Title    RenderedText       `json:"title"`
	Fields   DailyJournalFields `json:"acf"`
}

// MediaSize is one named rendition of a media asset.
type MediaSize struct {
	SourceURL string `json:"source_url"`
}

// MediaDetails carries the optional rendition map of a media record.
type MediaDetails struct {
	Sizes map[string]MediaSize `json:"sizes,omitempty"`
}

// Media is a media record with an original asset URL and optional renditions.
type Media struct {
	ID           int           `json:"id"`
	SourceURL    string        `json:"source_url"`
	MediaDetails *MediaDetails `json:"media_details,omitempty"`
}

// ThumbnailURL picks the smallest useful rendition: thumbnail, then medium,
// then the original asset URL.
func (m *Media) ThumbnailURL() string {
	if m.MediaDetails != nil {
		if s, ok := m.MediaDetails.Sizes["thumbnail"]; ok && s.SourceURL != "" {
			return s.SourceURL
		}
		if s, ok := m.MediaDetails.Sizes["medium"]; ok && s.SourceURL != "" {
			return s.SourceURL
		}
	}
	return m.SourceURL
}

// Created is the response shape of a create call; only the new ID is consumed.
type Created struct {
	ID int `json:"id"`
}

// DecodeTitle converts an HTML-entity-encoded rendered title to plain text.
func DecodeTitle(s string) string {
	return html.UnescapeString(s)
}
