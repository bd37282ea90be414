package notes

import (
	"context"
	"time"

	"github.com/daybookhq/daybook/internal/errors"
	"github.com/daybookhq/daybook/internal/overrides"
	"github.com/daybookhq/daybook/internal/wp"
)

// FetchInput identifies the note to load.
type FetchInput struct {
	Type wp.PostType
	ID   int
}

// FetchOutput is a single note with its effective image state resolved.
// Type decides which field group is populated.
type FetchOutput struct {
	ID       int         `json:"id"`
	Type     wp.PostType `json:"type"`
	Title    string      `json:"title"`
	Date     string      `json:"date"`
	ImageID  *int        `json:"image_id,omitempty"`
	ImageURL string      `json:"image_url,omitempty"`

	// quick-note fields
	ImageDescription string `json:"image_description,omitempty"`
	ImageLocation    string `json:"image_location,omitempty"`
	NotesBody        string `json:"notes_body,omitempty"`

	// daily-journal fields
	JournalDate   string `json:"journal_date,omitempty"`
	Mood          Mood   `json:"mood,omitempty"`
	JournalEntry  string `json:"journal_entry,omitempty"`
	JournalPrompt string `json:"journal_prompt,omitempty"`
}

// Fetch loads one note and applies the override rule to its image field,
// exactly as the list does per row. The image URL lookup is an enrichment:
// its failure leaves the URL blank rather than failing the load.
func Fetch(ctx context.Context, client *wp.Client, cache *overrides.Cache, input FetchInput) (*FetchOutput, error) {
	key := wp.NoteKey(input.Type, input.ID)

	out := &FetchOutput{ID: input.ID, Type: input.Type}

	var remoteImage *int
	switch input.Type {
	case wp.TypeQuickNote:
		note, err := client.QuickNote(ctx, input.ID)
		if err != nil {
			return nil, remapNotFound(err, key)
		}
		out.Title = wp.DecodeTitle(note.Title.Rendered)
		out.Date = note.Date
		out.ImageDescription = note.Fields.ImageDescription
		out.ImageLocation = note.Fields.ImageLocation
		out.NotesBody = note.Fields.NotesBody
		remoteImage = note.Fields.NoteImage
	case wp.TypeDailyJournal:
		journal, err := client.DailyJournal(ctx, input.ID)
		if err != nil {
			return nil, remapNotFound(err, key)
		}
		out.Title = wp.DecodeTitle(journal.Title.Rendered)
		out.Date = journal.Date
		out.JournalDate = journal.Fields.JournalDate
		if out.JournalDate == "" {
			out.JournalDate = FormatEntryDate(time.Now())
		}
		out.Mood = SanitizeMood(journal.Fields.Mood)
		out.JournalEntry = journal.Fields.JournalEntry
		out.JournalPrompt = journal.Fields.JournalPrompt
		remoteImage = journal.Fields.JournalImage
	default:
		return nil, errors.NewInvalidRequest("unknown note type")
	}

	entry, ok := cache.Get(key)
	out.ImageID = cache.Resolve(key, remoteImage)

	switch {
	case ok && entry.ImageID == nil:
		// Removed this session.
	case ok && entry.ImageURL != nil:
		out.ImageURL = *entry.ImageURL
	case out.ImageID != nil:
		if media, err := client.MediaByID(ctx, *out.ImageID); err == nil {
			out.ImageURL = media.ThumbnailURL()
		}
	}

	return out, nil
}

// remapNotFound turns a remote 404 into a NOT_FOUND error keyed by the note.
func remapNotFound(err error, key string) error {
	var dErr *errors.DaybookError
	if e, ok := err.(*errors.DaybookError); ok {
		dErr = e
	}
	if dErr != nil && dErr.Code == errors.ErrRemoteFailed && dErr.Status == 404 {
		return errors.NewNotFound(key)
	}
	return err
}
