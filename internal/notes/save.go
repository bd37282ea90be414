package notes

import (
	"context"
	"fmt"

	"github.com/daybookhq/daybook/internal/errors"
	"github.com/daybookhq/daybook/internal/overrides"
	"github.com/daybookhq/daybook/internal/wp"
)

// SaveInput contains the full editable state of one note. ImageID nil means
// the note is saved without an image (an explicit removal).
type SaveInput struct {
	Type     wp.PostType
	ID       int
	Title    string
	ImageID  *int
	ImageURL *string

	// quick-note fields
	ImageDescription string
	ImageLocation    string
	NotesBody        string

	// daily-journal fields
	JournalDate   string
	Mood          string
	JournalEntry  string
	JournalPrompt string
}

// SaveOutput contains the result of the Save operation.
type SaveOutput struct {
	ID      int    `json:"id"`
	NoteKey string `json:"note_key"`
}

// quickNotePayload is the update/create body for quick notes.
type quickNotePayload struct {
	Status string             `json:"status,omitempty"`
	Title  string             `json:"title"`
	Fields wp.QuickNoteFields `json:"acf"`
}

// dailyJournalPayload is the update/create body for daily journals.
type dailyJournalPayload struct {
	Status string                `json:"status,omitempty"`
	Title  string                `json:"title"`
	Fields wp.DailyJournalFields `json:"acf"`
}

// Save posts the note update and, on success, records the image override so
// the list and the editor's next load reflect the saved image immediately,
// before the remote catches up. Removals are recorded as an explicit null.
func Save(ctx context.Context, client *wp.Client, cache *overrides.Cache, input SaveInput) (*SaveOutput, error) {
	if input.ID <= 0 {
		return nil, errors.NewInvalidRequest("id is required")
	}

	path := fmt.Sprintf("/wp/v2/%s/%d", input.Type, input.ID)

	switch input.Type {
	case wp.TypeQuickNote:
		if err := client.PostJSON(ctx, path, quickNoteBody("", input), nil); err != nil {
			return nil, err
		}
	case wp.TypeDailyJournal:
		if err := client.PostJSON(ctx, path, dailyJournalBody("", input), nil); err != nil {
			return nil, err
		}
	default:
		return nil, errors.NewInvalidRequest("unknown note type")
	}

	key := wp.NoteKey(input.Type, input.ID)
	if err := cache.Set(key, input.ImageID, input.ImageURL); err != nil {
		return nil, err
	}

	return &SaveOutput{ID: input.ID, NoteKey: key}, nil
}

func quickNoteBody(status string, input SaveInput) quickNotePayload {
	return quickNotePayload{
		Status: status,
		Title:  input.Title,
		Fields: wp.QuickNoteFields{
			NoteImage:        input.ImageID,
			ImageDescription: input.ImageDescription,
			ImageLocation:    input.ImageLocation,
			NotesBody:        input.NotesBody,
		},
	}
}

func dailyJournalBody(status string, input SaveInput) dailyJournalPayload {
	return dailyJournalPayload{
		Status: status,
		Title:  input.Title,
		Fields: wp.DailyJournalFields{
			JournalDate:   input.JournalDate,
			Mood:          string(SanitizeMood(input.Mood)),
			JournalImage:  input.ImageID,
			JournalEntry:  input.JournalEntry,
			JournalPrompt: input.JournalPrompt,
		},
	}
}
