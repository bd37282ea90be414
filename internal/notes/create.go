package notes

import (
	"context"
	"fmt"
	"time"

	"github.com/daybookhq/daybook/internal/errors"
	"github.com/daybookhq/daybook/internal/overrides"
	"github.com/daybookhq/daybook/internal/wp"
)

// CreateOutput contains the result of the Create operation.
type CreateOutput struct {
	ID      int    `json:"id"`
	NoteKey string `json:"note_key"`
}

// Create publishes a new note and records the image override under the
// newly assigned identifier, so the list shows the right thumbnail even
// while the remote list response is still stale.
func Create(ctx context.Context, client *wp.Client, cache *overrides.Cache, input SaveInput) (*CreateOutput, error) {
	path := fmt.Sprintf("/wp/v2/%s", input.Type)
	created := &wp.Created{}

	switch input.Type {
	case wp.TypeQuickNote:
		if err := client.PostJSON(ctx, path, quickNoteBody("publish", input), created); err != nil {
			return nil, err
		}
	case wp.TypeDailyJournal:
		if input.JournalDate == "" {
			input.JournalDate = FormatEntryDate(time.Now())
		}
		if err := client.PostJSON(ctx, path, dailyJournalBody("publish", input), created); err != nil {
			return nil, err
		}
	default:
		return nil, errors.NewInvalidRequest("unknown note type")
	}

	key := wp.NoteKey(input.Type, created.ID)
	if err := cache.Set(key, input.ImageID, input.ImageURL); err != nil {
		return nil, err
	}

	return &CreateOutput{ID: created.ID, NoteKey: key}, nil
}
