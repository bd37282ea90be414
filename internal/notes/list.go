package notes

import (
	"context"
	"sort"
	"sync"

	"github.com/daybookhq/daybook/internal/overrides"
	"github.com/daybookhq/daybook/internal/wp"
)

// Item is one row of the merged note list.
type Item struct {
	ID           int         `json:"id"`
	Type         wp.PostType `json:"type"`
	Title        string      `json:"title"`
	Date         string      `json:"date"`
	ImageID      *int        `json:"image_id,omitempty"`
	ThumbnailURL string      `json:"thumbnail_url,omitempty"`
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items []Item `json:"items"`
}

// List merges quick notes and daily journals into a single newest-first
// list. Each row's image field is resolved through the override cache, and
// thumbnail URLs are looked up once per distinct image ID. A row whose
// thumbnail fails to resolve renders blank; the batch never aborts for it.
func List(ctx context.Context, client *wp.Client, cache *overrides.Cache) (*ListOutput, error) {
	var (
		quickNotes []wp.QuickNote
		journals   []wp.DailyJournal
		qnErr      error
		djErr      error
		wg         sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		quickNotes, qnErr = client.QuickNotes(ctx)
	}()
	go func() {
		defer wg.Done()
		journals, djErr = client.DailyJournals(ctx)
	}()
	wg.Wait()

	if qnErr != nil {
		return nil, qnErr
	}
	if djErr != nil {
		return nil, djErr
	}

	items := make([]Item, 0, len(quickNotes)+len(journals))
	for _, n := range quickNotes {
		items = append(items, Item{
			ID:      n.ID,
			Type:    wp.TypeQuickNote,
			Title:   wp.DecodeTitle(n.Title.Rendered),
			Date:    n.Date,
			ImageID: cache.Resolve(wp.NoteKey(wp.TypeQuickNote, n.ID), n.Fields.NoteImage),
		})
	}
	for _, j := range journals {
		items = append(items, Item{
			ID:      j.ID,
			Type:    wp.TypeDailyJournal,
			Title:   wp.DecodeTitle(j.Title.Rendered),
			Date:    j.Date,
			ImageID: cache.Resolve(wp.NoteKey(wp.TypeDailyJournal, j.ID), j.Fields.JournalImage),
		})
	}

	sort.SliceStable(items, func(i, k int) bool {
		return parseNoteDate(items[i].Date).After(parseNoteDate(items[k].Date))
	})

	thumbs := resolveThumbnails(ctx, client, items)

	for i := range items {
		entry, ok := cache.Get(wp.NoteKey(items[i].Type, items[i].ID))
		switch {
		case ok && entry.ImageID == nil:
			// Removed this session: no thumbnail regardless of the remote.
		case ok && entry.ImageURL != nil:
			items[i].ThumbnailURL = *entry.ImageURL
		case items[i].ImageID != nil:
			items[i].ThumbnailURL = thumbs[*items[i].ImageID]
		}
	}

	return &ListOutput{Items: items}, nil
}

// resolveThumbnails fans out one media lookup per distinct image ID and
// waits for all of them to settle. Individual failures leave that ID out of
// the map.
func resolveThumbnails(ctx context.Context, client *wp.Client, items []Item) map[int]string {
	distinct := make(map[int]bool)
	for _, item := range items {
		if item.ImageID != nil {
			distinct[*item.ImageID] = true
		}
	}

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		thumbs = make(map[int]string, len(distinct))
	)
	for id := range distinct {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			media, err := client.MediaByID(ctx, id)
			if err != nil {
				return
			}
			url := media.ThumbnailURL()
			if url == "" {
				return
			}
			mu.Lock()
			thumbs[id] = url
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	return thumbs
}
