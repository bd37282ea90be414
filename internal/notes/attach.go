package notes

import (
	"context"

	"github.com/daybookhq/daybook/internal/errors"
	"github.com/daybookhq/daybook/internal/gallery"
	"github.com/daybookhq/daybook/internal/wp"
)

// AttachInput locates the image to attach: either a fresh capture (Source)
// or a photo already in the local gallery (GalleryFile).
type AttachInput struct {
	Source      gallery.Source
	GalleryFile string
}

// AttachOutput contains the uploaded media identity for the editor to save.
type AttachOutput struct {
	MediaID     int    `json:"media_id"`
	DisplayURL  string `json:"display_url"`
	GalleryFile string `json:"gallery_file"`
}

// AttachImage prepares a note image: a fresh capture is first saved into the
// local gallery (so it shows up there for reuse), then the bytes are
// uploaded to the media endpoint. The returned media ID is what the editor
// writes into the note record on save.
func AttachImage(ctx context.Context, client *wp.Client, store *gallery.Store, input AttachInput) (*AttachOutput, error) {
	var photo *gallery.Photo

	switch {
	case input.GalleryFile != "":
		found, err := store.Find(ctx, input.GalleryFile)
		if err != nil {
			return nil, err
		}
		photo = found
	case input.Source.Path != "" || input.Source.URL != "":
		added, err := store.Add(ctx, input.Source)
		if err != nil {
			return nil, err
		}
		photo = added
	default:
		return nil, errors.NewInvalidRequest("attach requires a capture source or a gallery file")
	}

	data, err := store.ReadBytes(*photo)
	if err != nil {
		return nil, err
	}

	media, err := client.UploadMedia(ctx, photo.Filepath, data)
	if err != nil {
		return nil, err
	}

	return &AttachOutput{
		MediaID:     media.ID,
		DisplayURL:  media.ThumbnailURL(),
		GalleryFile: photo.Filepath,
	}, nil
}
