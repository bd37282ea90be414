package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var noteListToolDef = mcp.NewTool("note_list",
	mcp.WithDescription("List all quick notes and daily journals, newest first, with resolved thumbnail URLs."),
)

var noteFetchToolDef = mcp.NewTool("note_fetch",
	mcp.WithDescription("Fetch a single note or journal by type and ID for viewing or editing."),
	mcp.WithString("type",
		mcp.Description("Post type: quick-note or daily-journal"),
		mcp.Required(),
	),
	mcp.WithNumber("id",
		mcp.Description("Post ID"),
		mcp.Required(),
	),
)

var noteSaveToolDef = mcp.NewTool("note_save",
	mcp.WithDescription("Update an existing note or journal. Pass image_id to change the image, or omit it to remove the image."),
	mcp.WithString("type",
		mcp.Description("Post type: quick-note or daily-journal"),
		mcp.Required(),
	),
	mcp.WithNumber("id",
		mcp.Description("Post ID"),
		mcp.Required(),
	),
	mcp.WithString("title", mcp.Description("Post title")),
	mcp.WithNumber("image_id", mcp.Description("Media library ID of the attached image")),
	mcp.WithString("image_url", mcp.Description("Display URL for the attached image")),
	mcp.WithString("image_description", mcp.Description("Quick note image description")),
	mcp.WithString("image_location", mcp.Description("Quick note image location")),
	mcp.WithString("notes_body", mcp.Description("Quick note body text (Markdown)")),
	mcp.WithString("journal_date", mcp.Description("Journal entry date as YYYYMMDD")),
	mcp.WithString("mood", mcp.Description("Journal mood (Happy, Calm, Neutral, Tired, Stressed, Anxious, Excited)")),
	mcp.WithString("journal_entry", mcp.Description("Journal entry text (Markdown)")),
	mcp.WithString("journal_prompt", mcp.Description("Journal prompt the entry responds to")),
)

var noteCreateToolDef = mcp.NewTool("note_create",
	mcp.WithDescription("Create and publish a new note or journal."),
	mcp.WithString("type",
		mcp.Description("Post type: quick-note or daily-journal"),
		mcp.Required(),
	),
	mcp.WithString("title", mcp.Description("Post title")),
	mcp.WithNumber("image_id", mcp.Description("Media library ID of the attached image")),
	mcp.WithString("image_url", mcp.Description("Display URL for the attached image")),
	mcp.WithString("image_description", mcp.Description("Quick note image description")),
	mcp.WithString("image_location", mcp.Description("Quick note image location")),
	mcp.WithString("notes_body", mcp.Description("Quick note body text (Markdown)")),
	mcp.WithString("journal_date", mcp.Description("Journal entry date as YYYYMMDD; defaults to today")),
	mcp.WithString("mood", mcp.Description("Journal mood (Happy, Calm, Neutral, Tired, Stressed, Anxious, Excited)")),
	mcp.WithString("journal_entry", mcp.Description("Journal entry text (Markdown)")),
	mcp.WithString("journal_prompt", mcp.Description("Journal prompt the entry responds to")),
)

var noteAttachToolDef = mcp.NewTool("note_attach_image",
	mcp.WithDescription("Upload an image to the media library for use on a note. A fresh capture (path or url) is also saved to the local gallery; gallery_file reuses an existing gallery photo."),
	mcp.WithString("path", mcp.Description("Local filesystem path of the image to attach")),
	mcp.WithString("url", mcp.Description("HTTP(S) URL of the image to attach")),
	mcp.WithString("gallery_file", mcp.Description("Filename of an existing gallery photo to reuse")),
)

var galleryListToolDef = mcp.NewTool("gallery_list",
	mcp.WithDescription("List photos in the local gallery, newest first."),
)

var galleryAddToolDef = mcp.NewTool("gallery_add",
	mcp.WithDescription("Save an image into the local gallery from a filesystem path or URL."),
	mcp.WithString("path", mcp.Description("Local filesystem path of the image")),
	mcp.WithString("url", mcp.Description("HTTP(S) URL of the image")),
)

var galleryDeleteToolDef = mcp.NewTool("gallery_delete",
	mcp.WithDescription("Delete a photo from the local gallery."),
	mcp.WithString("file",
		mcp.Description("Filename of the gallery photo to delete"),
		mcp.Required(),
	),
)
