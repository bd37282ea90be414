package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/daybookhq/daybook/internal/errors"
	"github.com/daybookhq/daybook/internal/gallery"
	"github.com/daybookhq/daybook/internal/notes"
	"github.com/daybookhq/daybook/internal/overrides"
	"github.com/daybookhq/daybook/internal/web"
	"github.com/daybookhq/daybook/internal/wp"
)

// deps holds the shared services CLI commands run against. The remote
// client is built lazily so purely local commands (gallery) work without
// the remote environment configured.
type deps struct {
	remote func() (*wp.Client, error)
	cache  *overrides.Cache
	store  *gallery.Store
}

// newCLIApp creates the CLI application with all commands.
func newCLIApp(d *deps) *cli.App {
	app := &cli.App{
		Name:    "daybook",
		Usage:   "Quick notes and daily journals on a WordPress backend",
		Version: Version,
		Commands: []*cli.Command{
			listCmd(d),
			showCmd(d),
			createCmd(d),
			editCmd(d),
			attachCmd(d),
			galleryCmd(d),
			clearCacheCmd(d),
			webCmd(d),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// listCmd creates the list command.
func listCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List all notes and journals, newest first",
		Action: func(c *cli.Context) error {
			client, err := d.remote()
			if err != nil {
				return outputError(err)
			}

			output, err := notes.List(c.Context, client, d.cache)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// showCmd creates the show command.
func showCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a single note or journal",
		ArgsUsage: "<type> <id>",
		Action: func(c *cli.Context) error {
			noteType, id, err := parseNoteArgs(c)
			if err != nil {
				return outputError(err)
			}

			client, err := d.remote()
			if err != nil {
				return outputError(err)
			}

			output, err := notes.Fetch(c.Context, client, d.cache, notes.FetchInput{Type: noteType, ID: id})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// noteFlags are the content flags shared by create and edit.
func noteFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Post title"},
		&cli.IntFlag{Name: "image-id", Usage: "Media library ID of the attached image (omit to clear)"},
		&cli.StringFlag{Name: "image-url", Usage: "Display URL for the attached image"},
		&cli.StringFlag{Name: "description", Usage: "Quick note image description"},
		&cli.StringFlag{Name: "location", Usage: "Quick note image location"},
		&cli.StringFlag{Name: "date", Usage: "Journal entry date (YYYYMMDD, defaults to today)"},
		&cli.StringFlag{Name: "mood", Usage: "Journal mood (defaults to Neutral)"},
		&cli.StringFlag{Name: "prompt", Usage: "Journal prompt the entry responds to"},
	}
}

// noteInput builds a SaveInput from command flags. The body (notes_body or
// journal_entry, by type) is read from stdin when piped.
func noteInput(c *cli.Context, noteType wp.PostType) (notes.SaveInput, error) {
	input := notes.SaveInput{
		Type:             noteType,
		Title:            c.String("title"),
		ImageDescription: c.String("description"),
		ImageLocation:    c.String("location"),
		JournalDate:      c.String("date"),
		Mood:             c.String("mood"),
		JournalPrompt:    c.String("prompt"),
	}

	if c.IsSet("image-id") {
		id := c.Int("image-id")
		input.ImageID = &id
	}
	if url := c.String("image-url"); url != "" {
		input.ImageURL = &url
	}

	if stdinHasData() {
		body, err := readStdin()
		if err != nil {
			return input, errors.NewInternal(err)
		}
		if noteType == wp.TypeDailyJournal {
			input.JournalEntry = body
		} else {
			input.NotesBody = body
		}
	}

	return input, nil
}

// createCmd creates the create command.
func createCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Create and publish a new note or journal (reads the body from stdin)",
		ArgsUsage: "<type>",
		Flags:     noteFlags(),
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("usage: create <type>"))
			}
			noteType, err := wp.ParsePostType(c.Args().Get(0))
			if err != nil {
				return outputError(err)
			}

			input, err := noteInput(c, noteType)
			if err != nil {
				return outputError(err)
			}

			client, err := d.remote()
			if err != nil {
				return outputError(err)
			}

			output, err := notes.Create(c.Context, client, d.cache, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// editCmd creates the edit command.
func editCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Update an existing note or journal (reads the body from stdin)",
		ArgsUsage: "<type> <id>",
		Flags:     noteFlags(),
		Action: func(c *cli.Context) error {
			noteType, id, err := parseNoteArgs(c)
			if err != nil {
				return outputError(err)
			}

			input, err := noteInput(c, noteType)
			if err != nil {
				return outputError(err)
			}
			input.ID = id

			client, err := d.remote()
			if err != nil {
				return outputError(err)
			}

			output, err := notes.Save(c.Context, client, d.cache, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// attachCmd creates the attach command.
func attachCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "attach",
		Usage: "Upload an image to the media library, saving fresh captures to the gallery",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Local image file to attach"},
			&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Usage: "Image URL to attach"},
			&cli.StringFlag{Name: "gallery-file", Aliases: []string{"g"}, Usage: "Reuse an existing gallery photo"},
		},
		Action: func(c *cli.Context) error {
			client, err := d.remote()
			if err != nil {
				return outputError(err)
			}

			output, err := notes.AttachImage(c.Context, client, d.store, notes.AttachInput{
				Source:      gallery.Source{Path: c.String("path"), URL: c.String("url")},
				GalleryFile: c.String("gallery-file"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// galleryCmd creates the gallery command with its subcommands.
func galleryCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "gallery",
		Usage: "Manage the local photo gallery",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List gallery photos, newest first",
				Action: func(c *cli.Context) error {
					photos, err := d.store.List(c.Context)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(map[string]any{"photos": photos, "count": len(photos)})
				},
			},
			{
				Name:  "add",
				Usage: "Save an image into the gallery",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Local image file"},
					&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Usage: "Image URL"},
				},
				Action: func(c *cli.Context) error {
					photo, err := d.store.Add(c.Context, gallery.Source{
						Path: c.String("path"),
						URL:  c.String("url"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(photo)
				},
			},
			{
				Name:      "rm",
				Usage:     "Delete a photo from the gallery",
				ArgsUsage: "<file>",
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return outputError(errors.NewInvalidRequest("usage: gallery rm <file>"))
					}
					photo, err := d.store.Find(c.Context, c.Args().First())
					if err != nil {
						return outputError(err)
					}
					if err := d.store.Delete(c.Context, *photo); err != nil {
						return outputError(err)
					}
					return outputJSON(map[string]any{"deleted": photo.Filepath})
				},
			},
		},
	}
}

// clearCacheCmd creates the clear-cache command.
func clearCacheCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "clear-cache",
		Usage: "Drop all session image overrides; the remote becomes authoritative again",
		Action: func(c *cli.Context) error {
			if err := d.cache.Clear(); err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"cleared": true})
		},
	}
}

// webCmd creates the web command.
func webCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Serve the read-only web viewer",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8787, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			client, err := d.remote()
			if err != nil {
				return outputError(err)
			}

			srv := web.NewServer(client, d.cache, d.store, Version, c.String("bind"), c.Int("port"))
			if err := web.Run(srv); err != nil {
				return outputError(err)
			}
			return nil
		},
	}
}

// Helper functions

// parseNoteArgs extracts the <type> <id> positional arguments.
func parseNoteArgs(c *cli.Context) (wp.PostType, int, error) {
	if c.NArg() < 2 {
		return "", 0, errors.NewInvalidRequest("usage: <type> <id>, e.g. quick-note 7")
	}
	noteType, err := wp.ParsePostType(c.Args().Get(0))
	if err != nil {
		return "", 0, err
	}
	id, err := strconv.Atoi(c.Args().Get(1))
	if err != nil || id <= 0 {
		return "", 0, errors.NewInvalidRequest("note ID must be a positive integer")
	}
	return noteType, id, nil
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if dErr, ok := err.(*errors.DaybookError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", dErr.Code, dErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
