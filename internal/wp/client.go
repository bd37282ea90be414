// Package wp is the client for the WordPress-flavored content API that
// stores note records and media. Reads are unauthenticated; writes and
// uploads carry basic auth.
package wp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/daybookhq/daybook/internal/config"
	"github.com/daybookhq/daybook/internal/errors"
)

// Client issues requests against the content API.
type Client struct {
	baseURL  string
	username string
	password string
	httpc    *http.Client
}

// NewClient creates a client from remote settings.
func NewClient(remote *config.Remote) *Client {
	return &Client{
		baseURL:  strings.TrimRight(remote.APIURL, "/"),
		username: remote.Username,
		password: remote.Password,
		httpc:    http.DefaultClient,
	}
}

// url joins the base URL and a request path.
func (c *Client) url(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// do sends the request and decodes the JSON response into out.
// Non-2xx responses become REMOTE_FAILED errors carrying the server's text.
func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return errors.NewRemoteFailed(0, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewRemoteFailed(resp.StatusCode, err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.NewRemoteFailed(resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.NewRemoteFailed(resp.StatusCode, fmt.Sprintf("malformed response: %v", err))
	}
	return nil
}

// Get issues an unauthenticated GET and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return errors.NewInternal(err)
	}
	return c.do(req, out)
}

// PostJSON issues an authenticated JSON POST and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.NewInternal(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), bytes.NewReader(payload))
	if err != nil {
		return errors.NewInternal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.username, c.password)

	return c.do(req, out)
}

// UploadMedia posts binary image data to the media endpoint as
// multipart/form-data and returns the created media record.
func (c *Client) UploadMedia(ctx context.Context, filename string, data []byte) (*Media, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, errors.NewInternal(err)
	}
	if err := form.Close(); err != nil {
		return nil, errors.NewInternal(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/wp/v2/media"), &buf)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.SetBasicAuth(c.username, c.password)

	media := &Media{}
	if err := c.do(req, media); err != nil {
		return nil, err
	}
	return media, nil
}

// QuickNotes fetches all quick-note records.
func (c *Client) QuickNotes(ctx context.Context) ([]QuickNote, error) {
	var notes []QuickNote
	if err := c.Get(ctx, "/wp/v2/quick-note", &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// DailyJournals fetches all daily-journal records.
func (c *Client) DailyJournals(ctx context.Context) ([]DailyJournal, error) {
	var journals []DailyJournal
	if err := c.Get(ctx, "/wp/v2/daily-journal", &journals); err != nil {
		return nil, err
	}
	return journals, nil
}

// QuickNote fetches a single quick-note record.
func (c *Client) QuickNote(ctx context.Context, id int) (*QuickNote, error) {
	note := &QuickNote{}
	if err := c.Get(ctx, fmt.Sprintf("/wp/v2/quick-note/%d", id), note); err != nil {
		return nil, err
	}
	return note, nil
}

// DailyJournal fetches a single daily-journal record.
func (c *Client) DailyJournal(ctx context.Context, id int) (*DailyJournal, error) {
	journal := &DailyJournal{}
	if err := c.Get(ctx, fmt.Sprintf("/wp/v2/daily-journal/%d", id), journal); err != nil {
		return nil, err
	}
	return journal, nil
}

// MediaByID fetches a media record.
func (c *Client) MediaByID(ctx context.Context, id int) (*Media, error) {
	media := &Media{}
	if err := c.Get(ctx, fmt.Sprintf("/wp/v2/media/%d", id), media); err != nil {
		return nil, err
	}
	return media, nil
}
