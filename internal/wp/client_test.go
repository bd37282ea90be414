package wp

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/daybookhq/daybook/internal/config"
	"github.com/daybookhq/daybook/internal/errors"
)

func newTestClient(url string) *Client {
	return NewClient(&config.Remote{
		APIURL:   url,
		Username: "journal",
		Password: "s3cret",
	})
}

func basicToken(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func TestGet_NoAuthHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[{"id": 7, "type": "quick-note", "title": {"rendered": "Hi"}, "acf": {"note_image": null}}]`))
	}))
	defer srv.Close()

	notes, err := newTestClient(srv.URL).QuickNotes(context.Background())
	if err != nil {
		t.Fatalf("QuickNotes failed: %v", err)
	}

	// Reads never carry credentials.
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want none on reads", gotAuth)
	}
	if len(notes) != 1 || notes[0].ID != 7 {
		t.Fatalf("notes = %+v, want one record with ID 7", notes)
	}
	if notes[0].Fields.NoteImage != nil {
		t.Errorf("NoteImage = %v, want nil", notes[0].Fields.NoteImage)
	}
}

func TestPostJSON_BasicAuth(t *testing.T) {
	var gotAuth, gotContentType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"id": 42}`))
	}))
	defer srv.Close()

	created := &Created{}
	err := newTestClient(srv.URL).PostJSON(context.Background(), "/wp/v2/quick-note", map[string]any{"title": "x"}, created)
	if err != nil {
		t.Fatalf("PostJSON failed: %v", err)
	}

	if gotAuth != basicToken("journal", "s3cret") {
		t.Errorf("Authorization = %q, want RFC 7617 basic token", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotContentType)
	}
	if !strings.Contains(string(gotBody), `"title":"x"`) {
		t.Errorf("body = %s, want JSON payload", gotBody)
	}
	if created.ID != 42 {
		t.Errorf("created.ID = %d, want 42", created.ID)
	}
}

func TestUploadMedia_Multipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wp/v2/media" {
			t.Errorf("path = %q, want /wp/v2/media", r.URL.Path)
		}
		if r.Header.Get("Authorization") == "" {
			t.Error("upload missing Authorization header")
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm: %v", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("FormFile: %v", err)
		}
		defer file.Close()
		if header.Filename != "photo.jpg" {
			t.Errorf("filename = %q, want photo.jpg", header.Filename)
		}
		data, _ := io.ReadAll(file)
		if string(data) != "jpeg-bytes" {
			t.Errorf("file data = %q, want jpeg-bytes", data)
		}
		w.Write([]byte(`{"id": 101, "source_url": "https://cdn.example/p.jpg"}`))
	}))
	defer srv.Close()

	media, err := newTestClient(srv.URL).UploadMedia(context.Background(), "photo.jpg", []byte("jpeg-bytes"))
	if err != nil {
		t.Fatalf("UploadMedia failed: %v", err)
	}
	if media.ID != 101 {
		t.Errorf("media.ID = %d, want 101", media.ID)
	}
}

func TestDo_NonSuccessCarriesServerText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"code":"rest_cannot_create"}`))
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).PostJSON(context.Background(), "/wp/v2/quick-note", map[string]any{}, nil)
	if !errors.Is(err, errors.ErrRemoteFailed) {
		t.Fatalf("error = %v, want REMOTE_FAILED", err)
	}
	if !strings.Contains(err.Error(), "rest_cannot_create") {
		t.Errorf("error = %v, want server text preserved", err)
	}
}

func TestMedia_ThumbnailURL(t *testing.T) {
	tests := []struct {
		name  string
		media Media
		want  string
	}{
		{
			name: "prefers thumbnail",
			media: Media{SourceURL: "orig", MediaDetails: &MediaDetails{Sizes: map[string]MediaSize{
				"thumbnail": {SourceURL: "thumb"},
				"medium":    {SourceURL: "med"},
			}}},
			want: "thumb",
		},
		{
			name: "falls back to medium",
			media: Media{SourceURL: "orig", MediaDetails: &MediaDetails{Sizes: map[string]MediaSize{
				"medium": {SourceURL: "med"},
			}}},
			want: "med",
		},
		{
			name:  "falls back to original",
			media: Media{SourceURL: "orig"},
			want:  "orig",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.media.ThumbnailURL(); got != tt.want {
				t.Errorf("ThumbnailURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeTitle(t *testing.T) {
	if got := DecodeTitle("Morning &amp; Coffee"); got != "Morning & Coffee" {
		t.Errorf("DecodeTitle = %q, want %q", got, "Morning & Coffee")
	}
}

func TestNoteKey(t *testing.T) {
	if got := NoteKey(TypeQuickNote, 7); got != "quick-note-7" {
		t.Errorf("NoteKey = %q, want quick-note-7", got)
	}
	if got := NoteKey(TypeDailyJournal, 12); got != "daily-journal-12" {
		t.Errorf("NoteKey = %q, want daily-journal-12", got)
	}
}

func TestParsePostType_Invalid(t *testing.T) {
	if _, err := ParsePostType("page"); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("ParsePostType error = %v, want INVALID_REQUEST", err)
	}
}
