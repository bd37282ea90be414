package gallery

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/daybookhq/daybook/internal/kv"
)

// makeJPEG encodes a small solid-color JPEG for use as capture bytes.
func makeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("jpeg.Encode: %v", err)
	}
	return buf.Bytes()
}

// writeCapture drops capture bytes into a temp file and returns its path.
func writeCapture(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.jpg")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func setupStore(t *testing.T, mode Mode) (*Store, *kv.DB) {
	t.Helper()
	db, err := kv.Init(t.TempDir())
	if err != nil {
		t.Fatalf("kv.Init failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := NewStore(filepath.Join(t.TempDir(), "photos"), db, mode, 64)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return store, db
}

func TestList_EmptyWhenNoMetadata(t *testing.T) {
	store, _ := setupStore(t, ModeNativeFile)

	photos, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(photos) != 0 {
		t.Errorf("List = %d photos, want 0", len(photos))
	}
}

func TestList_CorruptMetadataReadsEmpty(t *testing.T) {
	store, db := setupStore(t, ModeNativeFile)

	if err := db.Set(Slot, `[{"broken`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	photos, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(photos) != 0 {
		t.Errorf("List = %d photos, want 0 for corrupt metadata", len(photos))
	}
}

func TestAdd_PrependsNewestFirst(t *testing.T) {
	store, _ := setupStore(t, ModeNativeFile)
	ctx := context.Background()
	data := makeJPEG(t, 10, 10)

	first, err := store.Add(ctx, Source{Path: writeCapture(t, data)})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	second, err := store.Add(ctx, Source{Path: writeCapture(t, data)})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	photos, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(photos) != 2 {
		t.Fatalf("List = %d photos, want 2", len(photos))
	}
	if photos[0].Filepath != second.Filepath {
		t.Errorf("head = %q, want newest photo %q", photos[0].Filepath, second.Filepath)
	}
	if photos[1].Filepath != first.Filepath {
		t.Errorf("tail = %q, want oldest photo %q", photos[1].Filepath, first.Filepath)
	}
}

func TestAdd_CollisionResistantNames(t *testing.T) {
	store, _ := setupStore(t, ModeNativeFile)
	ctx := context.Background()
	data := makeJPEG(t, 10, 10)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		photo, err := store.Add(ctx, Source{Path: writeCapture(t, data)})
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if seen[photo.Filepath] {
			t.Fatalf("duplicate file name %q", photo.Filepath)
		}
		seen[photo.Filepath] = true
	}
}

func TestAdd_FromURL(t *testing.T) {
	data := makeJPEG(t, 10, 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer srv.Close()

	store, _ := setupStore(t, ModeTranscode)

	photo, err := store.Add(context.Background(), Source{URL: srv.URL + "/capture.jpg"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	stored, err := store.ReadBytes(*photo)
	if err != nil {
		t.Fatalf("ReadBytes failed: %v", err)
	}
	if !bytes.Equal(stored, data) {
		t.Error("stored bytes differ from fetched source")
	}
}

func TestAdd_WritesThumbnailRendition(t *testing.T) {
	store, _ := setupStore(t, ModeNativeFile)

	photo, err := store.Add(context.Background(), Source{Path: writeCapture(t, makeJPEG(t, 400, 300))})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	path, ok := store.ThumbnailPath(*photo)
	if !ok {
		t.Fatal("thumbnail rendition missing")
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open thumbnail: %v", err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if cfg.Width > 64 || cfg.Height > 64 {
		t.Errorf("thumbnail = %dx%d, want bounded to 64px", cfg.Width, cfg.Height)
	}
}

func TestDisplaySource_NativeMode(t *testing.T) {
	store, _ := setupStore(t, ModeNativeFile)

	photo, err := store.Add(context.Background(), Source{Path: writeCapture(t, makeJPEG(t, 10, 10))})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if !strings.HasPrefix(photo.DisplaySource, "file://") {
		t.Errorf("DisplaySource = %q, want file:// URI in native mode", photo.DisplaySource)
	}
}

func TestDisplaySource_TranscodeMode(t *testing.T) {
	store, _ := setupStore(t, ModeTranscode)
	ctx := context.Background()
	data := makeJPEG(t, 10, 10)

	if _, err := store.Add(ctx, Source{Path: writeCapture(t, data)}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	photos, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	const prefix = "data:image/jpeg;base64,"
	if !strings.HasPrefix(photos[0].DisplaySource, prefix) {
		t.Fatalf("DisplaySource = %.40q, want data URI in transcode mode", photos[0].DisplaySource)
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(photos[0].DisplaySource, prefix))
	if err != nil {
		t.Fatalf("base64 decode: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Error("rehydrated bytes differ from stored photo")
	}
}

func TestDelete_RemovesRecordAndFile(t *testing.T) {
	store, _ := setupStore(t, ModeNativeFile)
	ctx := context.Background()

	photo, err := store.Add(ctx, Source{Path: writeCapture(t, makeJPEG(t, 10, 10))})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := store.Delete(ctx, *photo); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	photos, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(photos) != 0 {
		t.Errorf("List = %d photos after delete, want 0", len(photos))
	}
	if _, err := os.Stat(store.PhotoPath(*photo)); !os.IsNotExist(err) {
		t.Error("photo file still present after delete")
	}
}

func TestDelete_Idempotent(t *testing.T) {
	store, _ := setupStore(t, ModeNativeFile)
	ctx := context.Background()

	photo, err := store.Add(ctx, Source{Path: writeCapture(t, makeJPEG(t, 10, 10))})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := store.Delete(ctx, *photo); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	// File is already gone; the cleanup failure is swallowed.
	if err := store.Delete(ctx, *photo); err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
}

func TestList_SurvivesRestart(t *testing.T) {
	db, err := kv.Init(t.TempDir())
	if err != nil {
		t.Fatalf("kv.Init failed: %v", err)
	}
	defer db.Close()

	dir := filepath.Join(t.TempDir(), "photos")
	store, err := NewStore(dir, db, ModeNativeFile, 64)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	ctx := context.Background()
	photo, err := store.Add(ctx, Source{Path: writeCapture(t, makeJPEG(t, 10, 10))})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	// A fresh store over the same slot and directory sees the same list.
	reopened, err := NewStore(dir, db, ModeNativeFile, 64)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	photos, err := reopened.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(photos) != 1 || photos[0].Filepath != photo.Filepath {
		t.Errorf("List after restart = %+v, want the persisted photo", photos)
	}
}

func TestParseMode(t *testing.T) {
	if _, err := ParseMode("native"); err != nil {
		t.Errorf("ParseMode(native) error = %v", err)
	}
	if _, err := ParseMode("transcode"); err != nil {
		t.Errorf("ParseMode(transcode) error = %v", err)
	}
	if _, err := ParseMode("hybrid"); err == nil {
		t.Error("ParseMode(hybrid) expected error")
	}
}
