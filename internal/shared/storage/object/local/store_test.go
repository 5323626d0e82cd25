package local

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"testing"

	"agri-backend/internal/shared/storage/object"
)

func TestSaveOpenDelete(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()
	jpeg := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{1}, 100)...)

	obj, err := store.Save(ctx, "google:1", "sample.jpg", bytes.NewReader(jpeg))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if obj.Size != int64(len(jpeg)) || obj.ContentType != "image/jpeg" {
		t.Fatalf("unexpected object: %+v", obj)
	}

	rc, err := store.Open(ctx, obj.Key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	got, _ := io.ReadAll(rc)
	rc.Close()
	if !bytes.Equal(got, jpeg) {
		t.Fatalf("content mismatch")
	}

	if err := store.Delete(ctx, obj.Key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Open(ctx, obj.Key); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Delete(ctx, obj.Key); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestOpenRejectsTraversal(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Open(context.Background(), "../outside"); err == nil {
		t.Fatalf("expected error")
	}
}

type brokenUpload struct{}

func (brokenUpload) Read([]byte) (int, error) {
	return 0, errors.New("connection reset by peer")
}

func TestSaveRemovesPartialFile(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	head := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{1}, 2048)...)

	_, err := store.Save(context.Background(), "google:1", "field.jpg", io.MultiReader(bytes.NewReader(head), brokenUpload{}))
	if err == nil {
		t.Fatalf("expected write error")
	}

	var leftovers []string
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			leftovers = append(leftovers, path)
		}
		return nil
	})
	if walkErr != nil {
		t.Fatalf("WalkDir: %v", walkErr)
	}
	if len(leftovers) != 0 {
		t.Fatalf("expected no partial files, found %v", leftovers)
	}
}
