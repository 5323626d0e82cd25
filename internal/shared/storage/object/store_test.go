package object

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"agri-backend/internal/shared/util"
)

func TestNewKeyNamespacesOwner(t *testing.T) {
	key, err := NewKey("google:42", "plot 7/sample.jpg")
	if err != nil {
		t.Fatalf("NewKey: %v", err)
	}
	parts := strings.SplitN(key, "/", 2)
	if len(parts) != 2 {
		t.Fatalf("unexpected key %q", key)
	}
	if dir, _ := util.OwnerDir("google:42"); parts[0] != dir {
		t.Fatalf("owner segment not hashed: %q", parts[0])
	}
	if !strings.HasSuffix(parts[1], "_plot 7_sample.jpg") {
		t.Fatalf("unexpected file segment %q", parts[1])
	}
}

func TestNewKeyRequiresOwner(t *testing.T) {
	if _, err := NewKey("", "sample.jpg"); !errors.Is(err, util.ErrEmptyOwner) {
		t.Fatalf("expected ErrEmptyOwner, got %v", err)
	}
}

func TestNewKeyRejectsTraversal(t *testing.T) {
	if _, err := NewKey("u1", "../etc/passwd"); err == nil {
		t.Fatalf("expected error for traversal")
	}
}

func TestSniffReplaysHead(t *testing.T) {
	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 600)...)
	ct, r, err := Sniff(bytes.NewReader(png))
	if err != nil {
		t.Fatalf("Sniff: %v", err)
	}
	if ct != "image/png" {
		t.Fatalf("content type = %q", ct)
	}
	counter := &CountingReader{R: r}
	got, err := io.ReadAll(counter)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, png) || counter.N != int64(len(png)) {
		t.Fatalf("replayed %d bytes, want %d", counter.N, len(png))
	}
}

func TestJoinPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "owner/sample.jpg", want: "owner/sample.jpg"},
		{name: "simple prefix", prefix: "soil", key: "owner/sample.jpg", want: "soil/owner/sample.jpg"},
		{name: "prefix trailing slash", prefix: "soil/", key: "owner/sample.jpg", want: "soil/owner/sample.jpg"},
		{name: "prefix and key slashes", prefix: "/soil/", key: "/owner/sample.jpg", want: "soil/owner/sample.jpg"},
		{name: "empty key", prefix: "soil", key: "", want: "soil"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := JoinPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("JoinPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}
