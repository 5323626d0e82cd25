package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	gcs "cloud.google.com/go/storage"

	"agri-backend/internal/shared/storage/object"
)

// Store implements ObjectStore using Google Cloud Storage.
type Store struct {
	client *gcs.Client
	bucket string
	prefix string
}

// New creates a GCS-backed store. Credentials come from Application Default
// Credentials.
func New(ctx context.Context, bucket, prefix string) (*Store, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, fmt.Errorf("gcs bucket is required")
	}
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	return &Store{client: client, bucket: bucket, prefix: prefix}, nil
}

// Save uploads the reader contents under the owner's namespace.
func (s *Store) Save(ctx context.Context, ownerID string, fileName string, r io.Reader) (object.Object, error) {
	key, err := object.NewKey(ownerID, fileName)
	if err != nil {
		return object.Object{}, err
	}
	contentType, body, err := object.Sniff(r)
	if err != nil {
		return object.Object{}, err
	}

	objectKey := object.JoinPrefix(s.prefix, key)
	w := s.client.Bucket(s.bucket).Object(objectKey).NewWriter(ctx)
	w.ContentType = contentType
	written, err := io.Copy(w, body)
	if err != nil {
		w.Close()
		return object.Object{}, fmt.Errorf("gcs write %s: %w", objectKey, err)
	}
	if err := w.Close(); err != nil {
		return object.Object{}, fmt.Errorf("gcs close %s: %w", objectKey, err)
	}
	return object.Object{Key: key, Size: written, ContentType: contentType}, nil
}

// Open returns a reader for the stored object.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	objectKey := object.JoinPrefix(s.prefix, key)
	r, err := s.client.Bucket(s.bucket).Object(objectKey).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil, object.ErrNotFound
		}
		return nil, fmt.Errorf("gcs read %s: %w", objectKey, err)
	}
	return r, nil
}

// Delete removes the stored object. Missing objects are not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	objectKey := object.JoinPrefix(s.prefix, key)
	err := s.client.Bucket(s.bucket).Object(objectKey).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("gcs delete %s: %w", objectKey, err)
	}
	return nil
}

var _ object.ObjectStore = (*Store)(nil)
