package persistence

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"time"

	"cloud.google.com/go/storage"

	"github.com/cnds86/kiptrack/internal/models"
)

// GCSBackend stores each document as a JSON object in a Cloud Storage bucket.
// Changes by other writers are detected by polling the object generation.
type GCSBackend struct {
	client       *storage.Client
	bucket       string
	prefix       string
	pollInterval time.Duration
}

// NewGCSBackend creates a storage client using Application Default Credentials.
func NewGCSBackend(ctx context.Context, bucket, prefix string, pollInterval time.Duration) (*GCSBackend, error) {
	if bucket == "" {
		return nil, errors.New("gcs backend: bucket is required")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSBackend{client: client, bucket: bucket, prefix: prefix, pollInterval: pollInterval}, nil
}

// ObjectName returns the object path holding key's document.
func ObjectName(prefix, key string) string {
	return path.Join(prefix, key+".json")
}

func (b *GCSBackend) object(key string) *storage.ObjectHandle {
	return b.client.Bucket(b.bucket).Object(ObjectName(b.prefix, key))
}

// Load implements Backend.
func (b *GCSBackend) Load(ctx context.Context, key string) (*models.AppData, error) {
	doc, _, err := b.fetch(ctx, key)
	return doc, err
}

// Save implements Backend.
func (b *GCSBackend) Save(ctx context.Context, key string, data models.AppData) error {
	raw, err := encode(data)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := b.object(key).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(raw); err != nil {
		_ = w.Close()
		return fmt.Errorf("write GCS object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize GCS upload: %w", err)
	}
	return nil
}

// Subscribe implements Backend.
func (b *GCSBackend) Subscribe(ctx context.Context, key string, fn func(*models.AppData)) (func(), error) {
	return subscribePolling(ctx, "gcs", b.pollInterval,
		func(ctx context.Context) (string, error) { return b.generation(ctx, key) },
		func(ctx context.Context) (*models.AppData, string, error) { return b.fetch(ctx, key) },
		fn,
	)
}

// Close implements Backend.
func (b *GCSBackend) Close() error {
	return b.client.Close()
}

func (b *GCSBackend) fetch(ctx context.Context, key string) (*models.AppData, string, error) {
	r, err := b.object(key).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("open GCS object reader: %w", err)
	}
	defer r.Close()

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("read GCS object: %w", err)
	}
	doc, err := decode(raw)
	if err != nil {
		return nil, "", err
	}
	return doc, strconv.FormatInt(r.Attrs.Generation, 10), nil
}

func (b *GCSBackend) generation(ctx context.Context, key string) (string, error) {
	attrs, err := b.object(key).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read GCS object attrs: %w", err)
	}
	return strconv.FormatInt(attrs.Generation, 10), nil
}
