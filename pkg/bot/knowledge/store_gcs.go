package knowledge

import (
	"context"
	"io"
	"path"

	"cloud.google.com/go/storage"

	ports "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/ports"
	"github.com/bot25-netizen/SlackChatBot/pkg/bot/support/util/exception"
)

// GCSStore serves document bodies from a Google Cloud Storage bucket.
// It is selected with `knowledge.store: gcs` for catalogs too large or too
// frequently edited to bake into the image.
type GCSStore struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCSStore creates a new GCSStore. Credentials are resolved through the
// standard Application Default Credentials chain.
func NewGCSStore(ctx context.Context, bucket, prefix string) (*GCSStore, error) {
	if bucket == "" {
		return nil, exception.NewBotError("knowledge", "knowledge.gcs.bucket is required for the gcs store", nil, false)
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, exception.NewBotError("knowledge", "failed to create GCS client", err, false)
	}
	return &GCSStore{client: client, bucket: bucket, prefix: prefix}, nil
}

// Read returns the full text of the named document object.
func (s *GCSStore) Read(ctx context.Context, filename string) (string, error) {
	objectName := filename
	if s.prefix != "" {
		objectName = path.Join(s.prefix, filename)
	}

	r, err := s.client.Bucket(s.bucket).Object(objectName).NewReader(ctx)
	if err != nil {
		return "", exception.NewBotErrorf("knowledge", "failed to open GCS object 'gs://%s/%s'", s.bucket, objectName, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return "", exception.NewBotErrorf("knowledge", "failed to read GCS object 'gs://%s/%s'", s.bucket, objectName, err)
	}
	return string(data), nil
}

// Close releases the underlying GCS client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}

var _ ports.DocumentStore = (*GCSStore)(nil)
