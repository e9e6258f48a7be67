package export

import (
	"context"
	"os"
	"path"
	"path/filepath"

	"cloud.google.com/go/storage"

	config "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/config"
	"github.com/bot25-netizen/SlackChatBot/pkg/bot/support/util/exception"
	"github.com/bot25-netizen/SlackChatBot/pkg/bot/support/util/logger"
)

// Sink stores a finished export file.
type Sink interface {
	// Put stores data under objectName, creating intermediate directories or
	// prefixes as needed.
	Put(ctx context.Context, objectName string, data []byte) error
	// Close releases underlying resources.
	Close() error
}

// NewSink selects the sink for the export configuration: a GCS bucket when
// one is configured, otherwise a local directory.
func NewSink(cfg config.ExportConfig) (Sink, error) {
	if cfg.GCSBucket != "" {
		client, err := storage.NewClient(context.Background())
		if err != nil {
			return nil, exception.NewBotError(moduleName, "failed to create GCS client for export", err, false)
		}
		return &gcsSink{client: client, bucket: cfg.GCSBucket, prefix: cfg.GCSPrefix}, nil
	}
	return &localSink{dir: cfg.Directory}, nil
}

// localSink writes export files to a local directory.
type localSink struct {
	dir string
}

func (s *localSink) Put(ctx context.Context, objectName string, data []byte) error {
	fullPath := filepath.Join(s.dir, objectName)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return exception.NewBotErrorf(moduleName, "failed to create export directory", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return exception.NewBotErrorf(moduleName, "failed to write export file '%s'", fullPath, err)
	}
	logger.Debugf("Wrote export file %s (%d bytes).", fullPath, len(data))
	return nil
}

func (s *localSink) Close() error {
	return nil
}

// gcsSink uploads export files to a Google Cloud Storage bucket.
type gcsSink struct {
	client *storage.Client
	bucket string
	prefix string
}

func (s *gcsSink) Put(ctx context.Context, objectName string, data []byte) error {
	object := path.Join(s.prefix, objectName)
	w := s.client.Bucket(s.bucket).Object(object).NewWriter(ctx)
	w.ContentType = "application/octet-stream"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return exception.NewBotError(moduleName, "failed to upload export file to GCS", err, exception.IsTemporary(err))
	}
	if err := w.Close(); err != nil {
		return exception.NewBotError(moduleName, "failed to finalize GCS export upload", err, exception.IsTemporary(err))
	}
	logger.Debugf("Uploaded export file gs://%s/%s (%d bytes).", s.bucket, object, len(data))
	return nil
}

func (s *gcsSink) Close() error {
	return s.client.Close()
}
