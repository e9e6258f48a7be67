package knowledge

import (
	"context"
	"io/fs"

	ports "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/ports"
	"github.com/bot25-netizen/SlackChatBot/pkg/bot/support/util/exception"
)

// EmbeddedStore serves document bodies from a file system embedded in the
// binary. This is the default backend.
type EmbeddedStore struct {
	fsys fs.FS
}

// NewEmbeddedStore creates a new EmbeddedStore over the given file system.
func NewEmbeddedStore(fsys fs.FS) *EmbeddedStore {
	return &EmbeddedStore{fsys: fsys}
}

// Read returns the full text of the named document.
func (s *EmbeddedStore) Read(ctx context.Context, filename string) (string, error) {
	data, err := fs.ReadFile(s.fsys, filename)
	if err != nil {
		return "", exception.NewBotErrorf("knowledge", "failed to read embedded document '%s'", filename, err)
	}
	return string(data), nil
}

var _ ports.DocumentStore = (*EmbeddedStore)(nil)
