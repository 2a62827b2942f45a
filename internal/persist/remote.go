package persist

import (
	"context"
	"errors"
)

// ErrNotFound indicates the remote path holds no value.
var ErrNotFound = errors.New("persist: path not found")

// RemoteStore is the document store the syncer targets. Paths are
// slash-separated field addresses ("slots/3/compiledText/12"). Update
// applies a batch of fields as one write; a nil value deletes the field.
type RemoteStore interface {
	Get(ctx context.Context, path string) (string, error)
	Set(ctx context.Context, path, value string) error
	Update(ctx context.Context, fields map[string]*string) error
	Delete(ctx context.Context, path string) error
}
