package storage

import (
	"context"
	"io"
)

// Uploader stores an object and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (publicURL string, err error)
}

// Remover is implemented by uploaders able to take an object back,
// used to undo an upload whose metadata row could not be written.
type Remover interface {
	Remove(ctx context.Context, objectName string) error
}
