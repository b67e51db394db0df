package iblobstore

import (
	"context"
	"io"
)

// Object describes a stored blob.
type Object struct {
	Path string
	URL  string
	Size int64
}

// IBlobStore uploads response files to external storage.
type IBlobStore interface {
	Upload(
		ctx context.Context,
		orderID string,
		name string,
		contentType string,
		content io.Reader,
	) (Object, error)
}
