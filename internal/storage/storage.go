package storage

import (
	"context"
	"io"
)

// ObjectStore uploads avatar and post images and returns a durable public
// URL that is stored verbatim on the owning record.
type ObjectStore interface {
	Put(ctx context.Context, key string, contentType string, body io.Reader) (string, error)
}
