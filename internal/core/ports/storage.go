package ports

import (
	"context"
	"io"
)

// PhotoStore persists uploaded photo bytes and returns a fetchable URL.
type PhotoStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}
