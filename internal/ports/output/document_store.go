package output

import "context"

type DocumentStore interface {
	Read(ctx context.Context, path string) ([]byte, error)
	// Write replaces the file at path. A failed write leaves no file behind.
	Write(ctx context.Context, path string, data []byte) error
}
