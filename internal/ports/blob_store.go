package ports

import (
	"context"
	"errors"
)

var (
	ErrBlobNotFound = errors.New("blob not found")
	ErrBlobExists   = errors.New("blob already exists")
	ErrBlobPath     = errors.New("blob path escapes storage root")
)

// BlobStore is byte storage rooted at one directory. Paths are relative to
// that root and use forward slashes.
type BlobStore interface {
	ReadBytes(ctx context.Context, relPath string) ([]byte, error)
	// WriteBytes never overwrites; an existing file yields ErrBlobExists.
	WriteBytes(ctx context.Context, relPath string, data []byte) error
	Exists(ctx context.Context, relPath string) (bool, error)
	// Abs returns the filesystem location of a root-relative path.
	Abs(relPath string) (string, error)
	// Rel maps a relative or absolute path to a root-relative one. ok is
	// false when the path lies outside the root.
	Rel(path string) (rel string, ok bool)
}
