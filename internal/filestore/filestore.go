package filestore

import (
	"errors"
	"io"
)

// ErrInvalidName is returned for names that would escape the store root.
var ErrInvalidName = errors.New("invalid file name")

// FileStore persists uploaded binaries under generated names. The returned
// name is the join key between an analysis record and its binary.
type FileStore interface {
	Save(r io.Reader, originalName string) (name string, written int64, err error)
	Open(name string) (io.ReadSeekCloser, error)
	// Delete removes a stored binary. Missing files are not an error.
	Delete(name string) error
}
