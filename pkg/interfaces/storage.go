package interfaces

import (
	"context"
	"io"
)

// DocFile bundles an opened documentation artifact with serving metadata.
type DocFile struct {
	Reader      io.ReadCloser
	ContentType string
	Size        int64
}

// StorageProvider serves raw documentation bytes once the resolver has
// produced a concrete project/version/filename triple. The platform never
// stores documentation itself; builders upload artifacts to an external
// object store and this interface reads them back.
type StorageProvider interface {
	Open(ctx context.Context, storagePath string) (*DocFile, error)
	Exists(ctx context.Context, storagePath string) (bool, error)
}
