// Package storage provides object storage abstractions for publishing
// overlay snapshots.
package storage

import (
	"context"
	"errors"
)

// Common errors for storage operations.
var (
	ErrObjectNotFound = errors.New("object not found")
	ErrUploadFailed   = errors.New("upload failed")
	ErrDownloadFailed = errors.New("download failed")
	ErrDeleteFailed   = errors.New("delete failed")
)

// ObjectStorage abstracts object storage operations. Implementations
// include S3 and the local filesystem for testing and development.
type ObjectStorage interface {
	// Put writes data to objectPath, overwriting any existing object.
	Put(ctx context.Context, objectPath string, data []byte) error

	// Get reads the object at objectPath.
	// Returns ErrObjectNotFound when the object does not exist.
	Get(ctx context.Context, objectPath string) ([]byte, error)

	// Exists checks if an object exists in storage.
	Exists(ctx context.Context, objectPath string) (bool, error)

	// Delete removes an object from storage. Deleting an absent object
	// is not an error.
	Delete(ctx context.Context, objectPath string) error

	// ListObjects returns all object paths under the given prefix.
	ListObjects(ctx context.Context, prefix string) ([]string, error)
}
