// Package storage defines the interface for object storage operations.
// Swap implementations by changing the concrete type injected at startup —
// the MinIO implementation works with any S3-compatible provider.
package storage

import (
	"context"
	"io"
	"time"
)

// ObjectInfo is one listing entry: the object's leaf name under the listed
// folder and its creation time.
type ObjectInfo struct {
	Name      string
	CreatedAt time.Time
}

// UploadOptions control how an object is written.
type UploadOptions struct {
	// Overwrite allows replacing an existing object at the same key.
	// When false, uploading onto an occupied key is an error.
	Overwrite bool
	// ContentType is the declared media type stored with the object.
	ContentType string
	// CacheSeconds is a client cache lifetime hint (Cache-Control max-age).
	CacheSeconds int
}

// Store is the interface for the remote object store.
type Store interface {
	// Upload streams data to the store under the given key.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, opts UploadOptions) error
	// List returns entries directly under folder, newest first, at most limit.
	List(ctx context.Context, folder string, limit int) ([]ObjectInfo, error)
	// PublicURL constructs the browser-accessible URL for a given key.
	// Pure and deterministic: no network call.
	PublicURL(key string) string
	// Remove deletes the objects identified by keys.
	Remove(ctx context.Context, keys []string) error
}
