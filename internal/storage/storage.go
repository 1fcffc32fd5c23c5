// Package storage provides durable object storage for uploaded media.
// The BlobStore interface is the only contract the media pipeline depends
// on; the MinIO adapter in minio.go is the production implementation.
package storage

import "context"

// Object describes a stored media object and its derived thumbnail.
type Object struct {
	// URL is the publicly reachable URL of the stored object. For
	// link-only media this is the external URL unchanged.
	URL string

	// ThumbnailURL is the URL of the derived thumbnail, or empty when no
	// thumbnail exists (videos, external links, failed generation).
	ThumbnailURL string

	// Key is the object key inside the bucket. Empty for external links
	// that were never re-hosted. Logged on persistence failures so
	// orphaned objects can be garbage-collected out of band.
	Key string
}

// BlobStore is the contract the media pipeline needs from object storage.
type BlobStore interface {
	// Upload stores the given bytes and returns the object with its public
	// URL and thumbnail URL. The write is durable once Upload returns.
	Upload(ctx context.Context, data []byte, contentType string) (*Object, error)

	// UploadFromURL registers an externally hosted file. The URL is
	// passed through unchanged; no re-hosting happens.
	UploadFromURL(ctx context.Context, rawURL string) (*Object, error)

	// Remove deletes a stored object by key. A no-op for empty keys
	// (external links own their hosting).
	Remove(ctx context.Context, key string) error
}
