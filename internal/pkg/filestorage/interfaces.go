package filestorage

import (
	"context"
	"io"
)

// Buckets used by the app
const (
	BucketPostImages = "post-images"
	BucketProfiles   = "profiles"
	BucketVideos     = "swing-videos"
)

// Storage defines the object storage contract. Paths are opaque names inside
// a bucket; callers are responsible for collision-resistant naming.
type Storage interface {
	// Upload stores the content under bucket/path
	Upload(ctx context.Context, bucket, path string, content io.Reader, contentType string) error

	// PublicURL returns the publicly reachable URL for a stored object
	PublicURL(bucket, path string) string

	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, bucket, path string) error
}
