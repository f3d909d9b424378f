package filestorage

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryStorage keeps objects in memory. Used by tests and by the demo CLI
// when no storage path is configured.
type MemoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

// NewMemoryStorage creates an empty in-memory storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: make(map[string][]byte)}
}

func key(bucket, path string) string {
	return bucket + "/" + path
}

// Upload stores the content in memory
func (ms *MemoryStorage) Upload(ctx context.Context, bucket, path string, content io.Reader, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := io.ReadAll(content)
	if err != nil {
		return fmt.Errorf("failed to read object content: %w", err)
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.objects[key(bucket, path)] = data
	return nil
}

// PublicURL returns a mem:// URL for the object
func (ms *MemoryStorage) PublicURL(bucket, path string) string {
	return "mem://" + key(bucket, path)
}

// Delete removes an object
func (ms *MemoryStorage) Delete(ctx context.Context, bucket, path string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.objects, key(bucket, path))
	return nil
}

// Object returns a stored object's content and whether it exists
func (ms *MemoryStorage) Object(bucket, path string) ([]byte, bool) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	data, ok := ms.objects[key(bucket, path)]
	return data, ok
}

// Len returns the number of stored objects
func (ms *MemoryStorage) Len() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.objects)
}
