package filestorage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fringe-app/fringe/internal/pkg/logger"
)

// LocalStorage stores objects on the local filesystem, one subdirectory per
// bucket.
type LocalStorage struct {
	basePath string // The root directory where objects are stored
	baseURL  string // The base URL prepended to public object URLs
}

// NewLocalStorage creates a new LocalStorage instance rooted at basePath.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  baseURL,
	}, nil
}

// objectPath resolves an object's filesystem path, rejecting names that
// would escape the bucket directory.
func (ls *LocalStorage) objectPath(bucket, path string) (string, error) {
	dir := filepath.Join(ls.basePath, bucket)
	full := filepath.Join(dir, path)
	if full != dir && !strings.HasPrefix(full, dir+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid object path %q", path)
	}
	return full, nil
}

// Upload stores the content under basePath/bucket/path
func (ls *LocalStorage) Upload(ctx context.Context, bucket, path string, content io.Reader, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dstPath, err := ls.objectPath(bucket, path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dstPath), os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", filepath.Dir(dstPath)).Msg("Failed to create bucket directory")
		return fmt.Errorf("failed to create bucket directory: %w", err)
	}
	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, content); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy object content")
		// Remove the partially written object
		_ = os.Remove(dstPath)
		return fmt.Errorf("failed to save object content: %w", err)
	}

	logger.Info().Str("bucket", bucket).Str("path", path).Str("contentType", contentType).Msg("Object stored")
	return nil
}

// PublicURL returns the URL an object is reachable at
func (ls *LocalStorage) PublicURL(bucket, path string) string {
	return strings.TrimRight(ls.baseURL, "/") + "/" + bucket + "/" + path
}

// Delete removes an object from the filesystem. Returns nil if the object
// does not exist.
func (ls *LocalStorage) Delete(ctx context.Context, bucket, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath, err := ls.objectPath(bucket, path)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		logger.Error().Err(err).Str("path", fullPath).Msg("Failed to delete object")
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}
