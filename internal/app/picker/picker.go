// Package picker models the platform media picker: it hands the app local
// asset references with size and duration metadata. Limits (image size,
// video length) are enforced by the callers, not here.
package picker

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Asset is a picked local media file
type Asset struct {
	Name     string
	Path     string
	Size     int64
	Duration time.Duration // zero for images

	// Data carries inline content instead of a file path. Used by tests.
	Data []byte
}

// Pick builds an asset reference for a local file
func Pick(path string) (Asset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Asset{}, fmt.Errorf("failed to stat asset: %w", err)
	}
	if info.IsDir() {
		return Asset{}, fmt.Errorf("asset %s is a directory", path)
	}

	return Asset{
		Name: filepath.Base(path),
		Path: path,
		Size: info.Size(),
	}, nil
}

// Open returns the asset content for reading
func (a Asset) Open() (io.ReadCloser, error) {
	if a.Data != nil {
		return io.NopCloser(bytes.NewReader(a.Data)), nil
	}
	f, err := os.Open(a.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open asset: %w", err)
	}
	return f, nil
}

// Ext returns the asset's file extension, defaulting to .jpg when the name
// carries none.
func (a Asset) Ext() string {
	ext := filepath.Ext(a.Name)
	if ext == "" {
		return ".jpg"
	}
	return ext
}
