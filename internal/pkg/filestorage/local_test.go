package filestorage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundtrip(t *testing.T) {
	base := t.TempDir()
	storage, err := NewLocalStorage(base, "http://localhost/uploads")
	require.NoError(t, err)

	ctx := context.Background()
	err = storage.Upload(ctx, BucketPostImages, "swing.jpg", strings.NewReader("jpeg bytes"), "image/jpeg")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(base, BucketPostImages, "swing.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))

	url := storage.PublicURL(BucketPostImages, "swing.jpg")
	assert.Equal(t, "http://localhost/uploads/post-images/swing.jpg", url)

	require.NoError(t, storage.Delete(ctx, BucketPostImages, "swing.jpg"))
	_, err = os.Stat(filepath.Join(base, BucketPostImages, "swing.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorageRejectsPathEscape(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir(), "http://localhost/uploads")
	require.NoError(t, err)

	err = storage.Upload(context.Background(), BucketPostImages, "../../etc/passwd", strings.NewReader("x"), "text/plain")
	assert.Error(t, err)
}
