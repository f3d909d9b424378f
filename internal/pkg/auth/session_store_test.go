package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSessionStoreRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileSessionStore(path)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded, "missing file means signed out")

	pair := &TokenPair{
		AccessToken:      "access",
		RefreshToken:     "refresh",
		ExpiresAt:        time.Now().Add(time.Hour).UTC(),
		RefreshExpiresAt: time.Now().Add(720 * time.Hour).UTC(),
	}
	require.NoError(t, store.Save(pair))

	loaded, err = store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "access", loaded.AccessToken)
	assert.Equal(t, "refresh", loaded.RefreshToken)

	require.NoError(t, store.Clear())
	loaded, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	require.NoError(t, store.Clear(), "clearing twice is fine")
}

func TestFileSessionStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	loaded, err := NewFileSessionStore(path).Load()
	require.NoError(t, err)
	assert.Nil(t, loaded, "corrupt session reads as signed out")
}
