package accessctl

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage(t *testing.T) {
	storage := NewMemoryStorage()

	_, ok := storage.Get(KeyUser)
	assert.False(t, ok)

	require.NoError(t, storage.Set(KeyUser, `{"id":"uid-1"}`))
	value, ok := storage.Get(KeyUser)
	assert.True(t, ok)
	assert.Equal(t, `{"id":"uid-1"}`, value)

	require.NoError(t, storage.Delete(KeyUser))
	_, ok = storage.Get(KeyUser)
	assert.False(t, ok)
}

func TestFileStoragePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session.json")

	storage, err := NewFileStorage(path)
	require.NoError(t, err)
	require.NoError(t, storage.Set(KeyUser, `{"id":"uid-1"}`))
	require.NoError(t, storage.Set(KeyToken, "token"))

	reopened, err := NewFileStorage(path)
	require.NoError(t, err)

	user, ok := reopened.Get(KeyUser)
	assert.True(t, ok)
	assert.Equal(t, `{"id":"uid-1"}`, user)
	token, ok := reopened.Get(KeyToken)
	assert.True(t, ok)
	assert.Equal(t, "token", token)
}

func TestFileStorageDeleteDeauthenticates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	storage, err := NewFileStorage(path)
	require.NoError(t, err)
	require.NoError(t, storage.Set(KeyUser, `{"id":"uid-1"}`))
	require.NoError(t, storage.Set(KeyToken, "token"))

	// Очистка user и token полностью деаутентифицирует клиента
	require.NoError(t, storage.Delete(KeyUser))
	require.NoError(t, storage.Delete(KeyToken))

	reopened, err := NewFileStorage(path)
	require.NoError(t, err)
	_, userExists := reopened.Get(KeyUser)
	_, tokenExists := reopened.Get(KeyToken)
	assert.False(t, userExists)
	assert.False(t, tokenExists)
}

func TestFileStorageMissingFile(t *testing.T) {
	storage, err := NewFileStorage(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	_, ok := storage.Get(KeyUser)
	assert.False(t, ok)
}
