package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *FileStore {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	creds := Credentials{
		AccessToken:  "access-abc",
		DeviceToken:  "device-xyz",
		RefreshToken: "refresh-123",
	}
	require.NoError(t, store.Save(creds))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, creds, loaded)
}

func TestFileStore_LoadMissingFileIsEmpty(t *testing.T) {
	store := newTestStore(t)

	creds, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, Credentials{}, creds)
}

func TestFileStore_FilePermissions(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(Credentials{AccessToken: "secret"}))

	info, err := os.Stat(filepath.Join(dir, credentialsFile))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestManager_PersistsOnEverySet(t *testing.T) {
	store := newTestStore(t)
	m := NewManager(store)

	require.NoError(t, m.SetTokens("a1", "r1"))
	require.NoError(t, m.SetDeviceToken("d1"))

	onDisk, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, Credentials{AccessToken: "a1", DeviceToken: "d1", RefreshToken: "r1"}, onDisk)
}

func TestManager_LazyLoadWhenMemoryEmpty(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(Credentials{AccessToken: "persisted", RefreshToken: "r"}))

	// A fresh manager holds nothing in memory and must fall back to the store.
	m := NewManager(store)
	assert.Equal(t, "persisted", m.AccessToken())
	assert.Equal(t, "r", m.RefreshToken())
}

func TestManager_ClearWipesMemoryAndStore(t *testing.T) {
	store := newTestStore(t)
	m := NewManager(store)
	require.NoError(t, m.SetTokens("a", "r"))
	require.NoError(t, m.SetDeviceToken("d"))

	require.NoError(t, m.Clear())
	assert.Equal(t, Credentials{}, m.Credentials())

	onDisk, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, Credentials{}, onDisk)

	// Clear marks the manager loaded: it must not resurrect tokens that were
	// persisted before the wipe.
	assert.Empty(t, m.AccessToken())
}

// A Set on a fresh manager must merge into the persisted credential set.
// kioskd restarts hold tokens only on disk; writing one token first must
// not blank the other two.
func TestManager_FirstWriteMergesStoredTokens(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(Credentials{
		AccessToken:  "a",
		DeviceToken:  "d",
		RefreshToken: "r",
	}))

	m := NewManager(store)
	require.NoError(t, m.SetDeviceToken("new-device"))

	onDisk, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, Credentials{AccessToken: "a", DeviceToken: "new-device", RefreshToken: "r"}, onDisk)

	fresh := NewManager(store)
	require.NoError(t, fresh.SetAccessToken("new-access"))
	onDisk, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "new-access", onDisk.AccessToken)
	assert.Equal(t, "new-device", onDisk.DeviceToken)
	assert.Equal(t, "r", onDisk.RefreshToken)
}

func TestManager_SetAccessTokenKeepsOthers(t *testing.T) {
	m := NewManager(nil)
	require.NoError(t, m.SetTokens("old", "refresh"))
	require.NoError(t, m.SetDeviceToken("device"))

	require.NoError(t, m.SetAccessToken("new"))
	creds := m.Credentials()
	assert.Equal(t, "new", creds.AccessToken)
	assert.Equal(t, "refresh", creds.RefreshToken)
	assert.Equal(t, "device", creds.DeviceToken)
}
