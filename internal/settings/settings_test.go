package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "app-settings.json")
}

func TestDefaultsWhenMissing(t *testing.T) {
	store := NewStore(testPath(t))

	got := store.Get()
	assert.Equal(t, "USD", got.Currency)
	assert.Equal(t, "es", got.Language)
	assert.Equal(t, "DD/MM/YYYY", got.DateFormat)
}

func TestUpdatePersistsAndReloads(t *testing.T) {
	path := testPath(t)
	store := NewStore(path)

	err := store.Update(Settings{Currency: "EUR", Language: "en", DateFormat: "YYYY-MM-DD"})
	require.NoError(t, err)

	reloaded := NewStore(path)
	got := reloaded.Get()
	assert.Equal(t, "EUR", got.Currency)
	assert.Equal(t, "en", got.Language)
	assert.Equal(t, "YYYY-MM-DD", got.DateFormat)
}

func TestInvalidFieldsReplacedWithDefaults(t *testing.T) {
	path := testPath(t)
	require.NoError(t, os.WriteFile(path, []byte(`{"currency":"DOGE","language":"en","dateFormat":"sideways"}`), 0600))

	store := NewStore(path)
	got := store.Get()
	assert.Equal(t, "USD", got.Currency, "unknown currency falls back")
	assert.Equal(t, "en", got.Language, "valid field survives")
	assert.Equal(t, "DD/MM/YYYY", got.DateFormat)
}

func TestCorruptFileUsesDefaults(t *testing.T) {
	path := testPath(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	store := NewStore(path)
	assert.Equal(t, Defaults(), store.Get())
}

func TestSetSingleField(t *testing.T) {
	store := NewStore(testPath(t))

	require.NoError(t, store.Set("currency", "ARS"))
	assert.Equal(t, "ARS", store.Get().Currency)

	err := store.Set("currency", "DOGE")
	assert.Error(t, err)
	assert.Equal(t, "ARS", store.Get().Currency, "rejected value leaves store unchanged")

	err = store.Set("volume", "11")
	assert.Error(t, err)
}

func TestSubscribeReceivesChanges(t *testing.T) {
	store := NewStore(testPath(t))
	ch, cancel := store.Subscribe()
	defer cancel()

	require.NoError(t, store.Set("currency", "EUR"))

	select {
	case got := <-ch:
		assert.Equal(t, "EUR", got.Currency)
	case <-time.After(time.Second):
		t.Fatal("no settings notification received")
	}
}

func TestSubscribeCancelStopsNotifications(t *testing.T) {
	store := NewStore(testPath(t))
	ch, cancel := store.Subscribe()
	cancel()

	require.NoError(t, store.Set("language", "en"))

	_, open := <-ch
	assert.False(t, open, "cancelled subscription channel should be closed")
}

func TestUpdateNoopWhenUnchanged(t *testing.T) {
	store := NewStore(testPath(t))
	ch, cancel := store.Subscribe()
	defer cancel()

	require.NoError(t, store.Update(Defaults()))

	select {
	case <-ch:
		t.Fatal("no notification expected for unchanged settings")
	case <-time.After(50 * time.Millisecond):
	}
}
