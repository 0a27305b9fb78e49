package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	err = store.Set("detector.endpoint", "http://localhost:8080/detect")
	require.NoError(t, err)

	val, ok := store.Get("detector.endpoint")
	assert.True(t, ok)
	assert.Equal(t, "http://localhost:8080/detect", val)

	_, ok = store.Get("nonexistent")
	assert.False(t, ok)
}

func TestConfigStore_GetString(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	err = store.Set("storage.conn_env_in", "AzureWebJobsStorage")
	require.NoError(t, err)

	assert.Equal(t, "AzureWebJobsStorage", store.GetString("storage.conn_env_in"))

	// Non-existent key
	assert.Equal(t, "", store.GetString("nonexistent"))

	// Wrong type
	err = store.Set("server.port", 8080)
	require.NoError(t, err)
	assert.Equal(t, "", store.GetString("server.port"))
}

func TestConfigStore_GetInt(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	err = store.Set("server.port", 8080)
	require.NoError(t, err)
	assert.Equal(t, 8080, store.GetInt("server.port"))

	err = store.Set("timeout64", int64(120))
	require.NoError(t, err)
	assert.Equal(t, 120, store.GetInt("timeout64"))

	assert.Equal(t, 0, store.GetInt("nonexistent"))

	err = store.Set("name", "findetect")
	require.NoError(t, err)
	assert.Equal(t, 0, store.GetInt("name"))
}

func TestConfigStore_GetBool(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	err = store.Set("process.only_single", true)
	require.NoError(t, err)
	assert.True(t, store.GetBool("process.only_single"))

	assert.False(t, store.GetBool("nonexistent"))

	err = store.Set("name", "findetect")
	require.NoError(t, err)
	assert.False(t, store.GetBool("name"))
}

func TestConfigStore_GetFloat(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	err = store.Set("detector.rate", 2.5)
	require.NoError(t, err)
	assert.Equal(t, 2.5, store.GetFloat("detector.rate"))

	// Integers widen
	err = store.Set("detector.whole", int64(3))
	require.NoError(t, err)
	assert.Equal(t, 3.0, store.GetFloat("detector.whole"))

	assert.Equal(t, 0.0, store.GetFloat("nonexistent"))

	err = store.Set("name", "findetect")
	require.NoError(t, err)
	assert.Equal(t, 0.0, store.GetFloat("name"))
}

func TestConfigStore_GetStringSlice(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	err = store.Set("server.keys", []string{"key-one", "key-two"})
	require.NoError(t, err)
	assert.Equal(t, []string{"key-one", "key-two"}, store.GetStringSlice("server.keys"))

	// TOML round-trips arrays as []any
	err = store.Set("mixed", []any{"a", 1, "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("mixed"))

	assert.Nil(t, store.GetStringSlice("nonexistent"))
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("detector.endpoint", "http://example.com/detect"))
	require.NoError(t, store.Set("server.port", int64(9090)))

	// A fresh store reads the same file back
	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/detect", reloaded.GetString("detector.endpoint"))
	assert.Equal(t, 9090, reloaded.GetInt("server.port"))
}

func TestConfigStore_LoadFlattensNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[detector]
endpoint = "http://example.com/detect"
rate = 1.5

[storage]
conn_env_in = "AzureWebJobsStorage"
allowed_envs = ["AzureWebJobsStorage", "FIN_ARCHIVE_CONN"]
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "http://example.com/detect", store.GetString("detector.endpoint"))
	assert.Equal(t, 1.5, store.GetFloat("detector.rate"))
	assert.Equal(t, "AzureWebJobsStorage", store.GetString("storage.conn_env_in"))
	assert.Equal(t,
		[]string{"AzureWebJobsStorage", "FIN_ARCHIVE_CONN"},
		store.GetStringSlice("storage.allowed_envs"))
}

func TestConfigStore_LoadInvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("not [valid toml"), 0600))

	_, err := NewConfigStore(tmpDir)
	assert.Error(t, err)
}
