package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finwatch/findetect/internal/adapters/driven/storage/filesystem"
	"github.com/finwatch/findetect/internal/core/domain"
)

func TestCreateRequiresEnvName(t *testing.T) {
	f := NewEnvFactory(nil)

	_, err := f.Create(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestCreateUnsetEnv(t *testing.T) {
	f := NewEnvFactory(nil)

	_, err := f.Create(context.Background(), "FINDETECT_TEST_UNSET_CONN")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestCreateAllowlist(t *testing.T) {
	t.Setenv("FINDETECT_TEST_CONN", fileScheme+t.TempDir())

	f := NewEnvFactory([]string{"SOMETHING_ELSE"})
	_, err := f.Create(context.Background(), "FINDETECT_TEST_CONN")
	assert.ErrorIs(t, err, domain.ErrEnvNotAllowed)

	// Listed name passes
	f = NewEnvFactory([]string{"FINDETECT_TEST_CONN"})
	store, err := f.Create(context.Background(), "FINDETECT_TEST_CONN")
	require.NoError(t, err)
	defer store.Close()
}

func TestCreateFileStore(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FINDETECT_TEST_CONN", fileScheme+dir)

	f := NewEnvFactory(nil)
	store, err := f.Create(context.Background(), "FINDETECT_TEST_CONN")
	require.NoError(t, err)
	defer store.Close()

	fsStore, ok := store.(*filesystem.Store)
	require.True(t, ok)
	assert.Equal(t, dir, fsStore.Root())
}

func TestCreateFileStoreMissingDir(t *testing.T) {
	t.Setenv("FINDETECT_TEST_CONN", fileScheme+"/nonexistent/findetect-test")

	f := NewEnvFactory(nil)
	_, err := f.Create(context.Background(), "FINDETECT_TEST_CONN")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestCreateAzureInvalidConnectionString(t *testing.T) {
	t.Setenv("FINDETECT_TEST_CONN", "not-a-connection-string")

	f := NewEnvFactory(nil)
	_, err := f.Create(context.Background(), "FINDETECT_TEST_CONN")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}
