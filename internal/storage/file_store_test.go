package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	kerrors "github.com/PolarWolf314/dyad/internal/errors"
)

func TestFileStore_WriteRead(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore()
	path := filepath.Join(t.TempDir(), "out", "notes.txt.dyad")

	exists, err := store.Exists(ctx, path)
	require.NoError(t, err)
	require.False(t, exists)

	require.NoError(t, store.Write(ctx, path, []byte("DYAD envelope")))

	exists, err = store.Exists(ctx, path)
	require.NoError(t, err)
	require.True(t, exists)

	data, err := store.Read(ctx, path)
	require.NoError(t, err)
	require.Equal(t, "DYAD envelope", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, FilePermissions, info.Mode().Perm())
}

func TestFileStore_OverwriteLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore()
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")

	require.NoError(t, store.Write(ctx, path, []byte("first")))
	require.NoError(t, store.Write(ctx, path, []byte("second")))

	data, err := store.Read(ctx, path)
	require.NoError(t, err)
	require.Equal(t, "second", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestFileStore_ReadMissing(t *testing.T) {
	_, err := NewFileStore().Read(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, kerrors.ErrFileNotFound)
}

func TestFileStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewFileStore().Write(ctx, filepath.Join(t.TempDir(), "a"), []byte("x"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestRouter_PicksBackend(t *testing.T) {
	router := NewRouter(S3Config{Endpoint: "localhost:9000", AccessKeyID: "k", SecretAccessKey: "s"})

	local, err := router.For("/tmp/a.txt")
	require.NoError(t, err)
	require.Equal(t, StoreTypeFileSystem, local.Type())

	remote, err := router.For("s3://bucket/a.txt")
	require.NoError(t, err)
	require.Equal(t, StoreTypeS3, remote.Type())

	again, err := router.For("s3://other/b.txt")
	require.NoError(t, err)
	require.Same(t, remote, again)
}

func TestRouter_NoS3Config(t *testing.T) {
	_, err := ForLocation("s3://bucket/a.txt", S3Config{})
	require.ErrorIs(t, err, kerrors.ErrStorageUnavailable)
}

func TestFileStore_Open(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore()
	path := filepath.Join(t.TempDir(), "a.dyad")
	require.NoError(t, store.Write(ctx, path, []byte("DYAD0123")))

	r, size, err := store.Open(ctx, path)
	require.NoError(t, err)
	defer r.Close()
	require.EqualValues(t, 8, size)

	head := make([]byte, 4)
	_, err = r.Read(head)
	require.NoError(t, err)
	require.Equal(t, "DYAD", string(head))

	_, _, err = store.Open(ctx, path+".missing")
	require.ErrorIs(t, err, kerrors.ErrFileNotFound)
}
