package fs_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sekolahkita/school-content/pkg/schoolcontent/storage/fs"
)

func TestFilesystemBackend(t *testing.T) {
	ctx := context.Background()
	baseDir := t.TempDir()

	store, err := fs.New(fs.Config{BaseDir: baseDir, URLPrefix: "/uploads"})
	require.NoError(t, err)

	require.NoError(t, store.Upload(ctx, "galleries/photo.txt", strings.NewReader("payload")))

	t.Run("file lands under base dir", func(t *testing.T) {
		_, err := os.Stat(filepath.Join(baseDir, "galleries", "photo.txt"))
		assert.NoError(t, err)
	})

	t.Run("download round trip", func(t *testing.T) {
		body, err := store.Download(ctx, "galleries/photo.txt")
		require.NoError(t, err)
		defer body.Close()

		data, err := io.ReadAll(body)
		require.NoError(t, err)
		assert.Equal(t, "payload", string(data))
	})

	t.Run("download url uses prefix", func(t *testing.T) {
		url, err := store.GetDownloadURL(ctx, "galleries/photo.txt")
		require.NoError(t, err)
		assert.Equal(t, "/uploads/galleries/photo.txt", url)
	})

	t.Run("object meta", func(t *testing.T) {
		meta, err := store.GetObjectMeta(ctx, "galleries/photo.txt")
		require.NoError(t, err)
		assert.Equal(t, int64(7), meta.Size)
	})

	t.Run("delete cleans empty directories", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "galleries/photo.txt"))

		_, err := os.Stat(filepath.Join(baseDir, "galleries"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("missing base dir is rejected", func(t *testing.T) {
		_, err := fs.New(fs.Config{})
		assert.Error(t, err)
	})
}

func TestFilesystemBackendRejectsEscapingKeys(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	baseDir := filepath.Join(root, "uploads")

	require.NoError(t, os.WriteFile(filepath.Join(root, "secret.txt"), []byte("top secret"), 0600))

	store, err := fs.New(fs.Config{BaseDir: baseDir, URLPrefix: "/uploads"})
	require.NoError(t, err)

	keys := []string{
		"../secret.txt",
		"galleries/../../secret.txt",
		"..",
		"/etc/passwd",
		"",
	}
	for _, key := range keys {
		t.Run("download "+key, func(t *testing.T) {
			_, err := store.Download(ctx, key)
			assert.Error(t, err)
		})
		t.Run("upload "+key, func(t *testing.T) {
			assert.Error(t, store.Upload(ctx, key, strings.NewReader("x")))
		})
		t.Run("delete "+key, func(t *testing.T) {
			assert.Error(t, store.Delete(ctx, key))
		})
		t.Run("meta "+key, func(t *testing.T) {
			_, err := store.GetObjectMeta(ctx, key)
			assert.Error(t, err)
		})
	}

	// The file outside the base directory is untouched.
	data, err := os.ReadFile(filepath.Join(root, "secret.txt"))
	require.NoError(t, err)
	assert.Equal(t, "top secret", string(data))
}
