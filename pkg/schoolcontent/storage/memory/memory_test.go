package memory_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sekolahkita/school-content/pkg/schoolcontent/storage/memory"
)

func TestMemoryBackend(t *testing.T) {
	ctx := context.Background()
	store := memory.New("/uploads")

	require.NoError(t, store.Upload(ctx, "news/a.txt", strings.NewReader("hello")))

	t.Run("download", func(t *testing.T) {
		body, err := store.Download(ctx, "news/a.txt")
		require.NoError(t, err)
		defer body.Close()

		data, err := io.ReadAll(body)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(data))
	})

	t.Run("download url uses prefix", func(t *testing.T) {
		url, err := store.GetDownloadURL(ctx, "news/a.txt")
		require.NoError(t, err)
		assert.Equal(t, "/uploads/news/a.txt", url)
	})

	t.Run("object meta", func(t *testing.T) {
		meta, err := store.GetObjectMeta(ctx, "news/a.txt")
		require.NoError(t, err)
		assert.Equal(t, int64(5), meta.Size)
		assert.False(t, meta.UpdatedAt.IsZero())
	})

	t.Run("missing object", func(t *testing.T) {
		_, err := store.Download(ctx, "missing")
		assert.Error(t, err)
		_, err = store.GetObjectMeta(ctx, "missing")
		assert.Error(t, err)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "news/a.txt"))
		assert.Error(t, store.Delete(ctx, "news/a.txt"))
	})

	t.Run("no prefix means no url", func(t *testing.T) {
		bare := memory.New("")
		_, err := bare.GetDownloadURL(ctx, "whatever")
		assert.Error(t, err)
	})
}
