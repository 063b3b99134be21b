package services

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage(t *testing.T) {
	baseDir := t.TempDir()
	storage := NewLocalStorage(baseDir)
	ctx := context.Background()
	key := "exports/surat.pdf"
	content := []byte("%PDF-1.3 hello")

	t.Run("Put writes the file", func(t *testing.T) {
		result, err := storage.Put(ctx, key, "application/pdf", content)
		require.NoError(t, err)
		assert.Equal(t, key, result.Key)
		assert.Equal(t, int64(len(content)), result.Size)
		assert.Equal(t, "application/pdf", result.MimeType)
		assert.Equal(t, "/"+filepath.ToSlash(filepath.Join(baseDir, key)), result.URL)

		got, err := os.ReadFile(filepath.Join(baseDir, key))
		require.NoError(t, err)
		assert.Equal(t, content, got)

		// no temporary files left next to the object
		entries, err := os.ReadDir(filepath.Join(baseDir, "exports"))
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("Put replaces existing content", func(t *testing.T) {
		_, err := storage.Put(ctx, "assets/logo/a.png", "image/png", []byte("old"))
		require.NoError(t, err)
		_, err = storage.Put(ctx, "assets/logo/a.png", "image/png", []byte("new"))
		require.NoError(t, err)

		reader, contentType, err := storage.Get(ctx, "assets/logo/a.png")
		require.NoError(t, err)
		defer reader.Close()
		got, _ := io.ReadAll(reader)
		assert.Equal(t, "new", string(got))
		assert.Equal(t, "image/png", contentType)
	})

	t.Run("Get reads content and type", func(t *testing.T) {
		reader, contentType, err := storage.Get(ctx, key)
		require.NoError(t, err)
		defer reader.Close()

		got, _ := io.ReadAll(reader)
		assert.Equal(t, content, got)
		assert.Equal(t, "application/pdf", contentType)
	})

	t.Run("Content type by extension", func(t *testing.T) {
		for k, want := range map[string]string{
			"assets/stamp/a.webp": "image/webp",
			"assets/stamp/a.JPG":  "image/jpeg",
			"assets/stamp/a.txt":  "application/octet-stream",
		} {
			_, err := storage.Put(ctx, k, want, []byte("x"))
			require.NoError(t, err)
			reader, got, err := storage.Get(ctx, k)
			require.NoError(t, err)
			reader.Close()
			assert.Equal(t, want, got, k)
		}
	})

	t.Run("Missing object", func(t *testing.T) {
		_, _, err := storage.Get(ctx, "exports/missing.pdf")
		assert.ErrorIs(t, err, ErrObjectNotFound)
	})

	t.Run("Keys cannot leave the base directory", func(t *testing.T) {
		_, err := storage.Put(ctx, "../outside.pdf", "application/pdf", content)
		assert.Error(t, err)
		_, _, err = storage.Get(ctx, "assets/../../etc/passwd")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrObjectNotFound)
		assert.Error(t, storage.Delete(ctx, "/abs/key"))
	})

	t.Run("Delete removes file and ignores missing ones", func(t *testing.T) {
		require.NoError(t, storage.Delete(ctx, key))

		_, err := os.Stat(filepath.Join(baseDir, key))
		assert.True(t, os.IsNotExist(err))
		assert.NoError(t, storage.Delete(ctx, key))
	})

	assert.Equal(t, "local", storage.Backend())
}

func TestR2StorageURL(t *testing.T) {
	withPublic := &R2Storage{bucket: "letters", publicURL: "https://cdn.example.com"}
	assert.Equal(t, "https://cdn.example.com/assets/logo/a.png", withPublic.URL("assets/logo/a.png"))
	assert.Equal(t, "r2", withPublic.Backend())

	private := &R2Storage{bucket: "letters"}
	assert.Empty(t, private.URL("assets/logo/a.png"))
}

func TestKeyGeneration(t *testing.T) {
	t.Run("GenerateStorageKey", func(t *testing.T) {
		key := GenerateStorageKey("prefix", "ttd.png")
		assert.True(t, strings.HasPrefix(key, "prefix/"))
		assert.True(t, strings.HasSuffix(key, ".png"))
		parts := strings.Split(filepath.Base(key), "_")
		assert.Len(t, parts, 2)
	})

	t.Run("GenerateAssetKey", func(t *testing.T) {
		key := GenerateAssetKey(AssetSignature, "tanda tangan.PNG")
		assert.True(t, strings.HasPrefix(key, "assets/signature/"))
		assert.True(t, strings.HasSuffix(key, ".PNG"))
	})

	t.Run("GenerateExportKey", func(t *testing.T) {
		key := GenerateExportKey()
		assert.True(t, strings.HasPrefix(key, "exports/"))
		assert.True(t, strings.HasSuffix(key, ".pdf"))
	})
}
