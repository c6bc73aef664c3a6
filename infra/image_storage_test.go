package infra

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

func TestDiskImageStorage_SaveAndOpen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	storage := NewDiskImageStorage(dir)
	ctx := context.Background()

	require.NoError(t, storage.Save(ctx, "1700000000000-bird.png", strings.NewReader("png-bytes"), 9, "image/png"))

	rc, info, err := storage.Open(ctx, "1700000000000-bird.png")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
	assert.Equal(t, int64(9), info.Size)
	assert.Equal(t, "image/png", info.ContentType)
}

func TestDiskImageStorage_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	storage := NewDiskImageStorage(dir)
	ctx := context.Background()

	require.NoError(t, storage.Save(ctx, "kite.jpg", strings.NewReader("first"), 5, ""))

	err := storage.Save(ctx, "kite.jpg", strings.NewReader("second"), 6, "")
	assert.ErrorIs(t, err, ErrImageExists)

	data, err := os.ReadFile(filepath.Join(dir, "kite.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
}

func TestDiskImageStorage_OpenMissing(t *testing.T) {
	storage := NewDiskImageStorage(t.TempDir())

	_, _, err := storage.Open(context.Background(), "missing.png")
	assert.ErrorIs(t, err, ErrImageNotFound)
}

func TestDiskImageStorage_RejectsPathNames(t *testing.T) {
	storage := NewDiskImageStorage(t.TempDir())
	ctx := context.Background()

	for _, name := range []string{"", ".", "..", "../escape.png", `dir\file.png`, "a/b.png"} {
		t.Run(name, func(t *testing.T) {
			err := storage.Save(ctx, name, strings.NewReader("x"), 1, "")
			assert.ErrorIs(t, err, ErrInvalidImageName)

			_, _, err = storage.Open(ctx, name)
			assert.ErrorIs(t, err, ErrInvalidImageName)
		})
	}
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "image/png", contentTypeFor("a.png"))
	assert.Equal(t, "application/octet-stream", contentTypeFor("noext"))
}
