package media

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttech/storefront/internal/storefront"
	pkgerrors "github.com/smarttech/storefront/pkg/errors"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func newTestService(t *testing.T, maxBytes int64) (Service, string) {
	t.Helper()
	dir := t.TempDir()
	svc, err := NewService(Options{Dir: dir, PublicBaseURL: "http://localhost:8000/", MaxBytes: maxBytes}, nil)
	require.NoError(t, err)
	names := []string{"b", "a", "c"}
	svc.(*service).newName = func() string {
		n := names[0]
		names = names[1:]
		return n
	}
	return svc, dir
}

func TestUploadStoresSniffedImage(t *testing.T) {
	svc, dir := newTestService(t, 0)

	body := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{1}, 5000)...)
	res, err := svc.Upload(context.Background(), storefront.FileTypeImages, "../board.png", bytes.NewReader(body))
	require.NoError(t, err)

	assert.Equal(t, "b.png", res.Filename)
	assert.Equal(t, "board.png", res.OriginalFilename)
	assert.Equal(t, "http://localhost:8000/static/uploads/images/b.png", res.URL)
	assert.Equal(t, "Image uploaded successfully", res.Message)

	stored, err := os.ReadFile(filepath.Join(dir, "images", "b.png"))
	require.NoError(t, err)
	assert.Equal(t, body, stored)
}

func TestUploadRejectsWrongContent(t *testing.T) {
	svc, dir := newTestService(t, 0)

	_, err := svc.Upload(context.Background(), storefront.FileTypeImages, "notes.png", strings.NewReader("plain text pretending"))
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Contains(t, typed.Message(), "PNG, JPEG, WebP, or GIF")

	_, err = svc.Upload(context.Background(), storefront.FileTypeVideos, "clip.png", bytes.NewReader(pngHeader))
	require.Error(t, err)

	_, err = svc.Upload(context.Background(), storefront.FileTypeImages, "empty.png", bytes.NewReader(nil))
	require.Error(t, err)

	entries, err := os.ReadDir(filepath.Join(dir, "images"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUploadEnforcesSizeLimit(t *testing.T) {
	svc, dir := newTestService(t, 4096)

	body := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{1}, 5000)...)
	_, err := svc.Upload(context.Background(), storefront.FileTypeImages, "big.png", bytes.NewReader(body))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeTooLarge, pkgerrors.As(err).Code())

	entries, err := os.ReadDir(filepath.Join(dir, "images"))
	require.NoError(t, err)
	assert.Empty(t, entries, "temp file removed")
}

func TestListAndDelete(t *testing.T) {
	svc, _ := newTestService(t, 0)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.Upload(ctx, storefront.FileTypeImages, "x.png", bytes.NewReader(pngHeader))
		require.NoError(t, err)
	}

	list, err := svc.List(ctx, storefront.FileTypeImages)
	require.NoError(t, err)
	require.Len(t, list.Files, 2)
	assert.Equal(t, "a.png", list.Files[0].Filename)
	assert.Equal(t, int64(len(pngHeader)), list.Files[0].Size)
	assert.Equal(t, storefront.FileTypeImages, list.Files[0].Type)

	msg, err := svc.Delete(ctx, storefront.FileTypeImages, "a.png")
	require.NoError(t, err)
	assert.Equal(t, "File deleted successfully", msg.Message)

	_, err = svc.Delete(ctx, storefront.FileTypeImages, "a.png")
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	_, err = svc.Delete(ctx, storefront.FileTypeImages, "../b.png")
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.List(ctx, storefront.FileType("docs"))
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	videos, err := svc.List(ctx, storefront.FileTypeVideos)
	require.NoError(t, err)
	assert.Empty(t, videos.Files)
}
