package uploads

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuthub-il/nuthub-backend/pkg/config"
	pkgerrors "github.com/nuthub-il/nuthub-backend/pkg/errors"
	"github.com/nuthub-il/nuthub-backend/pkg/logger"
)

func newTestUploads(t *testing.T) (Service, string) {
	t.Helper()
	dir := t.TempDir()
	svc, err := NewService(config.UploadsConfig{Dir: dir, MaxUploadMB: 2}, testUploadsLogger())
	require.NoError(t, err)
	return svc, dir
}

func testUploadsLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "uploads-test", Output: io.Discard})
}

// multipartFile builds a real multipart request and parses it back,
// returning the file exactly as the HTTP layer would hand it over.
func multipartFile(t *testing.T, filename string, content []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/products/upload-image", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(4<<20))

	file, header, err := req.FormFile("image")
	require.NoError(t, err)
	t.Cleanup(func() { file.Close() })
	return file, header
}

func TestSaveImageStoresFile(t *testing.T) {
	svc, dir := newTestUploads(t)
	file, header := multipartFile(t, "walnut.jpg", []byte("jpeg-bytes"))

	result, err := svc.SaveImage(context.Background(), file, header)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(result.ImageURL, "/uploads/"))
	require.True(t, strings.HasSuffix(result.ImageURL, ".jpg"))

	stored := filepath.Join(dir, strings.TrimPrefix(result.ImageURL, "/uploads/"))
	data, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)
}

func TestSaveImageGeneratesUniqueNames(t *testing.T) {
	svc, _ := newTestUploads(t)

	fileA, headerA := multipartFile(t, "same.png", []byte("a"))
	fileB, headerB := multipartFile(t, "same.png", []byte("b"))

	resultA, err := svc.SaveImage(context.Background(), fileA, headerA)
	require.NoError(t, err)
	resultB, err := svc.SaveImage(context.Background(), fileB, headerB)
	require.NoError(t, err)

	assert.NotEqual(t, resultA.ImageURL, resultB.ImageURL)
}

func TestSaveImageRejectsBadExtensions(t *testing.T) {
	svc, dir := newTestUploads(t)

	for _, filename := range []string{"shell.php", "page.html", "archive.zip", "noext"} {
		file, header := multipartFile(t, filename, []byte("payload"))
		_, err := svc.SaveImage(context.Background(), file, header)
		appErr := pkgerrors.As(err)
		require.NotNil(t, appErr, "expected rejection for %s", filename)
		assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveImageEnforcesSizeLimit(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewService(config.UploadsConfig{Dir: dir, MaxUploadMB: 1}, testUploadsLogger())
	require.NoError(t, err)

	tooBig := bytes.Repeat([]byte("x"), (1<<20)+1)
	file, header := multipartFile(t, "huge.jpg", tooBig)

	_, err = svc.SaveImage(context.Background(), file, header)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNewServiceCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	_, err := NewService(config.UploadsConfig{Dir: dir, MaxUploadMB: 2}, testUploadsLogger())
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
