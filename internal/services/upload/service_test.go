package upload

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fraudwatch/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// formFiles builds real multipart file headers from name/content pairs.
func formFiles(t *testing.T, files map[string]string) []*multipart.FileHeader {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for name, content := range files {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["files"]
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	svc := NewService(dir, 16, logger.Discard())

	report, err := svc.Save(context.Background(), formFiles(t, map[string]string{
		"receipt.JPG": "jpegdata",
		"scan.png":    "pngdata",
		"notes.pdf":   "pdf",
		"empty.jpeg":  "",
		"huge.png":    strings.Repeat("x", 17),
	}))
	require.NoError(t, err)

	assert.Len(t, report.Uploaded, 2)
	assert.Len(t, report.Failed, 3)

	for _, u := range report.Uploaded {
		assert.NotEqual(t, u.OriginalName, u.StoredName)
		assert.Equal(t, strings.ToLower(filepath.Ext(u.OriginalName)), filepath.Ext(u.StoredName))
		assert.FileExists(t, filepath.Join(dir, u.StoredName))
	}

	reasons := map[string]string{}
	for _, f := range report.Failed {
		reasons[f.OriginalName] = f.Error
	}
	assert.Contains(t, reasons["notes.pdf"], "not allowed")
	assert.Equal(t, "file is empty", reasons["empty.jpeg"])
	assert.Contains(t, reasons["huge.png"], "exceeds")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestSaveNoFiles(t *testing.T) {
	svc := NewService(t.TempDir(), 1024, logger.Discard())
	_, err := svc.Save(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoFiles)
}
