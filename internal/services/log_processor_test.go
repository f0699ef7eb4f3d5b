package services

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autolog/logagent/internal/models"
	"github.com/autolog/logagent/internal/parser"
)

func TestProcessCountsIncidents(t *testing.T) {
	lp := NewLogProcessor(0)

	result := lp.Process(parser.SampleLog)

	assert.Len(t, result.Incidents, 5)
	assert.Equal(t, models.IncidentCounts{Total: 5, Errors: 4, Warnings: 1}, result.Counts)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.out")
	require.NoError(t, os.WriteFile(path, []byte("ERROR x"), 0o644))

	text, err := NewLogProcessor(0).ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ERROR x", text)

	_, err = NewLogProcessor(3).ReadFile(path)
	assert.ErrorIs(t, err, ErrLogTooLarge)

	_, err = NewLogProcessor(0).ReadFile(filepath.Join(dir, "missing.log"))
	assert.Error(t, err)
}

func TestReadAllLimit(t *testing.T) {
	lp := NewLogProcessor(4)

	text, err := lp.ReadAll(strings.NewReader("1234"))
	require.NoError(t, err)
	assert.Equal(t, "1234", text)

	_, err = lp.ReadAll(strings.NewReader("12345"))
	assert.ErrorIs(t, err, ErrLogTooLarge)
}

func multipartHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("logfile", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["logfile"][0]
}

func TestReadUpload(t *testing.T) {
	lp := NewLogProcessor(0)

	text, err := lp.ReadUpload(multipartHeader(t, "server.LOG", "WARN disk"))
	require.NoError(t, err)
	assert.Equal(t, "WARN disk", text)

	_, err = lp.ReadUpload(multipartHeader(t, "image.png", "x"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = NewLogProcessor(2).ReadUpload(multipartHeader(t, "big.txt", "too big"))
	assert.ErrorIs(t, err, ErrLogTooLarge)
}

func TestIsAllowedExtension(t *testing.T) {
	assert.True(t, IsAllowedExtension("a.log"))
	assert.True(t, IsAllowedExtension("a.TXT"))
	assert.True(t, IsAllowedExtension("a.csv"))
	assert.False(t, IsAllowedExtension("a.json"))
	assert.False(t, IsAllowedExtension("log"))
}
