package intake

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type part struct {
	field, filename, content string
}

func multipartRequest(t *testing.T, values map[string]string, files ...part) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range values {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		fw, err := w.CreateFormFile(f.field, f.filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/uploadStudent", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())

	return req
}

func TestSave_NoFile(t *testing.T) {
	in, err := New(t.TempDir(), "/uploads")
	require.NoError(t, err)

	ref, err := in.Save(nil)

	require.NoError(t, err)
	assert.Nil(t, ref)
}

func TestSave_WritesExactBytes(t *testing.T) {
	dir := t.TempDir()
	in, err := New(dir, "/uploads")
	require.NoError(t, err)

	content := "\x00\x01binary\xffpayload"
	_, header, err := ReadForm(multipartRequest(t, nil, part{"file", "transcript.PDF", content}))
	require.NoError(t, err)

	ref, err := in.Save(header)
	require.NoError(t, err)
	require.NotNil(t, ref)

	assert.Regexp(t, regexp.MustCompile(`^/uploads/[0-9a-f-]{36}\.PDF$`), *ref)

	onDisk, err := os.ReadFile(filepath.Join(dir, filepath.Base(*ref)))
	require.NoError(t, err)
	assert.Equal(t, content, string(onDisk))
}

func TestSave_DistinctNames(t *testing.T) {
	in, err := New(t.TempDir(), "/uploads")
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		_, header, err := ReadForm(multipartRequest(t, nil, part{"file", "a.txt", "x"}))
		require.NoError(t, err)

		ref, err := in.Save(header)
		require.NoError(t, err)
		assert.False(t, seen[*ref], "name reused: %s", *ref)
		seen[*ref] = true
	}
}

func TestDiscard_RemovesFile(t *testing.T) {
	dir := t.TempDir()
	in, err := New(dir, "/uploads")
	require.NoError(t, err)

	_, header, err := ReadForm(multipartRequest(t, nil, part{"file", "a.txt", "x"}))
	require.NoError(t, err)
	ref, err := in.Save(header)
	require.NoError(t, err)

	require.NoError(t, in.Discard(ref))

	_, err = os.Stat(filepath.Join(dir, filepath.Base(*ref)))
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, in.Discard(nil))
}

func TestSave_DirectoryGone(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	in, err := New(dir, "/uploads")
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dir))

	_, header, err := ReadForm(multipartRequest(t, nil, part{"file", "a.txt", "x"}))
	require.NoError(t, err)

	_, err = in.Save(header)
	assert.Error(t, err)
}

func TestReadForm_FieldsWithoutFile(t *testing.T) {
	values, header, err := ReadForm(multipartRequest(t, map[string]string{"firstName": "Ada", "section": "B"}))

	require.NoError(t, err)
	assert.Nil(t, header)
	assert.Equal(t, "Ada", values.Get("firstName"))
	assert.Equal(t, "B", values.Get("section"))
	assert.False(t, values.Has("lastName"))
}

func TestReadForm_RejectsOtherFileField(t *testing.T) {
	_, _, err := ReadForm(multipartRequest(t, nil, part{"avatar", "a.png", "x"}))

	assert.ErrorIs(t, err, ErrUnexpectedFile)
}

func TestReadForm_RejectsSecondFile(t *testing.T) {
	_, _, err := ReadForm(multipartRequest(t, nil,
		part{"file", "a.png", "x"},
		part{"file", "b.png", "y"},
	))

	assert.ErrorIs(t, err, ErrUnexpectedFile)
}

func TestReadForm_URLEncoded(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/uploadAdmin", strings.NewReader("adminID=A1&department=IT"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	values, header, err := ReadForm(req)

	require.NoError(t, err)
	assert.Nil(t, header)
	assert.Equal(t, "A1", values.Get("adminID"))
}

func TestFileServer_ServesSavedFile(t *testing.T) {
	in, err := New(t.TempDir(), "/uploads")
	require.NoError(t, err)

	_, header, err := ReadForm(multipartRequest(t, nil, part{"file", "note.txt", "hello"}))
	require.NoError(t, err)
	ref, err := in.Save(header)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	in.FileServer().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, *ref, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())
}

func TestFileServer_HidesDirectories(t *testing.T) {
	dir := t.TempDir()
	in, err := New(dir, "/uploads")
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	for _, target := range []string{"/uploads/", "/uploads/nested", "/uploads/nested/"} {
		rec := httptest.NewRecorder()
		in.FileServer().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

		assert.Equal(t, http.StatusNotFound, rec.Code, target)
	}
}
