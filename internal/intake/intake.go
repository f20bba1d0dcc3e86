// Package intake turns the optional file attached to a create request
// into a file on disk plus the reference path stored on the record.
//
// Files are written to a single directory under a random name that keeps
// the original extension:
//
//	report.pdf → uploads/5b1f0c1e-8f2a-4c3e-9a51-0d4f3f7c2b61.pdf
//	           → reference path "/uploads/5b1f0c1e-8f2a-4c3e-9a51-0d4f3f7c2b61.pdf"
//
// Intake and the record write are two separate steps with no transaction
// between them. Callers save the file first, then write the record, and
// call Discard if the record write fails.
package intake

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FieldName is the multipart field the upload must arrive under.
const FieldName = "file"

// maxMemory is how much of a multipart body is held in memory; the rest
// spills to temporary files. It is not a size limit.
const maxMemory = 32 << 20

// ErrUnexpectedFile is returned by ReadForm when a request carries a file
// under another field name, or more than one file under FieldName.
var ErrUnexpectedFile = errors.New("unexpected file field")

// Intake saves uploads into one directory and serves them back.
type Intake struct {
	dir       string
	urlPrefix string
}

// New creates dir if it does not exist yet.
func New(dir, urlPrefix string) (*Intake, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("intake.New: create upload dir: %w", err)
	}

	return &Intake{dir: dir, urlPrefix: urlPrefix}, nil
}

// ReadForm parses the request body and returns its text fields and the
// uploaded file, if any. Bodies that are not multipart are parsed as
// url-encoded forms and never carry a file.
func ReadForm(r *http.Request) (url.Values, *multipart.FileHeader, error) {
	err := r.ParseMultipartForm(maxMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		if err := r.ParseForm(); err != nil {
			return nil, nil, fmt.Errorf("parse form: %w", err)
		}
		return r.PostForm, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("parse multipart form: %w", err)
	}

	var header *multipart.FileHeader
	for field, files := range r.MultipartForm.File {
		if field != FieldName || len(files) > 1 {
			return nil, nil, fmt.Errorf("%w: %s", ErrUnexpectedFile, field)
		}
		header = files[0]
	}

	return url.Values(r.MultipartForm.Value), header, nil
}

// Save writes the uploaded file and returns its reference path. A nil
// header means nothing was uploaded and yields a nil path.
//
// The file is opened with O_EXCL: an existing file is never overwritten.
func (in *Intake) Save(header *multipart.FileHeader) (*string, error) {
	if header == nil {
		return nil, nil
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("Save: open upload: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + filepath.Ext(header.Filename)
	target := filepath.Join(in.dir, name)

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("Save: create file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(target)
		return nil, fmt.Errorf("Save: write file: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(target)
		return nil, fmt.Errorf("Save: close file: %w", err)
	}

	ref := path.Join(in.urlPrefix, name)
	return &ref, nil
}

// Discard removes a file previously returned by Save. A nil reference is
// a no-op.
func (in *Intake) Discard(ref *string) error {
	if ref == nil {
		return nil
	}

	name := path.Base(strings.TrimPrefix(*ref, in.urlPrefix))
	if err := os.Remove(filepath.Join(in.dir, name)); err != nil {
		return fmt.Errorf("Discard: %w", err)
	}

	return nil
}

// FileServer serves the upload directory under the URL prefix. Only
// plain files are served: directories answer 404 and are never listed.
func (in *Intake) FileServer() http.Handler {
	return http.StripPrefix(in.urlPrefix, http.FileServer(filesOnly{http.Dir(in.dir)}))
}

// filesOnly refuses to open directories.
type filesOnly struct {
	http.FileSystem
}

func (fsys filesOnly) Open(name string) (http.File, error) {
	f, err := fsys.FileSystem.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	if info.IsDir() {
		f.Close()
		return nil, fs.ErrNotExist
	}

	return f, nil
}

// Value returns the form value for key, or nil when the key was not sent
// at all. An empty value is kept as "".
func Value(values url.Values, key string) *string {
	if !values.Has(key) {
		return nil
	}

	v := values.Get(key)
	return &v
}
