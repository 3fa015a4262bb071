package httpclient

import (
	"bytes"
	"io"
	"maps"
	"mime"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"slices"
	"strings"
)

// MultipartBody is an opaque multipart/form-data payload. The transport
// encodes it and sets its own Content-Type with the boundary; callers above
// the transport pass it through untouched.
type MultipartBody struct {
	// Fields are simple key-value form fields, written in key order.
	Fields map[string]string
	// Files are file upload fields, written after Fields in slice order.
	Files []FileField
}

// FileField is one file part of a multipart body.
type FileField struct {
	// FieldName is the form field name (e.g. "file", "avatar").
	FieldName string
	// FileName is the file name sent to the server.
	FileName string
	// ContentType is the part's MIME type. Empty guesses from the FileName
	// extension, then falls back to application/octet-stream.
	ContentType string
	// Data is the file content. Takes precedence over Reader.
	Data []byte
	// Reader streams the content when Data is nil.
	Reader io.Reader
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func (f FileField) header() textproto.MIMEHeader {
	contentType := f.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(f.FileName))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader, 2)
	h.Set("Content-Disposition",
		`form-data; name="`+quoteEscaper.Replace(f.FieldName)+`"; filename="`+quoteEscaper.Replace(f.FileName)+`"`)
	h.Set("Content-Type", contentType)
	return h
}

func (f FileField) content() io.Reader {
	if f.Data == nil && f.Reader != nil {
		return f.Reader
	}
	return bytes.NewReader(f.Data)
}

// encode returns the body and its Content-Type. Bodies with only in-memory
// parts are buffered; a body with a Reader part is streamed through a pipe,
// and write errors surface when the transport reads it.
func (m *MultipartBody) encode() (io.Reader, string, error) {
	if !m.streams() {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		if err := m.write(w); err != nil {
			return nil, "", err
		}
		return &buf, w.FormDataContentType(), nil
	}

	pr, pw := io.Pipe()
	w := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(m.write(w))
	}()
	return pr, w.FormDataContentType(), nil
}

func (m *MultipartBody) streams() bool {
	return slices.ContainsFunc(m.Files, func(f FileField) bool {
		return f.Data == nil && f.Reader != nil
	})
}

func (m *MultipartBody) write(w *multipart.Writer) error {
	for _, k := range slices.Sorted(maps.Keys(m.Fields)) {
		if err := w.WriteField(k, m.Fields[k]); err != nil {
			return err
		}
	}
	for _, f := range m.Files {
		part, err := w.CreatePart(f.header())
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, f.content()); err != nil {
			return err
		}
	}
	return w.Close()
}
