package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// FilePart is one binary attachment of a multipart submission.
type FilePart struct {
	Field       string
	Filename    string
	ContentType string
	Content     []byte
}

// Payload is what a form hands to the client: JSON-encodable fields plus raw files.
type Payload struct {
	Fields map[string]any
	Files  []FilePart
}

// Encoding selects how a resource serializes create/update bodies.
type Encoding struct {
	Multipart bool
	// DataField names the JSON part of a multipart body, e.g. castData.
	DataField string
}

var JSONEncoding = Encoding{}

// MultipartEncoding sends the fields as one JSON part named dataField plus the files.
func MultipartEncoding(dataField string) Encoding {
	return Encoding{Multipart: true, DataField: dataField}
}

// Encode renders the payload into a request body and its content type.
func (e Encoding) Encode(p Payload) (io.Reader, string, error) {
	fields := p.Fields
	if fields == nil {
		fields = map[string]any{}
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode payload: %w", err)
	}

	if !e.Multipart {
		return bytes.NewReader(data), "application/json", nil
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField(e.DataField, string(data)); err != nil {
		return nil, "", fmt.Errorf("failed to write %s: %w", e.DataField, err)
	}

	for _, f := range p.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(f.Field), quoteEscaper.Replace(f.Filename)))
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h.Set("Content-Type", contentType)

		w, err := mw.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create part %s: %w", f.Field, err)
		}
		if _, err := w.Write(f.Content); err != nil {
			return nil, "", fmt.Errorf("failed to write part %s: %w", f.Field, err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart body: %w", err)
	}

	return &buf, mw.FormDataContentType(), nil
}
