package forms

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"catalog-admin/internal/apiclient"
)

type Category string

const (
	CategoryImage Category = "image"
	CategoryVideo Category = "video"
)

// Attachment is a media slot holding either a remote URL or a selected file,
// never both.
type Attachment struct {
	// FileField is the multipart part name, e.g. "poster".
	FileField string
	// URLField is the payload key for the remote URL, e.g. "posterUrl".
	URLField string
	Label    string
	Category Category

	URL  string
	File *apiclient.FilePart
}

// Select holds a newly chosen file and clears the URL.
func (a *Attachment) Select(f *apiclient.FilePart) {
	if f == nil {
		return
	}
	part := *f
	part.Field = a.FileField
	a.File = &part
	a.URL = ""
}

// SetURL sets the URL and drops any held file.
func (a *Attachment) SetURL(raw string) {
	a.URL = strings.TrimSpace(raw)
	if a.URL != "" {
		a.File = nil
	}
}

// Remove clears both the file and the URL.
func (a *Attachment) Remove() {
	a.URL = ""
	a.File = nil
}

func (a Attachment) Empty() bool {
	return a.File == nil && a.URL == ""
}

// bind applies one round of input: <url field>, <file field> and <file field>Remove.
func (a *Attachment) bind(in Input) {
	if in.Bool(a.FileField + "Remove") {
		a.Remove()
		return
	}
	if f := in.File(a.FileField); f != nil && len(f.Content) > 0 {
		a.Select(f)
		return
	}
	if !in.Has(a.URLField) {
		return
	}
	raw := strings.TrimSpace(in.Get(a.URLField))
	if raw == "" && a.File != nil {
		return
	}
	a.SetURL(raw)
}

// MediaType is the declared type of the selected file, sniffed from its
// content when the browser sent nothing useful.
func (a Attachment) MediaType() string {
	if a.File == nil {
		return ""
	}
	declared := strings.TrimSpace(strings.SplitN(a.File.ContentType, ";", 2)[0])
	if declared != "" && declared != "application/octet-stream" {
		return strings.ToLower(declared)
	}
	return mimetype.Detect(a.File.Content).String()
}

func (a Attachment) validate() string {
	if a.File != nil {
		mt := a.MediaType()
		if !strings.HasPrefix(mt, string(a.Category)+"/") {
			return fmt.Sprintf("%s must be %s file", a.Label, a.article())
		}
		return ""
	}
	if a.URL != "" && !validURL(a.URL) {
		return fmt.Sprintf("%s URL must be a valid URL", a.Label)
	}
	return ""
}

func (a Attachment) article() string {
	if a.Category == CategoryImage {
		return "an image"
	}
	return "a " + string(a.Category)
}

// Preview returns something an <img>/<video> can point at.
func (a Attachment) Preview() string {
	if a.File != nil {
		mt := a.MediaType()
		if a.Category == CategoryImage && strings.HasPrefix(mt, "image/") {
			return "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(a.File.Content)
		}
		return ""
	}
	return a.URL
}

func (a Attachment) accept() string {
	return string(a.Category) + "/*"
}

func (a Attachment) field() Field {
	return Field{
		Name:    a.FileField,
		Label:   a.Label,
		Kind:    KindFile,
		Value:   a.URL,
		URLName: a.URLField,
		Accept:  a.accept(),
		Preview: a.Preview(),
	}
}

// apply writes the URL into fields when no file replaces it, and returns the
// file part otherwise.
func (a Attachment) apply(fields map[string]any) []apiclient.FilePart {
	if a.File != nil {
		return []apiclient.FilePart{*a.File}
	}
	if a.URL != "" {
		fields[a.URLField] = a.URL
	}
	return nil
}
