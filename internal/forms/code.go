package forms

import (
	"strings"

	"catalog-admin/internal/apiclient"
	"catalog-admin/internal/models"
)

// CodeKind configures a name+code draft for one namespace.
type CodeKind struct {
	Noun    string // "Genre"
	NameKey string // "genreName"
	CodeKey string // "genreCode"
}

var (
	GenreKind = CodeKind{Noun: "Genre", NameKey: "genreName", CodeKey: "genreCode"}
	TagKind   = CodeKind{Noun: "Tag", NameKey: "tagName", CodeKey: "tagCode"}
)

type codeValues struct {
	Name string `form:"name" validate:"required,max=100"`
	Code string `form:"code" validate:"required,min=2,max=10,uppercase,alphanum"`
}

// CodeDraft edits genres and tags. The code is uppercased as it is typed but
// not at validation time.
type CodeDraft struct {
	Kind     CodeKind
	Name     string
	Code     string
	IsActive bool
}

// NewGenreDraft creates a genre draft from g, or an empty one when g is nil.
func NewGenreDraft(g *models.Genre) *CodeDraft {
	d := &CodeDraft{Kind: GenreKind, IsActive: true}
	if g != nil {
		d.Name, d.Code, d.IsActive = g.GenreName, g.GenreCode, g.IsActive
	}
	return d
}

// NewTagDraft creates a tag draft from t, or an empty one when t is nil.
func NewTagDraft(t *models.Tag) *CodeDraft {
	d := &CodeDraft{Kind: TagKind, IsActive: true}
	if t != nil {
		d.Name, d.Code, d.IsActive = t.TagName, t.TagCode, t.IsActive
	}
	return d
}

func (d *CodeDraft) Fields() []Field {
	return []Field{
		{Name: d.Kind.NameKey, Label: d.Kind.Noun + " name", Kind: KindText, Value: d.Name, Required: true, MaxLength: 100},
		{Name: d.Kind.CodeKey, Label: d.Kind.Noun + " code", Kind: KindText, Value: d.Code, Required: true, Uppercase: true, MaxLength: 10},
		{Name: "isActive", Label: "Active", Kind: KindCheckbox, Checked: d.IsActive},
	}
}

func (d *CodeDraft) Bind(in Input) {
	if in.Has(d.Kind.NameKey) {
		d.Name = in.Get(d.Kind.NameKey)
	}
	if in.Has(d.Kind.CodeKey) {
		d.Code = strings.ToUpper(in.Get(d.Kind.CodeKey))
	}
	d.IsActive = in.Bool("isActive")
}

func (d *CodeDraft) values() codeValues {
	return codeValues{Name: strings.TrimSpace(d.Name), Code: strings.TrimSpace(d.Code)}
}

// Validate checks the name and the 2-10 character uppercase code.
func (d *CodeDraft) Validate() FieldErrors {
	v := d.values()
	errs := validateStruct(&v, map[string]string{
		"name": d.Kind.Noun + " name",
		"code": d.Kind.Noun + " code",
	})
	if len(errs) == 0 {
		return nil
	}
	out := make(FieldErrors, len(errs))
	for k, msg := range errs {
		switch k {
		case "name":
			out[d.Kind.NameKey] = msg
		case "code":
			out[d.Kind.CodeKey] = msg
		default:
			out[k] = msg
		}
	}
	return out
}

func (d *CodeDraft) Payload() apiclient.Payload {
	v := d.values()
	return apiclient.Payload{Fields: map[string]any{
		d.Kind.NameKey: v.Name,
		d.Kind.CodeKey: v.Code,
		"isActive":     d.IsActive,
	}}
}
