package forms

import (
	"strings"

	"catalog-admin/internal/apiclient"
	"catalog-admin/internal/models"
)

type CastDraft struct {
	Name        string `form:"castName" label:"Name" validate:"required,max=100"`
	Description string `form:"castDescription" label:"Description" validate:"max=500"`
	IsActive    bool   `form:"isActive"`

	Image Attachment `validate:"-"`
}

// NewCastDraft creates a draft from c, or an empty one when c is nil.
func NewCastDraft(c *models.CastMember) *CastDraft {
	d := &CastDraft{
		IsActive: true,
		Image: Attachment{
			FileField: "castImageFile",
			URLField:  "castImage",
			Label:     "Image",
			Category:  CategoryImage,
		},
	}
	if c != nil {
		d.Name = c.CastName
		d.Description = c.CastDescription
		d.IsActive = c.IsActive
		d.Image.URL = c.CastImage
	}
	return d
}

func (d *CastDraft) Fields() []Field {
	return []Field{
		{Name: "castName", Label: "Name", Kind: KindText, Value: d.Name, Required: true, MaxLength: 100},
		{Name: "castDescription", Label: "Description", Kind: KindTextarea, Value: d.Description, MaxLength: 500},
		d.Image.field(),
		{Name: "isActive", Label: "Active", Kind: KindCheckbox, Checked: d.IsActive},
	}
}

func (d *CastDraft) Bind(in Input) {
	if in.Has("castName") {
		d.Name = in.Get("castName")
	}
	if in.Has("castDescription") {
		d.Description = in.Get("castDescription")
	}
	d.IsActive = in.Bool("isActive")
	d.Image.bind(in)
}

func (d *CastDraft) normalized() CastDraft {
	n := *d
	n.Name = strings.TrimSpace(n.Name)
	n.Description = strings.TrimSpace(n.Description)
	return n
}

// Validate checks the name, description and image.
func (d *CastDraft) Validate() FieldErrors {
	n := d.normalized()
	errs := validateStruct(&n, nil)
	if msg := n.Image.validate(); msg != "" {
		errs = merge(errs, FieldErrors{n.Image.FileField: msg})
	}
	return errs
}

// Payload omits an empty description and carries a selected image as a file part.
func (d *CastDraft) Payload() apiclient.Payload {
	n := d.normalized()
	fields := map[string]any{
		"castName": n.Name,
		"isActive": n.IsActive,
	}
	if n.Description != "" {
		fields["castDescription"] = n.Description
	}
	return apiclient.Payload{Fields: fields, Files: n.Image.apply(fields)}
}
