package forms

import (
	"strings"

	"catalog-admin/internal/apiclient"
	"catalog-admin/internal/models"
)

type CountryDraft struct {
	Name     string `form:"name" label:"Country name" validate:"required,max=100"`
	Code     string `form:"code" label:"Country code" validate:"required,len=2,alpha,uppercase"`
	IsActive bool   `form:"isActive"`
}

// NewCountryDraft creates a draft from c, or an empty one when c is nil.
func NewCountryDraft(c *models.Country) *CountryDraft {
	d := &CountryDraft{IsActive: true}
	if c != nil {
		d.Name = c.Name
		d.Code = c.Code
		d.IsActive = c.IsActive
	}
	return d
}

func (d *CountryDraft) Fields() []Field {
	return []Field{
		{Name: "name", Label: "Country name", Kind: KindText, Value: d.Name, Required: true, MaxLength: 100},
		{Name: "code", Label: "Country code", Kind: KindText, Value: d.Code, Required: true, Uppercase: true, MaxLength: 2},
		{Name: "isActive", Label: "Active", Kind: KindCheckbox, Checked: d.IsActive},
	}
}

// Bind applies form input. The code is uppercased as it is typed.
func (d *CountryDraft) Bind(in Input) {
	if in.Has("name") {
		d.Name = in.Get("name")
	}
	if in.Has("code") {
		d.Code = strings.ToUpper(in.Get("code"))
	}
	d.IsActive = in.Bool("isActive")
}

// Country codes are normalized before validation, so "us" is accepted as US.
func (d *CountryDraft) normalized() CountryDraft {
	return CountryDraft{
		Name:     strings.TrimSpace(d.Name),
		Code:     strings.ToUpper(strings.TrimSpace(d.Code)),
		IsActive: d.IsActive,
	}
}

func (d *CountryDraft) Validate() FieldErrors {
	n := d.normalized()
	return validateStruct(&n, nil)
}

func (d *CountryDraft) Payload() apiclient.Payload {
	n := d.normalized()
	return apiclient.Payload{Fields: map[string]any{
		"name":     n.Name,
		"code":     n.Code,
		"isActive": n.IsActive,
	}}
}
