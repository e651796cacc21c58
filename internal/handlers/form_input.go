package handlers

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"catalog-admin/internal/apiclient"
	"catalog-admin/internal/forms"
)

// formInput reads a posted form, urlencoded or multipart, into forms.Input.
func formInput(c *fiber.Ctx) (forms.Input, error) {
	in := forms.Input{Values: url.Values{}, Files: map[string]*apiclient.FilePart{}}

	if !strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		c.Request().PostArgs().VisitAll(func(k, v []byte) {
			in.Values.Add(string(k), string(v))
		})
		return in, nil
	}

	mf, err := c.MultipartForm()
	if err != nil {
		return in, fmt.Errorf("failed to parse form: %w", err)
	}
	for k, vs := range mf.Value {
		in.Values[k] = vs
	}
	for field, headers := range mf.File {
		if len(headers) == 0 || headers[0].Filename == "" || headers[0].Size == 0 {
			continue
		}
		fh := headers[0]
		f, err := fh.Open()
		if err != nil {
			return in, fmt.Errorf("failed to open %s: %w", field, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return in, fmt.Errorf("failed to read %s: %w", field, err)
		}
		in.Files[field] = &apiclient.FilePart{
			Field:       field,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(fiber.HeaderContentType),
			Content:     data,
		}
	}
	return in, nil
}
