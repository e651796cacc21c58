package pages

import (
	"errors"
	"fmt"

	"catalog-admin/internal/apiclient"
	"catalog-admin/internal/forms"
)

// NotFoundError is returned when an action targets an id that is not on the
// loaded page.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s is not on the current page", e.Resource, e.ID)
}

// ErrModalClosed is returned by form and confirm actions when no dialog is open.
var ErrModalClosed = errors.New("no dialog is open")

// Describe turns any page error into the banner text.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var (
		apiErr *apiclient.APIError
		reqErr *apiclient.RequestError
		valErr *forms.ValidationError
	)
	switch {
	case errors.Is(err, apiclient.ErrMissingCredential):
		return apiclient.ErrMissingCredential.Error()
	case errors.Is(err, apiclient.ErrUnauthorized):
		return apiclient.ErrUnauthorized.Error()
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.As(err, &reqErr):
		return reqErr.Error()
	case errors.As(err, &valErr):
		return "Please fix the highlighted fields"
	}
	return err.Error()
}
