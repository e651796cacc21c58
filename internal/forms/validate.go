package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator. Errors are keyed by the form tag.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

var messages = map[string]string{
	"required":  "%s is required",
	"max":       "%s must be at most %s characters",
	"min":       "%s must be at least %s characters",
	"len":       "%s must be exactly %s characters",
	"alpha":     "%s must contain only letters",
	"alphanum":  "%s must contain only letters and digits",
	"uppercase": "%s must be in uppercase",
	"url":       "%s must be a valid URL",
	"numeric":   "%s must be a number",
	"number":    "%s must be a whole number",
	"gte":       "%s must be at least %s",
	"lte":       "%s must be at most %s",
	"oneof":     "%s must be one of: %s",
}

// validateStruct runs the struct tags of v. labels overrides the label tag.
func validateStruct(v any, labels map[string]string) FieldErrors {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"_": err.Error()}
	}

	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		key := fe.Field()
		if _, seen := out[key]; seen {
			continue
		}
		label := labels[key]
		if label == "" {
			if sf, ok := t.FieldByName(fe.StructField()); ok {
				label = sf.Tag.Get("label")
			}
		}
		if label == "" {
			label = key
		}
		out[key] = message(fe, label)
	}
	return out
}

func message(fe validator.FieldError, label string) string {
	format, ok := messages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("%s is invalid", label)
	}
	if strings.Count(format, "%s") == 2 {
		return fmt.Sprintf(format, label, strings.ReplaceAll(fe.Param(), " ", ", "))
	}
	return fmt.Sprintf(format, label)
}

// validURL reports whether raw is an absolute URL.
func validURL(raw string) bool {
	return Validator().Var(raw, "url") == nil
}

func merge(dst FieldErrors, src FieldErrors) FieldErrors {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = FieldErrors{}
	}
	for k, v := range src {
		if _, ok := dst[k]; !ok {
			dst[k] = v
		}
	}
	return dst
}
