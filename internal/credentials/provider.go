// Package credentials gives the API client read access to the admin bearer token.
package credentials

import (
	"context"
	"errors"
	"strings"
)

// ErrNoToken is returned when no token has been stored for the caller.
var ErrNoToken = errors.New("no access token found")

// Provider hands out the bearer token for the current caller. It never refreshes
// tokens; an expired token surfaces as a 401 from the backend.
type Provider interface {
	Token(ctx context.Context) (string, error)
}

// StaticProvider serves a fixed token, used by the CLI.
type StaticProvider string

func (p StaticProvider) Token(context.Context) (string, error) {
	token := strings.TrimSpace(string(p))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// ProviderFunc adapts a plain function to Provider.
type ProviderFunc func(ctx context.Context) (string, error)

func (f ProviderFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}
