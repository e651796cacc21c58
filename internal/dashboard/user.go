package dashboard

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrTokenExpired = errors.New("token has expired, please sign in again")

// User is what the console knows about the bearer of a token. The backend
// verifies the signature; the console only reads claims to shape navigation.
type User struct {
	ID           string
	Email        string
	Name         string
	Role         string
	Capabilities []string
	ExpiresAt    time.Time
}

func (u *User) DisplayName() string {
	switch {
	case u == nil:
		return ""
	case u.Name != "":
		return u.Name
	case u.Email != "":
		return u.Email
	}
	return u.ID
}

// UserFromToken reads the claims of a bearer token without verifying it.
func UserFromToken(token string, now time.Time) (*User, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	u := &User{
		ID:    stringClaim(claims, "sub", "id", "userId"),
		Email: stringClaim(claims, "email"),
		Name:  stringClaim(claims, "name", "username"),
		Role:  stringClaim(claims, "role"),
	}
	if roles, ok := claims["roles"].([]any); ok && u.Role == "" && len(roles) > 0 {
		u.Role, _ = roles[0].(string)
	}
	for _, key := range []string{"capabilities", "permissions"} {
		if list, ok := claims[key].([]any); ok {
			for _, v := range list {
				if s, ok := v.(string); ok {
					u.Capabilities = append(u.Capabilities, s)
				}
			}
		}
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("failed to read token expiry: %w", err)
	}
	if exp != nil {
		u.ExpiresAt = exp.Time
		if now.After(exp.Time) {
			return nil, ErrTokenExpired
		}
	}
	return u, nil
}

func stringClaim(claims jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		if s, ok := claims[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
