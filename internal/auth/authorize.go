package auth

import (
	"errors"
	"strings"

	"saweb/api/internal/model"
)

var (
	ErrMissingToken    = errors.New("missing token")
	ErrMalformedToken  = errors.New("malformed token")
	ErrInvalidToken    = errors.New("invalid or expired token")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", ErrMalformedToken
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", ErrMalformedToken
	}
	return token, nil
}

// Authorize checks the claim's role against the allow-list.
func Authorize(claims *Claims, allowed ...model.Role) error {
	if claims == nil {
		return ErrUnauthenticated
	}
	role := claims.RoleValue()
	if !role.Valid() {
		return ErrForbidden
	}
	for _, a := range allowed {
		if a == role {
			return nil
		}
	}
	return ErrForbidden
}
