package runtime

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// AuthorizationHeader is the header carrying the credential of
// header-authenticated endpoints.
const AuthorizationHeader = "Authorization"

const bearerPrefix = "Bearer "

// ErrMalformedAuthHeader is returned when an Authorization value is not a
// bearer credential.
var ErrMalformedAuthHeader = errors.New("malformed bearer authorization header")

// AuthHeader is a bearer token sent in the Authorization header.
type AuthHeader struct {
	token string
}

// NewAuthHeader returns the auth header of token.
func NewAuthHeader(token string) AuthHeader {
	return AuthHeader{token: token}
}

// ParseAuthHeader parses an Authorization header value of the form
// "Bearer <token>". The scheme is matched case-insensitively.
func ParseAuthHeader(value string) (AuthHeader, error) {
	if len(value) < len(bearerPrefix) || !strings.EqualFold(value[:len(bearerPrefix)], bearerPrefix) {
		return AuthHeader{}, ErrMalformedAuthHeader
	}
	token := strings.TrimSpace(value[len(bearerPrefix):])
	if token == "" {
		return AuthHeader{}, ErrMalformedAuthHeader
	}
	return AuthHeader{token: token}, nil
}

// Token returns the bearer token.
func (h AuthHeader) Token() string { return h.token }

// String returns the header value.
func (h AuthHeader) String() string { return bearerPrefix + h.token }

// Claims decodes the payload of a JWT bearer token. The signature is not
// verified; use the claims for diagnostics only.
func (h AuthHeader) Claims() (map[string]any, error) {
	parts := strings.Split(h.token, ".")
	if len(parts) < 2 {
		return nil, errors.New("token is not a JWT")
	}
	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return nil, fmt.Errorf("decode JWT payload: %w", err)
	}
	var claims map[string]any
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("unmarshal JWT payload: %w", err)
	}
	return claims, nil
}
