package web

import (
	"errors"
	"strings"
	"sync"
)

// Auth errors.
var (
	// ErrNoCredential is returned when the Authorization header is missing
	// or not a bearer token.
	ErrNoCredential = errors.New("web: missing bearer credential")

	// ErrBadCredential is returned for unknown tokens.
	ErrBadCredential = errors.New("web: invalid credential")
)

// Authorizer verifies a bearer credential and resolves the principal
// behind it.
type Authorizer interface {
	Verify(token string) (principal string, err error)
}

// TokenAuth is a static token-to-principal table.
type TokenAuth struct {
	mu     sync.RWMutex
	tokens map[string]string
}

// NewTokenAuth creates an authorizer from a token->principal map.
func NewTokenAuth(tokens map[string]string) *TokenAuth {
	copied := make(map[string]string, len(tokens))
	for k, v := range tokens {
		copied[k] = v
	}
	return &TokenAuth{tokens: copied}
}

// Verify resolves the principal for a token.
func (a *TokenAuth) Verify(token string) (string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	principal, ok := a.tokens[token]
	if !ok {
		return "", ErrBadCredential
	}
	return principal, nil
}

// bearerToken extracts the token from an Authorization header value.
func bearerToken(header string) (string, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", ErrNoCredential
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", ErrNoCredential
	}
	return token, nil
}
