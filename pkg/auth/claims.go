package auth

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the typed JWT the commerce backend issues to storefront
// visitors. The registered ID doubles as the cart session identifier.
type SessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// UserKey returns the identity string used to namespace wishlist state.
// Anonymous sessions have no email and return "".
func (c *SessionClaims) UserKey() string {
	if c == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(c.Email))
}

// SessionID returns the cart session identifier carried in the token.
func (c *SessionClaims) SessionID() string {
	if c == nil {
		return ""
	}
	return c.ID
}
