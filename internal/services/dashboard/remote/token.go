package remote

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// TokenSubject returns the sub claim of a JWT bearer token without verifying
// its signature. Opaque or subject-less tokens yield fallback.
func TokenSubject(token, fallback string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return fallback
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return fallback
	}
	subject, err := claims.GetSubject()
	if err != nil || strings.TrimSpace(subject) == "" {
		return fallback
	}
	return subject
}
