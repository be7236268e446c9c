// Package authid issues and verifies the JWTs that authenticate commuters
// to the matcher's HTTP surface, adapted from the teacher's
// internal/pkg/jwt token helpers down to the one claim the matching engine
// needs: an opaque user id.
package authid

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Issuer signs and verifies tokens for a single issuer/secret pair.
type Issuer struct {
	Secret            []byte
	Name              string
	ExpirationMinutes int
}

// GenerateToken issues a signed JWT for userID, valid for
// ExpirationMinutes.
func (i Issuer) GenerateToken(userID string) (string, int64, error) {
	expiresAt := time.Now().Add(time.Duration(i.ExpirationMinutes) * time.Minute).Unix()
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     expiresAt,
		"iss":     i.Name,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.Secret)
	if err != nil {
		return "", 0, err
	}
	return signed, expiresAt, nil
}

// ValidateToken parses and verifies tokenString, returning the
// authenticated user id.
func (i Issuer) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(*jwt.Token) (interface{}, error) {
		return i.Secret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", jwt.NewValidationError("invalid token", jwt.ValidationErrorClaimsInvalid)
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", jwt.NewValidationError("missing user_id claim", jwt.ValidationErrorClaimsInvalid)
	}
	return userID, nil
}
