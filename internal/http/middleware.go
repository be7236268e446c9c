// Package http wires gin handlers for the REST contract of §6.2, adapted
// from the teacher's internal/pkg/middleware.JWTAuthMiddleware (bearer
// token parsed into a user id stashed on the gin context) and its
// typed-error-to-HTTP-status convention.
package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"github.com/kawanjalan/commute-matcher/internal/authid"
	engineerrors "github.com/kawanjalan/commute-matcher/internal/matching/errors"
)

const userIDContextKey = "user_id"

// AuthMiddleware requires a Bearer token verified against issuer and stores
// the authenticated user id on the gin context.
func AuthMiddleware(issuer authid.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header is required"})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}

		userID, err := issuer.ValidateToken(parts[1])
		if err != nil {
			var validationErr *jwt.ValidationError
			if errors.As(err, &validationErr) && validationErr.Errors&jwt.ValidationErrorExpired != 0 {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token has expired"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(userIDContextKey, userID)
		c.Next()
	}
}

func callerUserID(c *gin.Context) string {
	id, _ := c.Get(userIDContextKey)
	s, _ := id.(string)
	return s
}

// statusFor maps an engine error Kind to the §7 HTTP status.
func statusFor(err error) int {
	kind, ok := engineerrors.KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch kind {
	case engineerrors.KindNotFound, engineerrors.KindPermissionDenied:
		return http.StatusNotFound
	case engineerrors.KindInvalidInput:
		return http.StatusBadRequest
	case engineerrors.KindRouteGenerationFailure, engineerrors.KindUpstreamTimeout:
		return http.StatusBadGateway
	case engineerrors.KindConflictOnWrite:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
