package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ErlanBelekov/todo-api/internal/domain"
	ctxlog "github.com/ErlanBelekov/todo-api/internal/log"
	"github.com/ErlanBelekov/todo-api/internal/metrics"
	"github.com/ErlanBelekov/todo-api/internal/token"
	"github.com/gin-gonic/gin"
)

const (
	errTokenRequired = "Access token required"
	errTokenInvalid  = "Invalid or expired token"

	userIDKey = "userID"
)

type tokenVerifier interface {
	Verify(raw string) (*token.Claims, error)
}

// Guard resolves an Authorization header to the id of the user it was
// issued for.
type Guard struct {
	tokens tokenVerifier
}

func NewGuard(tokens tokenVerifier) *Guard {
	return &Guard{tokens: tokens}
}

// Authenticate returns domain.ErrMissingToken when the header carries no
// bearer token at all and domain.ErrTokenInvalid for every token that fails
// verification.
func (g *Guard) Authenticate(header string) (int64, error) {
	raw, err := BearerToken(header)
	if err != nil {
		return 0, err
	}

	claims, err := g.tokens.Verify(raw)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

// BearerToken extracts the token from "Bearer <token>". The scheme is
// matched case-insensitively.
func BearerToken(header string) (string, error) {
	scheme, raw, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", domain.ErrMissingToken
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", domain.ErrMissingToken
	}
	return raw, nil
}

// Auth validates the bearer token and sets "userID" (int64) in the gin
// context. A missing token is 401, any other failure is 403.
func Auth(guard *Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := guard.Authenticate(c.GetHeader("Authorization"))
		if err != nil {
			if errors.Is(err, domain.ErrMissingToken) {
				metrics.AuthRejectionsTotal.WithLabelValues("missing").Inc()
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errTokenRequired})
				return
			}
			metrics.AuthRejectionsTotal.WithLabelValues("invalid").Inc()
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": errTokenInvalid})
			return
		}

		c.Set(userIDKey, userID)
		c.Request = c.Request.WithContext(ctxlog.WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

// UserID returns the id stored by Auth, or 0 on routes without it.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}
