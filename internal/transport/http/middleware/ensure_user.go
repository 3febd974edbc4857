package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/todo-api/internal/domain"
	"github.com/ErlanBelekov/todo-api/internal/metrics"
	"github.com/ErlanBelekov/todo-api/internal/repository"
	"github.com/gin-gonic/gin"
)

// EnsureUser runs after Auth. A token stays valid after its user is deleted,
// so the user is looked up and a missing account is treated like a bad token.
func EnsureUser(repo repository.UserRepository, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, err := repo.FindByID(c.Request.Context(), UserID(c))
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				metrics.AuthRejectionsTotal.WithLabelValues("unknown_user").Inc()
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": errTokenInvalid})
				return
			}
			logger.ErrorContext(c.Request.Context(), "ensure user lookup", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				gin.H{"error": "Internal server error"})
			return
		}
		c.Next()
	}
}
