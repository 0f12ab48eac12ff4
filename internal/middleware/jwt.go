package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gvfbla/jobboard-api/internal/models"
	"github.com/gvfbla/jobboard-api/internal/service"
	appErrors "github.com/gvfbla/jobboard-api/pkg/errors"
	"github.com/gvfbla/jobboard-api/pkg/response"
)

// ContextAccountKey is the gin context key storing the authenticated account.
const ContextAccountKey = "currentAccount"

// JWT protects routes by requiring a valid access token. The live account is
// loaded on every request so that deactivation takes effect immediately, even
// for tokens issued before the account was disabled.
func JWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		acct, err := authService.ResolveAccount(c.Request.Context(), claims)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextAccountKey, acct)
		c.Next()
	}
}

// CurrentAccount returns the authenticated account stored by the JWT
// middleware, or nil when the route is unauthenticated.
func CurrentAccount(c *gin.Context) *models.Account {
	value, exists := c.Get(ContextAccountKey)
	if !exists {
		return nil
	}
	acct, ok := value.(*models.Account)
	if !ok {
		return nil
	}
	return acct
}
