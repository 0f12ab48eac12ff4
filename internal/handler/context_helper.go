package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/gvfbla/jobboard-api/internal/middleware"
	"github.com/gvfbla/jobboard-api/internal/models"
	appErrors "github.com/gvfbla/jobboard-api/pkg/errors"
	"github.com/gvfbla/jobboard-api/pkg/response"
)

// actor returns the authenticated account or writes an unauthorized response
// and reports false.
func actor(c *gin.Context) (*models.Account, bool) {
	acct := middleware.CurrentAccount(c)
	if acct == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return nil, false
	}
	return acct, true
}
