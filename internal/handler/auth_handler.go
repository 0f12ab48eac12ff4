package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gvfbla/jobboard-api/internal/models"
	"github.com/gvfbla/jobboard-api/internal/service"
	appErrors "github.com/gvfbla/jobboard-api/pkg/errors"
	"github.com/gvfbla/jobboard-api/pkg/response"
)

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Login authenticates with username and password and returns a signed token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res)
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(c *gin.Context) {
	acct, ok := actor(c)
	if !ok {
		return
	}
	response.JSON(c, http.StatusOK, acct)
}
