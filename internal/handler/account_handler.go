package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gvfbla/jobboard-api/internal/models"
	"github.com/gvfbla/jobboard-api/internal/service"
	appErrors "github.com/gvfbla/jobboard-api/pkg/errors"
	"github.com/gvfbla/jobboard-api/pkg/response"
)

// AccountHandler wires HTTP endpoints to the account service.
type AccountHandler struct {
	service *service.AccountService
}

// NewAccountHandler creates a new handler.
func NewAccountHandler(svc *service.AccountService) *AccountHandler {
	return &AccountHandler{service: svc}
}

// RegisterStudent creates a student account.
func (h *AccountHandler) RegisterStudent(c *gin.Context) {
	var req service.RegisterStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid registration payload"))
		return
	}

	acct, err := h.service.RegisterStudent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, acct)
}

// RegisterEmployer creates an employer account.
func (h *AccountHandler) RegisterEmployer(c *gin.Context) {
	var req service.RegisterEmployerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid registration payload"))
		return
	}

	acct, err := h.service.RegisterEmployer(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, acct)
}

// CreateAdmin creates an additional admin account.
func (h *AccountHandler) CreateAdmin(c *gin.Context) {
	acct, ok := actor(c)
	if !ok {
		return
	}

	var req service.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid admin payload"))
		return
	}

	created, err := h.service.CreateAdmin(c.Request.Context(), acct, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, created)
}

// List returns accounts, optionally filtered by ?role=.
func (h *AccountHandler) List(c *gin.Context) {
	acct, ok := actor(c)
	if !ok {
		return
	}

	role := models.Role(c.Query("role"))
	accounts, err := h.service.List(c.Request.Context(), acct, role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, accounts)
}

// SetActive toggles an account's active flag by username.
func (h *AccountHandler) SetActive(c *gin.Context) {
	acct, ok := actor(c)
	if !ok {
		return
	}

	var req service.SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Active == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "active flag is required"))
		return
	}

	if err := h.service.SetActive(c.Request.Context(), acct, c.Param("username"), *req.Active); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// UpdateProfile replaces the caller's student profile.
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	acct, ok := actor(c)
	if !ok {
		return
	}

	var req service.UpdateStudentProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid profile payload"))
		return
	}

	updated, err := h.service.UpdateStudentProfile(c.Request.Context(), acct, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, updated)
}
