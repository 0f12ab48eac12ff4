package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gvfbla/jobboard-api/internal/service"
	appErrors "github.com/gvfbla/jobboard-api/pkg/errors"
	"github.com/gvfbla/jobboard-api/pkg/response"
)

// ApplicationHandler wires HTTP endpoints to the application service.
type ApplicationHandler struct {
	service *service.ApplicationService
}

// NewApplicationHandler creates a new handler.
func NewApplicationHandler(svc *service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{service: svc}
}

// Submit applies to a posting as the authenticated student.
func (h *ApplicationHandler) Submit(c *gin.Context) {
	acct, ok := actor(c)
	if !ok {
		return
	}

	var req service.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid application payload"))
		return
	}

	app, err := h.service.Submit(c.Request.Context(), acct, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, app)
}

// Get returns a single application by ID.
func (h *ApplicationHandler) Get(c *gin.Context) {
	acct, ok := actor(c)
	if !ok {
		return
	}

	app, err := h.service.Get(c.Request.Context(), acct, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, app)
}

// ForPosting lists applications filed against a posting.
func (h *ApplicationHandler) ForPosting(c *gin.Context) {
	acct, ok := actor(c)
	if !ok {
		return
	}

	apps, err := h.service.ListForPosting(c.Request.Context(), acct, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, apps)
}

// Mine lists the authenticated account's applications.
func (h *ApplicationHandler) Mine(c *gin.Context) {
	acct, ok := actor(c)
	if !ok {
		return
	}

	apps, err := h.service.ListMine(c.Request.Context(), acct)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, apps)
}

// Accept marks a pending application as accepted.
func (h *ApplicationHandler) Accept(c *gin.Context) {
	acct, ok := actor(c)
	if !ok {
		return
	}

	app, err := h.service.Accept(c.Request.Context(), acct, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, app)
}

// Reject marks a pending application as rejected with a reason.
func (h *ApplicationHandler) Reject(c *gin.Context) {
	acct, ok := actor(c)
	if !ok {
		return
	}

	var req service.RejectApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "rejection reason is required"))
		return
	}

	app, err := h.service.Reject(c.Request.Context(), acct, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, app)
}
