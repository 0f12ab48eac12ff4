package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gvfbla/jobboard-api/internal/service"
	appErrors "github.com/gvfbla/jobboard-api/pkg/errors"
	"github.com/gvfbla/jobboard-api/pkg/response"
)

// browseCriteriaKeys are the query parameters accepted as field filters on
// the public browse endpoint.
var browseCriteriaKeys = []string{"company", "title", "location", "skills"}

// PostingHandler wires HTTP endpoints to the posting service.
type PostingHandler struct {
	service *service.PostingService
}

// NewPostingHandler creates a new handler.
func NewPostingHandler(svc *service.PostingService) *PostingHandler {
	return &PostingHandler{service: svc}
}

// Browse lists approved postings with optional ?q= keyword and field filters.
func (h *PostingHandler) Browse(c *gin.Context) {
	criteria := map[string]string{}
	for _, key := range browseCriteriaKeys {
		if v := c.Query(key); v != "" {
			criteria[key] = v
		}
	}

	postings, err := h.service.BrowsePublic(c.Request.Context(), c.Query("q"), criteria)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, postings)
}

// Get returns a single posting.
func (h *PostingHandler) Get(c *gin.Context) {
	posting, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, posting)
}

// Submit creates a posting for the authenticated employer.
func (h *PostingHandler) Submit(c *gin.Context) {
	acct, ok := actor(c)
	if !ok {
		return
	}

	var req service.SubmitPostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid posting payload"))
		return
	}

	posting, err := h.service.Submit(c.Request.Context(), acct, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, posting)
}

// Update edits a posting and sends it back through approval.
func (h *PostingHandler) Update(c *gin.Context) {
	acct, ok := actor(c)
	if !ok {
		return
	}

	var req service.UpdatePostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid posting payload"))
		return
	}

	posting, err := h.service.Update(c.Request.Context(), acct, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, posting)
}

// Delete removes a posting.
func (h *PostingHandler) Delete(c *gin.Context) {
	acct, ok := actor(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), acct, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Mine lists the authenticated employer's own postings.
func (h *PostingHandler) Mine(c *gin.Context) {
	acct, ok := actor(c)
	if !ok {
		return
	}

	postings, err := h.service.ListMine(c.Request.Context(), acct)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, postings)
}

// ListAll returns every posting regardless of status.
func (h *PostingHandler) ListAll(c *gin.Context) {
	acct, ok := actor(c)
	if !ok {
		return
	}

	postings, err := h.service.ListAll(c.Request.Context(), acct)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, postings)
}

// PendingReview lists postings awaiting an admin decision.
func (h *PostingHandler) PendingReview(c *gin.Context) {
	acct, ok := actor(c)
	if !ok {
		return
	}

	postings, err := h.service.ListPendingReview(c.Request.Context(), acct)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, postings)
}

// Approve moves a pending posting to APPROVED.
func (h *PostingHandler) Approve(c *gin.Context) {
	acct, ok := actor(c)
	if !ok {
		return
	}

	posting, err := h.service.Approve(c.Request.Context(), acct, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, posting)
}

// Reject moves a pending posting to REJECTED with a reason.
func (h *PostingHandler) Reject(c *gin.Context) {
	acct, ok := actor(c)
	if !ok {
		return
	}

	var req service.RejectPostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "rejection reason is required"))
		return
	}

	posting, err := h.service.RejectPosting(c.Request.Context(), acct, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, posting)
}
