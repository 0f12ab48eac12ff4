package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gvfbla/jobboard-api/internal/service"
	"github.com/gvfbla/jobboard-api/pkg/response"
)

// StatsHandler serves the public board statistics.
type StatsHandler struct {
	service *service.StatsService
}

// NewStatsHandler creates a new handler.
func NewStatsHandler(svc *service.StatsService) *StatsHandler {
	return &StatsHandler{service: svc}
}

// BoardStats returns counts for the landing page.
func (h *StatsHandler) BoardStats(c *gin.Context) {
	stats, err := h.service.BoardStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}
