package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/gvfbla/jobboard-api/internal/service"
	"github.com/gvfbla/jobboard-api/pkg/response"
)

// ReportHandler exposes the admin export endpoints.
type ReportHandler struct {
	exports *service.ExportService
}

// NewReportHandler constructs handler.
func NewReportHandler(exports *service.ExportService) *ReportHandler {
	return &ReportHandler{exports: exports}
}

// Postings downloads all postings as ?format=csv or ?format=pdf.
func (h *ReportHandler) Postings(c *gin.Context) {
	acct, ok := actor(c)
	if !ok {
		return
	}

	report, err := h.exports.PostingsReport(c.Request.Context(), acct, format(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	deliver(c, report)
}

// Applications downloads all applications as ?format=csv or ?format=pdf.
func (h *ReportHandler) Applications(c *gin.Context) {
	acct, ok := actor(c)
	if !ok {
		return
	}

	report, err := h.exports.ApplicationsReport(c.Request.Context(), acct, format(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	deliver(c, report)
}

func format(c *gin.Context) service.ExportFormat {
	f := c.Query("format")
	if f == "" {
		f = string(service.FormatCSV)
	}
	return service.ExportFormat(f)
}

func deliver(c *gin.Context, report *service.Report) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	c.Data(200, report.ContentType, report.Data)
}
