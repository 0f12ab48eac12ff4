package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/gvfbla/jobboard-api/internal/models"
	appErrors "github.com/gvfbla/jobboard-api/pkg/errors"
	"github.com/gvfbla/jobboard-api/pkg/export"
)

// ExportFormat selects the rendered report type.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

// Report bundles rendered bytes with HTTP delivery metadata.
type Report struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders admin reports over the board's collections.
type ExportService struct {
	postings     statsPostingReader
	applications statsApplicationReader
	logger       *zap.Logger
}

// NewExportService creates an instance of ExportService.
func NewExportService(postings statsPostingReader, applications statsApplicationReader, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{postings: postings, applications: applications, logger: logger}
}

// PostingsReport renders every posting in the requested format. Admin only.
func (s *ExportService) PostingsReport(ctx context.Context, actor *models.Account, format ExportFormat) (*Report, error) {
	if actor.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only admins may export reports")
	}

	postings, err := s.postings.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInfrastructure.Code, appErrors.ErrInfrastructure.Status, "failed to list postings")
	}

	table := export.Table{
		Columns: []string{"ID", "Company", "Title", "Location", "Salary", "Status", "Created"},
	}
	for _, p := range postings {
		table.Rows = append(table.Rows, []string{
			p.ID,
			p.CompanyName,
			p.JobTitle,
			p.Location,
			strconv.FormatFloat(p.StartingSalary, 'f', 2, 64),
			string(p.Status),
			p.CreatedAt.Format("2006-01-02"),
		})
	}

	return s.render(table, "Job Postings Report", "job_postings", format)
}

// ApplicationsReport renders every application in the requested format. Admin
// only.
func (s *ExportService) ApplicationsReport(ctx context.Context, actor *models.Account, format ExportFormat) (*Report, error) {
	if actor.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only admins may export reports")
	}

	applications, err := s.applications.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInfrastructure.Code, appErrors.ErrInfrastructure.Status, "failed to list applications")
	}

	table := export.Table{
		Columns: []string{"ID", "Posting", "Applicant", "Email", "Status", "Submitted"},
	}
	for _, a := range applications {
		table.Rows = append(table.Rows, []string{
			a.ID,
			a.PostingID,
			strings.TrimSpace(a.FirstName + " " + a.LastName),
			a.Email,
			string(a.Status),
			a.SubmittedAt.Format("2006-01-02"),
		})
	}

	return s.render(table, "Applications Report", "applications", format)
}

func (s *ExportService) render(table export.Table, title, basename string, format ExportFormat) (*Report, error) {
	switch format {
	case FormatCSV:
		data, err := export.RenderCSV(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &Report{
			Filename:    fmt.Sprintf("%s.csv", basename),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case FormatPDF:
		data, err := export.RenderPDF(table, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &Report{
			Filename:    fmt.Sprintf("%s.pdf", basename),
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}
