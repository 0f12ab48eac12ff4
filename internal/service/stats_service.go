package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/gvfbla/jobboard-api/internal/models"
	appErrors "github.com/gvfbla/jobboard-api/pkg/errors"
)

type statsPostingReader interface {
	List(ctx context.Context) ([]models.Posting, error)
}

type statsApplicationReader interface {
	List(ctx context.Context) ([]models.Application, error)
}

// StatsService computes the public board statistics shown on the landing
// page.
type StatsService struct {
	postings     statsPostingReader
	applications statsApplicationReader
	logger       *zap.Logger
}

// NewStatsService creates an instance of StatsService.
func NewStatsService(postings statsPostingReader, applications statsApplicationReader, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{postings: postings, applications: applications, logger: logger}
}

// BoardStats counts approved postings, the distinct companies behind them,
// and the distinct students with an accepted application.
func (s *StatsService) BoardStats(ctx context.Context) (*models.BoardStats, error) {
	postings, err := s.postings.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInfrastructure.Code, appErrors.ErrInfrastructure.Status, "failed to list postings")
	}

	stats := &models.BoardStats{}
	companies := make(map[string]struct{})
	for _, p := range postings {
		if p.Status != models.PostingApproved {
			continue
		}
		stats.ActiveJobs++
		if p.CompanyName != "" {
			companies[p.CompanyName] = struct{}{}
		}
	}
	stats.Companies = len(companies)

	applications, err := s.applications.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInfrastructure.Code, appErrors.ErrInfrastructure.Status, "failed to list applications")
	}

	placed := make(map[string]struct{})
	for _, a := range applications {
		if a.Status == models.ApplicationAccepted {
			placed[a.AccountID] = struct{}{}
		}
	}
	stats.StudentsPlaced = len(placed)

	return stats, nil
}
