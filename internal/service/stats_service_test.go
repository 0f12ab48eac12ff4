package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gvfbla/jobboard-api/internal/models"
)

type staticApplicationLister struct {
	applications []models.Application
}

func (s *staticApplicationLister) List(ctx context.Context) ([]models.Application, error) {
	return s.applications, nil
}

func TestBoardStats(t *testing.T) {
	postings := newMockPostingRepo(
		approvedPosting("p1", "employer-1"),
		approvedPosting("p2", "employer-1"),
		pendingPosting("p3", "employer-1"),
	)
	// two approved postings from the same company
	other := approvedPosting("p4", "employer-2")
	other.CompanyName = "Globex"
	postings.postings["p4"] = other

	applications := &staticApplicationLister{applications: []models.Application{
		{ID: "a1", AccountID: "s1", Status: models.ApplicationAccepted},
		{ID: "a2", AccountID: "s1", Status: models.ApplicationAccepted},
		{ID: "a3", AccountID: "s2", Status: models.ApplicationRejected},
		{ID: "a4", AccountID: "s3", Status: models.ApplicationPending},
	}}

	svc := NewStatsService(postings, applications, nil)
	stats, err := svc.BoardStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.ActiveJobs)
	assert.Equal(t, 2, stats.Companies)
	// the same student accepted twice counts once
	assert.Equal(t, 1, stats.StudentsPlaced)
}

func TestBoardStatsEmptyBoard(t *testing.T) {
	svc := NewStatsService(newMockPostingRepo(), &staticApplicationLister{}, nil)
	stats, err := svc.BoardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.BoardStats{}, *stats)
}
