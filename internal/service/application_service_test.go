package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gvfbla/jobboard-api/internal/models"
	"github.com/gvfbla/jobboard-api/internal/repository"
	appErrors "github.com/gvfbla/jobboard-api/pkg/errors"
)

type mockApplicationRepo struct {
	applications map[string]*models.Application
	created      *models.Application
}

func newMockApplicationRepo(existing ...*models.Application) *mockApplicationRepo {
	m := &mockApplicationRepo{applications: map[string]*models.Application{}}
	for _, a := range existing {
		m.applications[a.ID] = a
	}
	return m
}

func (m *mockApplicationRepo) Create(ctx context.Context, app models.Application) error {
	m.created = &app
	m.applications[app.ID] = &app
	return nil
}

func (m *mockApplicationRepo) GetByID(ctx context.Context, id string) (*models.Application, error) {
	app, ok := m.applications[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *app
	return &copy, nil
}

func (m *mockApplicationRepo) ListForPosting(ctx context.Context, postingID string) ([]models.Application, error) {
	var out []models.Application
	for _, a := range m.applications {
		if a.PostingID == postingID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockApplicationRepo) ListByAccount(ctx context.Context, accountID string) ([]models.Application, error) {
	var out []models.Application
	for _, a := range m.applications {
		if a.AccountID == accountID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockApplicationRepo) Accept(ctx context.Context, id string, at time.Time) error {
	return m.transition(id, func(a *models.Application) {
		a.Status = models.ApplicationAccepted
		a.UpdatedAt = at
	})
}

func (m *mockApplicationRepo) Reject(ctx context.Context, id, reason string, at time.Time) error {
	return m.transition(id, func(a *models.Application) {
		a.Status = models.ApplicationRejected
		a.RejectionReason = reason
		a.UpdatedAt = at
	})
}

func (m *mockApplicationRepo) transition(id string, mutate func(*models.Application)) error {
	app, ok := m.applications[id]
	if !ok {
		return repository.ErrNotFound
	}
	if app.Status != models.ApplicationPending {
		return repository.ErrAlreadyProcessed
	}
	mutate(app)
	return nil
}

func approvedPosting(id, employerID string) *models.Posting {
	p := pendingPosting(id, employerID)
	p.Status = models.PostingApproved
	return p
}

func pendingApplication(id, postingID string) *models.Application {
	now := time.Now().UTC()
	return &models.Application{
		ID:          id,
		AccountID:   "student-1",
		PostingID:   postingID,
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "jdoe@example.com",
		Status:      models.ApplicationPending,
		SubmittedAt: now,
		UpdatedAt:   now,
	}
}

func validApplicationRequest() SubmitApplicationRequest {
	return SubmitApplicationRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jdoe@example.com",
		Education: "State University",
	}
}

func TestSubmitApplication(t *testing.T) {
	postings := newMockPostingRepo(approvedPosting("p1", "employer-1"))
	apps := newMockApplicationRepo()
	accounts := &mockAccountWriter{}
	svc := NewApplicationService(apps, postings, accounts, nil, nil)

	app, err := svc.Submit(context.Background(), studentActor(), "p1", validApplicationRequest())
	require.NoError(t, err)

	assert.Equal(t, models.ApplicationPending, app.Status)
	assert.Equal(t, "student-1", app.AccountID)
	assert.Equal(t, "p1", app.PostingID)
	assert.NotEmpty(t, app.ID)
	assert.Equal(t, []string{"p1"}, accounts.appliedJobs)
}

func TestSubmitApplicationOnlyAgainstApprovedPostings(t *testing.T) {
	postings := newMockPostingRepo(pendingPosting("p1", "employer-1"))
	svc := NewApplicationService(newMockApplicationRepo(), postings, &mockAccountWriter{}, nil, nil)

	_, err := svc.Submit(context.Background(), studentActor(), "p1", validApplicationRequest())
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrPostingNotFound.Code))

	_, err = svc.Submit(context.Background(), studentActor(), "ghost", validApplicationRequest())
	assert.True(t, appErrors.HasCode(err, appErrors.ErrPostingNotFound.Code))
}

func TestSubmitApplicationRequiresStudent(t *testing.T) {
	postings := newMockPostingRepo(approvedPosting("p1", "employer-1"))
	svc := NewApplicationService(newMockApplicationRepo(), postings, &mockAccountWriter{}, nil, nil)

	_, err := svc.Submit(context.Background(), employerActor(), "p1", validApplicationRequest())
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden.Code))
}

func TestSubmitApplicationRejectsBadEmail(t *testing.T) {
	postings := newMockPostingRepo(approvedPosting("p1", "employer-1"))
	svc := NewApplicationService(newMockApplicationRepo(), postings, &mockAccountWriter{}, nil, nil)

	req := validApplicationRequest()
	req.Email = "not-an-email"
	_, err := svc.Submit(context.Background(), studentActor(), "p1", req)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrInvalidEmail.Code))
}

func TestAcceptApplication(t *testing.T) {
	postings := newMockPostingRepo(approvedPosting("p1", "employer-1"))
	apps := newMockApplicationRepo(pendingApplication("a1", "p1"))
	svc := NewApplicationService(apps, postings, &mockAccountWriter{}, nil, nil)

	app, err := svc.Accept(context.Background(), employerActor(), "a1")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationAccepted, app.Status)

	// accepted applications are terminal
	_, err = svc.Reject(context.Background(), employerActor(), "a1", RejectApplicationRequest{Reason: "changed mind"})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrAlreadyProcessed.Code))
}

func TestRejectApplicationStoresReason(t *testing.T) {
	postings := newMockPostingRepo(approvedPosting("p1", "employer-1"))
	apps := newMockApplicationRepo(pendingApplication("a1", "p1"))
	svc := NewApplicationService(apps, postings, &mockAccountWriter{}, nil, nil)

	_, err := svc.Reject(context.Background(), employerActor(), "a1", RejectApplicationRequest{})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation.Code))

	app, err := svc.Reject(context.Background(), employerActor(), "a1", RejectApplicationRequest{Reason: "position filled"})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationRejected, app.Status)
	assert.Equal(t, "position filled", app.RejectionReason)
}

func TestReviewApplicationOwnership(t *testing.T) {
	postings := newMockPostingRepo(approvedPosting("p1", "someone-else"))
	apps := newMockApplicationRepo(pendingApplication("a1", "p1"))
	svc := NewApplicationService(apps, postings, &mockAccountWriter{}, nil, nil)

	_, err := svc.Accept(context.Background(), employerActor(), "a1")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden.Code))

	// admins may decide applications on any posting
	_, err = svc.Accept(context.Background(), adminActor(), "a1")
	assert.NoError(t, err)
}

func TestListForPostingOwnership(t *testing.T) {
	postings := newMockPostingRepo(approvedPosting("p1", "employer-1"))
	apps := newMockApplicationRepo(pendingApplication("a1", "p1"), pendingApplication("a2", "other"))
	svc := NewApplicationService(apps, postings, &mockAccountWriter{}, nil, nil)

	list, err := svc.ListForPosting(context.Background(), employerActor(), "p1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a1", list[0].ID)

	_, err = svc.ListForPosting(context.Background(), studentActor(), "p1")
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden.Code))
}

func TestListMineApplications(t *testing.T) {
	postings := newMockPostingRepo()
	apps := newMockApplicationRepo(pendingApplication("a1", "p1"))
	svc := NewApplicationService(apps, postings, &mockAccountWriter{}, nil, nil)

	list, err := svc.ListMine(context.Background(), studentActor())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a1", list[0].ID)
}

func TestGetApplicationVisibility(t *testing.T) {
	postings := newMockPostingRepo(approvedPosting("p1", "employer-1"))
	apps := newMockApplicationRepo(pendingApplication("a1", "p1"))
	svc := NewApplicationService(apps, postings, &mockAccountWriter{}, nil, nil)
	ctx := context.Background()

	// the applicant, the posting's owner, and admins may all read it
	for _, viewer := range []*models.Account{studentActor(), employerActor(), adminActor()} {
		app, err := svc.Get(ctx, viewer, "a1")
		require.NoError(t, err)
		assert.Equal(t, "a1", app.ID)
	}

	other := studentActor()
	other.ID = "student-2"
	_, err := svc.Get(ctx, other, "a1")
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden.Code))

	rival := employerActor()
	rival.ID = "employer-2"
	_, err = svc.Get(ctx, rival, "a1")
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden.Code))

	_, err = svc.Get(ctx, adminActor(), "missing")
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound.Code))
}
