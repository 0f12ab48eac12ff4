package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gvfbla/jobboard-api/internal/models"
	"github.com/gvfbla/jobboard-api/internal/repository"
	appErrors "github.com/gvfbla/jobboard-api/pkg/errors"
)

type applicationRepository interface {
	Create(ctx context.Context, app models.Application) error
	GetByID(ctx context.Context, id string) (*models.Application, error)
	ListForPosting(ctx context.Context, postingID string) ([]models.Application, error)
	ListByAccount(ctx context.Context, accountID string) ([]models.Application, error)
	Accept(ctx context.Context, id string, at time.Time) error
	Reject(ctx context.Context, id, reason string, at time.Time) error
}

type applicationPostingReader interface {
	GetByID(ctx context.Context, id string) (*models.Posting, error)
}

type applicationAccountWriter interface {
	AppendAppliedJob(ctx context.Context, accountID, postingID string) error
}

// SubmitApplicationRequest is the payload for applying to a posting.
type SubmitApplicationRequest struct {
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	Phone      string `json:"phone"`
	Email      string `json:"email" validate:"required"`
	Education  string `json:"education"`
	Experience string `json:"experience"`
	References string `json:"references"`
}

// RejectApplicationRequest carries the mandatory rejection reason.
type RejectApplicationRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// ApplicationService manages job applications and their accept/reject
// lifecycle.
type ApplicationService struct {
	repo      applicationRepository
	postings  applicationPostingReader
	accounts  applicationAccountWriter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewApplicationService creates an instance of ApplicationService.
func NewApplicationService(repo applicationRepository, postings applicationPostingReader, accounts applicationAccountWriter, validate *validator.Validate, logger *zap.Logger) *ApplicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ApplicationService{repo: repo, postings: postings, accounts: accounts, validator: validate, logger: logger}
}

// Submit files an application against an approved posting.
func (s *ApplicationService) Submit(ctx context.Context, actor *models.Account, postingID string, req SubmitApplicationRequest) (*models.Application, error) {
	if !actor.HasPermission(models.PermApplyJob) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "student account required to apply")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid application payload")
	}
	if !emailPattern.MatchString(req.Email) {
		return nil, appErrors.ErrInvalidEmail
	}

	posting, err := s.postings.GetByID(ctx, postingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.ErrPostingNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInfrastructure.Code, appErrors.ErrInfrastructure.Status, "failed to load posting")
	}
	if posting.Status != models.PostingApproved {
		return nil, appErrors.ErrPostingNotFound
	}

	now := time.Now().UTC()
	app := models.Application{
		ID:          uuid.NewString(),
		AccountID:   actor.ID,
		PostingID:   postingID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		Email:       req.Email,
		Education:   req.Education,
		Experience:  req.Experience,
		References:  req.References,
		Status:      models.ApplicationPending,
		SubmittedAt: now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, app); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInfrastructure.Code, appErrors.ErrInfrastructure.Status, "failed to persist application")
	}

	if err := s.accounts.AppendAppliedJob(ctx, actor.ID, postingID); err != nil {
		s.logger.Warn("failed to record applied job on student profile",
			zap.String("account_id", actor.ID), zap.String("posting_id", postingID), zap.Error(err))
	}

	s.logger.Info("application submitted",
		zap.String("application_id", app.ID), zap.String("posting_id", postingID))
	return &app, nil
}

// Get returns a single application. Visible to the applicant, the employer
// owning the posting, and admins.
func (s *ApplicationService) Get(ctx context.Context, actor *models.Account, id string) (*models.Application, error) {
	app, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if app.AccountID == actor.ID || actor.Role == models.RoleAdmin {
		return app, nil
	}
	if !actor.HasPermission(models.PermViewApplications) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "insufficient permissions to view this application")
	}
	if _, err := s.ownedPosting(ctx, actor, app.PostingID); err != nil {
		return nil, err
	}
	return app, nil
}

// ListForPosting returns the applications filed against a posting. Restricted
// to the posting's owner and admins.
func (s *ApplicationService) ListForPosting(ctx context.Context, actor *models.Account, postingID string) ([]models.Application, error) {
	if !actor.HasPermission(models.PermViewApplications) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "insufficient permissions to view applications")
	}
	if _, err := s.ownedPosting(ctx, actor, postingID); err != nil {
		return nil, err
	}

	apps, err := s.repo.ListForPosting(ctx, postingID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInfrastructure.Code, appErrors.ErrInfrastructure.Status, "failed to list applications")
	}
	return apps, nil
}

// ListMine returns the actor's own applications.
func (s *ApplicationService) ListMine(ctx context.Context, actor *models.Account) ([]models.Application, error) {
	apps, err := s.repo.ListByAccount(ctx, actor.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInfrastructure.Code, appErrors.ErrInfrastructure.Status, "failed to list applications")
	}
	return apps, nil
}

// Accept marks a pending application as ACCEPTED.
func (s *ApplicationService) Accept(ctx context.Context, actor *models.Account, id string) (*models.Application, error) {
	app, err := s.reviewable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Accept(ctx, id, time.Now().UTC()); err != nil {
		return nil, transitionError(err)
	}

	s.logger.Info("application accepted",
		zap.String("application_id", id), zap.String("posting_id", app.PostingID))
	return s.load(ctx, id)
}

// Reject marks a pending application as REJECTED with a reason.
func (s *ApplicationService) Reject(ctx context.Context, actor *models.Account, id string, req RejectApplicationRequest) (*models.Application, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "rejection reason is required")
	}

	app, err := s.reviewable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Reject(ctx, id, req.Reason, time.Now().UTC()); err != nil {
		return nil, transitionError(err)
	}

	s.logger.Info("application rejected",
		zap.String("application_id", id), zap.String("posting_id", app.PostingID))
	return s.load(ctx, id)
}

// reviewable loads the application and verifies the actor may decide it: the
// actor needs VIEW_APPLICATIONS and must own the posting unless it is an
// admin.
func (s *ApplicationService) reviewable(ctx context.Context, actor *models.Account, id string) (*models.Application, error) {
	if !actor.HasPermission(models.PermViewApplications) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "insufficient permissions to review applications")
	}

	app, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedPosting(ctx, actor, app.PostingID); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *ApplicationService) ownedPosting(ctx context.Context, actor *models.Account, postingID string) (*models.Posting, error) {
	posting, err := s.postings.GetByID(ctx, postingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.ErrPostingNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInfrastructure.Code, appErrors.ErrInfrastructure.Status, "failed to load posting")
	}
	if actor.Role != models.RoleAdmin && posting.EmployerID != actor.ID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "posting belongs to another employer")
	}
	return posting, nil
}

func (s *ApplicationService) load(ctx context.Context, id string) (*models.Application, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInfrastructure.Code, appErrors.ErrInfrastructure.Status, "failed to load application")
	}
	return app, nil
}

func transitionError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return appErrors.Clone(appErrors.ErrNotFound, "application not found")
	case errors.Is(err, repository.ErrAlreadyProcessed):
		return appErrors.ErrAlreadyProcessed
	default:
		return appErrors.Wrap(err, appErrors.ErrInfrastructure.Code, appErrors.ErrInfrastructure.Status, "failed to update application")
	}
}
