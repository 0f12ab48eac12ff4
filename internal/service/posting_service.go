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

type postingRepository interface {
	Create(ctx context.Context, p models.Posting) error
	GetByID(ctx context.Context, id string) (*models.Posting, error)
	Update(ctx context.Context, p models.Posting) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Posting, error)
	Approve(ctx context.Context, id, approverID string, at time.Time) (*models.Posting, error)
	Reject(ctx context.Context, id, reason string) (*models.Posting, error)
	Query(ctx context.Context, keyword string, criteria map[string]string) ([]models.Posting, error)
}

type postingAccountWriter interface {
	AppendPostedJob(ctx context.Context, accountID, postingID string) error
}

// SubmitPostingRequest is the payload for creating a job posting. Every field
// must be present and the salary strictly positive.
type SubmitPostingRequest struct {
	JobTitle       string  `json:"job_title" validate:"required"`
	JobDescription string  `json:"job_description" validate:"required"`
	Skills         string  `json:"skills" validate:"required"`
	StartingSalary float64 `json:"starting_salary" validate:"gt=0"`
	Location       string  `json:"location" validate:"required"`
}

// UpdatePostingRequest is the payload for editing an existing posting. Edits
// are held to the same field rules as submission.
type UpdatePostingRequest struct {
	JobTitle       string  `json:"job_title" validate:"required"`
	JobDescription string  `json:"job_description" validate:"required"`
	Skills         string  `json:"skills" validate:"required"`
	StartingSalary float64 `json:"starting_salary" validate:"gt=0"`
	Location       string  `json:"location" validate:"required"`
}

// RejectPostingRequest carries the mandatory rejection reason.
type RejectPostingRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// PostingService manages the posting lifecycle: submission, the admin
// approval workflow, edits, and public browsing.
type PostingService struct {
	repo      postingRepository
	accounts  postingAccountWriter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPostingService creates an instance of PostingService.
func NewPostingService(repo postingRepository, accounts postingAccountWriter, validate *validator.Validate, logger *zap.Logger) *PostingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &PostingService{repo: repo, accounts: accounts, validator: validate, logger: logger}
}

// Submit creates a posting in PENDING_APPROVAL on behalf of an employer. The
// company name is taken from the employer profile, never from the payload.
func (s *PostingService) Submit(ctx context.Context, actor *models.Account, req SubmitPostingRequest) (*models.Posting, error) {
	if !actor.HasPermission(models.PermPostJob) || actor.Employer == nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "employer account required to post jobs")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid posting payload")
	}

	posting := models.Posting{
		ID:             uuid.NewString(),
		EmployerID:     actor.ID,
		CompanyName:    actor.Employer.CompanyName,
		JobTitle:       req.JobTitle,
		JobDescription: req.JobDescription,
		Skills:         req.Skills,
		StartingSalary: req.StartingSalary,
		Location:       req.Location,
		Status:         models.PostingPendingApproval,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, posting); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInfrastructure.Code, appErrors.ErrInfrastructure.Status, "failed to persist posting")
	}

	if err := s.accounts.AppendPostedJob(ctx, actor.ID, posting.ID); err != nil {
		s.logger.Warn("failed to record posted job on employer profile",
			zap.String("account_id", actor.ID), zap.String("posting_id", posting.ID), zap.Error(err))
	}

	s.logger.Info("posting submitted",
		zap.String("posting_id", posting.ID), zap.String("employer_id", actor.ID))
	return &posting, nil
}

// Get returns a posting by id.
func (s *PostingService) Get(ctx context.Context, id string) (*models.Posting, error) {
	posting, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.ErrPostingNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInfrastructure.Code, appErrors.ErrInfrastructure.Status, "failed to load posting")
	}
	return posting, nil
}

// Update edits a posting. Only the owning employer (or an admin) may edit,
// and any edit sends the posting back through approval.
func (s *PostingService) Update(ctx context.Context, actor *models.Account, id string, req UpdatePostingRequest) (*models.Posting, error) {
	if !actor.HasPermission(models.PermUpdateJob) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "insufficient permissions to update postings")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid posting payload")
	}

	posting, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin && posting.EmployerID != actor.ID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "posting belongs to another employer")
	}

	posting.JobTitle = req.JobTitle
	posting.JobDescription = req.JobDescription
	posting.Skills = req.Skills
	posting.StartingSalary = req.StartingSalary
	posting.Location = req.Location
	posting.Status = models.PostingPendingApproval
	posting.ApprovedBy = ""
	posting.ApprovalDate = nil
	posting.RejectionReason = ""

	if err := s.repo.Update(ctx, *posting); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.ErrPostingNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInfrastructure.Code, appErrors.ErrInfrastructure.Status, "failed to update posting")
	}
	return posting, nil
}

// Delete removes a posting. Only the owning employer or an admin may delete.
func (s *PostingService) Delete(ctx context.Context, actor *models.Account, id string) error {
	if !actor.HasPermission(models.PermDeleteJob) {
		return appErrors.Clone(appErrors.ErrForbidden, "insufficient permissions to delete postings")
	}

	posting, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// deleting an absent posting is a no-op
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrInfrastructure.Code, appErrors.ErrInfrastructure.Status, "failed to load posting")
	}
	if actor.Role != models.RoleAdmin && posting.EmployerID != actor.ID {
		return appErrors.Clone(appErrors.ErrForbidden, "posting belongs to another employer")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInfrastructure.Code, appErrors.ErrInfrastructure.Status, "failed to delete posting")
	}
	s.logger.Info("posting deleted", zap.String("posting_id", id), zap.String("actor_id", actor.ID))
	return nil
}

// Approve moves a PENDING_APPROVAL posting to APPROVED.
func (s *PostingService) Approve(ctx context.Context, actor *models.Account, id string) (*models.Posting, error) {
	if actor.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only admins may review postings")
	}

	posting, err := s.repo.Approve(ctx, id, actor.ID, time.Now().UTC())
	if err != nil {
		return nil, reviewError(err)
	}

	s.logger.Info("posting approved",
		zap.String("posting_id", id), zap.String("admin_id", actor.ID))
	return posting, nil
}

// RejectPosting moves a PENDING_APPROVAL posting to REJECTED with a reason.
func (s *PostingService) RejectPosting(ctx context.Context, actor *models.Account, id string, req RejectPostingRequest) (*models.Posting, error) {
	if actor.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only admins may review postings")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "rejection reason is required")
	}

	posting, err := s.repo.Reject(ctx, id, req.Reason)
	if err != nil {
		return nil, reviewError(err)
	}

	s.logger.Info("posting rejected",
		zap.String("posting_id", id), zap.String("admin_id", actor.ID))
	return posting, nil
}

func reviewError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return appErrors.ErrPostingNotFound
	case errors.Is(err, repository.ErrNotPendingReview):
		return appErrors.Clone(appErrors.ErrConflict, "posting has already been reviewed")
	default:
		return appErrors.Wrap(err, appErrors.ErrInfrastructure.Code, appErrors.ErrInfrastructure.Status, "failed to update posting")
	}
}

// BrowsePublic lists approved postings, optionally narrowed by a keyword and
// field criteria. Callers cannot widen the status beyond APPROVED.
func (s *PostingService) BrowsePublic(ctx context.Context, keyword string, criteria map[string]string) ([]models.Posting, error) {
	merged := map[string]string{"status": string(models.PostingApproved)}
	for k, v := range criteria {
		if k == "status" {
			continue
		}
		merged[k] = v
	}

	postings, err := s.repo.Query(ctx, keyword, merged)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInfrastructure.Code, appErrors.ErrInfrastructure.Status, "failed to query postings")
	}
	return postings, nil
}

// ListAll returns every posting regardless of status. Admin only.
func (s *PostingService) ListAll(ctx context.Context, actor *models.Account) ([]models.Posting, error) {
	if actor.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only admins may list all postings")
	}
	postings, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInfrastructure.Code, appErrors.ErrInfrastructure.Status, "failed to list postings")
	}
	return postings, nil
}

// ListPendingReview returns postings awaiting an admin decision.
func (s *PostingService) ListPendingReview(ctx context.Context, actor *models.Account) ([]models.Posting, error) {
	if actor.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only admins may review postings")
	}
	return s.listByStatus(ctx, models.PostingPendingApproval)
}

// ListMine returns the actor's own postings regardless of status.
func (s *PostingService) ListMine(ctx context.Context, actor *models.Account) ([]models.Posting, error) {
	if actor.Employer == nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "employer account required")
	}
	postings, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInfrastructure.Code, appErrors.ErrInfrastructure.Status, "failed to list postings")
	}
	mine := postings[:0]
	for _, p := range postings {
		if p.EmployerID == actor.ID {
			mine = append(mine, p)
		}
	}
	return mine, nil
}

func (s *PostingService) listByStatus(ctx context.Context, status models.PostingStatus) ([]models.Posting, error) {
	postings, err := s.repo.Query(ctx, "", map[string]string{"status": string(status)})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInfrastructure.Code, appErrors.ErrInfrastructure.Status, "failed to list postings")
	}
	return postings, nil
}
