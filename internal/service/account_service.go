package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gvfbla/jobboard-api/internal/credentials"
	"github.com/gvfbla/jobboard-api/internal/models"
	"github.com/gvfbla/jobboard-api/internal/repository"
	appErrors "github.com/gvfbla/jobboard-api/pkg/errors"
)

const minPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@(.+)$`)

type accountRepository interface {
	Create(ctx context.Context, acct models.Account) error
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	FindByID(ctx context.Context, id string) (*models.Account, error)
	List(ctx context.Context, role models.Role) ([]models.Account, error)
	Update(ctx context.Context, acct models.Account) error
	SetActive(ctx context.Context, username string, active bool) error
}

// RegisterStudentRequest is the payload for student registration.
type RegisterStudentRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	Email     string `json:"email" validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

// RegisterEmployerRequest is the payload for employer registration.
type RegisterEmployerRequest struct {
	Username    string `json:"username" validate:"required"`
	Password    string `json:"password" validate:"required"`
	Email       string `json:"email" validate:"required"`
	CompanyName string `json:"company_name" validate:"required"`
	Industry    string `json:"industry"`
	CompanySize string `json:"company_size"`
	Location    string `json:"location"`
}

// CreateAdminRequest is the payload for admin-created admin accounts.
type CreateAdminRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Email    string `json:"email" validate:"required"`
}

// UpdateStudentProfileRequest updates a student's own profile.
type UpdateStudentProfileRequest struct {
	FirstName      string   `json:"first_name" validate:"required"`
	LastName       string   `json:"last_name" validate:"required"`
	Education      string   `json:"education"`
	GraduationYear string   `json:"graduation_year"`
	Skills         []string `json:"skills"`
}

// SetActiveRequest toggles an account's active flag.
type SetActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// AccountService handles registration, account administration, and profile
// management.
type AccountService struct {
	repo      accountRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAccountService creates an instance of AccountService.
func NewAccountService(repo accountRepository, validate *validator.Validate, logger *zap.Logger) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AccountService{repo: repo, validator: validate, logger: logger}
}

// RegisterStudent creates a student account.
func (s *AccountService) RegisterStudent(ctx context.Context, req RegisterStudentRequest) (*models.Account, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}
	profile := &models.StudentProfile{FirstName: req.FirstName, LastName: req.LastName}
	return s.register(ctx, models.RoleStudent, req.Username, req.Password, req.Email, profile, nil)
}

// RegisterEmployer creates an employer account.
func (s *AccountService) RegisterEmployer(ctx context.Context, req RegisterEmployerRequest) (*models.Account, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}
	profile := &models.EmployerProfile{
		CompanyName: req.CompanyName,
		Industry:    req.Industry,
		CompanySize: req.CompanySize,
		Location:    req.Location,
	}
	return s.register(ctx, models.RoleEmployer, req.Username, req.Password, req.Email, nil, profile)
}

// CreateAdmin creates an additional admin account on behalf of an existing
// admin.
func (s *AccountService) CreateAdmin(ctx context.Context, actor *models.Account, req CreateAdminRequest) (*models.Account, error) {
	if !actor.HasPermission(models.PermCreateAdmin) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "insufficient permissions to create admin accounts")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid admin payload")
	}
	return s.register(ctx, models.RoleAdmin, req.Username, req.Password, req.Email, nil, nil)
}

// register applies the ordered validation rules (username uniqueness,
// password length, email shape); the first failing rule determines the error.
func (s *AccountService) register(ctx context.Context, role models.Role, username, password, email string,
	student *models.StudentProfile, employer *models.EmployerProfile) (*models.Account, error) {

	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, appErrors.ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, appErrors.Wrap(err, appErrors.ErrInfrastructure.Code, appErrors.ErrInfrastructure.Status, "failed to check username uniqueness")
	}

	if len(password) < minPasswordLength {
		return nil, appErrors.ErrWeakPassword
	}

	if !emailPattern.MatchString(email) {
		return nil, appErrors.ErrInvalidEmail
	}

	acct, err := s.newAccount(role, username, password, email)
	if err != nil {
		return nil, err
	}
	acct.Student = student
	acct.Employer = employer

	if err := s.repo.Create(ctx, *acct); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return nil, appErrors.ErrUsernameTaken
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInfrastructure.Code, appErrors.ErrInfrastructure.Status, "failed to persist account")
	}

	s.logger.Info("account registered", zap.String("username", username), zap.String("role", string(role)))
	return acct, nil
}

func (s *AccountService) newAccount(role models.Role, username, password, email string) (*models.Account, error) {
	salt, err := credentials.NewSalt()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInfrastructure.Code, appErrors.ErrInfrastructure.Status, "failed to generate salt")
	}
	return &models.Account{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: credentials.Hash(password, salt),
		Salt:         salt,
		Email:        email,
		Role:         role,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// EnsureBootstrapAdmin guarantees the well-known admin account exists. The
// deterministic initial password is expected to be rotated out-of-band.
func (s *AccountService) EnsureBootstrapAdmin(ctx context.Context, username, password, email string) error {
	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return appErrors.Wrap(err, appErrors.ErrInfrastructure.Code, appErrors.ErrInfrastructure.Status, "failed to look up bootstrap admin")
	}

	acct, err := s.newAccount(models.RoleAdmin, username, password, email)
	if err != nil {
		return err
	}
	if err := s.repo.Create(ctx, *acct); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			// another instance won the race; the admin exists
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrInfrastructure.Code, appErrors.ErrInfrastructure.Status, "failed to create bootstrap admin")
	}

	s.logger.Info("bootstrap admin created", zap.String("username", username))
	return nil
}

// SetActive toggles the active flag on the named account. Requires the
// MANAGE_ACCOUNTS permission.
func (s *AccountService) SetActive(ctx context.Context, actor *models.Account, username string, active bool) error {
	if !actor.HasPermission(models.PermManageAccounts) {
		return appErrors.Clone(appErrors.ErrForbidden, "insufficient permissions to manage accounts")
	}
	if err := s.repo.SetActive(ctx, username, active); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "account not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInfrastructure.Code, appErrors.ErrInfrastructure.Status, "failed to update account")
	}
	return nil
}

// Get returns an account by id.
func (s *AccountService) Get(ctx context.Context, id string) (*models.Account, error) {
	acct, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "account not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInfrastructure.Code, appErrors.ErrInfrastructure.Status, "failed to load account")
	}
	return acct, nil
}

// List returns accounts, optionally restricted to a role. Admin only.
func (s *AccountService) List(ctx context.Context, actor *models.Account, role models.Role) ([]models.Account, error) {
	if !actor.HasPermission(models.PermManageAccounts) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "insufficient permissions to list accounts")
	}
	accounts, err := s.repo.List(ctx, role)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInfrastructure.Code, appErrors.ErrInfrastructure.Status, "failed to list accounts")
	}
	return accounts, nil
}

// UpdateStudentProfile replaces the actor's own student profile fields.
func (s *AccountService) UpdateStudentProfile(ctx context.Context, actor *models.Account, req UpdateStudentProfileRequest) (*models.Account, error) {
	if !actor.HasPermission(models.PermUpdateProfile) || actor.Student == nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "student account required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}

	updated := *actor
	profile := *actor.Student
	profile.FirstName = req.FirstName
	profile.LastName = req.LastName
	profile.Education = req.Education
	profile.GraduationYear = req.GraduationYear
	profile.Skills = req.Skills
	updated.Student = &profile

	if err := s.repo.Update(ctx, updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "account not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInfrastructure.Code, appErrors.ErrInfrastructure.Status, "failed to update profile")
	}
	return &updated, nil
}
