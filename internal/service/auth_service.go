package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gvfbla/jobboard-api/internal/credentials"
	"github.com/gvfbla/jobboard-api/internal/models"
	"github.com/gvfbla/jobboard-api/pkg/config"
	appErrors "github.com/gvfbla/jobboard-api/pkg/errors"
)

type authAccountRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	FindByID(ctx context.Context, id string) (*models.Account, error)
	RecordLogin(ctx context.Context, id string, at time.Time) error
}

// AuthService issues and validates signed access tokens.
type AuthService struct {
	repo       authAccountRepository
	secret     []byte
	expiration time.Duration
	issuer     string
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewAuthService creates an instance of AuthService.
func NewAuthService(repo authAccountRepository, cfg config.JWTConfig, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{
		repo:       repo,
		secret:     []byte(cfg.Secret),
		expiration: cfg.Expiration,
		issuer:     cfg.Issuer,
		validator:  validate,
		logger:     logger,
	}
}

// Login verifies credentials and returns a signed token. Unknown usernames,
// wrong passwords, and deactivated accounts all produce the same AUTH_FAILED
// error so responses do not leak which accounts exist.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "username and password are required")
	}

	acct, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, appErrors.ErrAuthFailed
	}
	if !acct.Active || !credentials.Verify(req.Password, acct.Salt, acct.PasswordHash) {
		return nil, appErrors.ErrAuthFailed
	}

	now := time.Now().UTC()
	token, err := s.issueToken(acct, now)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}

	if err := s.repo.RecordLogin(ctx, acct.ID, now); err != nil {
		s.logger.Warn("failed to record login timestamp",
			zap.String("account_id", acct.ID), zap.Error(err))
	}

	s.logger.Info("login succeeded",
		zap.String("username", acct.Username), zap.String("role", string(acct.Role)))

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.expiration.Seconds()),
		IssuedAt:    now,
		Account:     acct.Info(),
	}, nil
}

func (s *AuthService) issueToken(acct *models.Account, now time.Time) (string, error) {
	claims := models.JWTClaims{
		AccountID: acct.ID,
		Username:  acct.Username,
		Role:      acct.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   acct.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ValidateToken parses a token string and returns its claims. Expired,
// malformed, and badly signed tokens all return UNAUTHORIZED.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	return claims, nil
}

// ResolveAccount loads the live account for a set of claims. Tokens survive
// deactivation, so the active flag is re-checked here on every request.
func (s *AuthService) ResolveAccount(ctx context.Context, claims *models.JWTClaims) (*models.Account, error) {
	acct, err := s.repo.FindByID(ctx, claims.AccountID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "account no longer exists")
	}
	if !acct.Active {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "account is deactivated")
	}
	return acct, nil
}
