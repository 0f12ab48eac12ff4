package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gvfbla/jobboard-api/internal/credentials"
	"github.com/gvfbla/jobboard-api/internal/models"
	"github.com/gvfbla/jobboard-api/internal/repository"
	"github.com/gvfbla/jobboard-api/pkg/config"
	appErrors "github.com/gvfbla/jobboard-api/pkg/errors"
)

type mockAuthRepo struct {
	account          *models.Account
	findErr          error
	lastLoginUpdated bool
	recordLoginErr   error
}

func (m *mockAuthRepo) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if m.account == nil || m.account.Username != username {
		return nil, repository.ErrNotFound
	}
	copy := *m.account
	return &copy, nil
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.Account, error) {
	if m.account == nil || m.account.ID != id {
		return nil, repository.ErrNotFound
	}
	copy := *m.account
	return &copy, nil
}

func (m *mockAuthRepo) RecordLogin(ctx context.Context, id string, at time.Time) error {
	m.lastLoginUpdated = true
	return m.recordLoginErr
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Expiration: time.Hour, Issuer: "jobboard-test"}
}

func activeAccount(t *testing.T, username, password string) *models.Account {
	t.Helper()
	salt, err := credentials.NewSalt()
	require.NoError(t, err)
	return &models.Account{
		ID:           "acct-1",
		Username:     username,
		PasswordHash: credentials.Hash(password, salt),
		Salt:         salt,
		Email:        username + "@example.com",
		Role:         models.RoleStudent,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	repo := &mockAuthRepo{account: activeAccount(t, "jdoe", "correct-horse")}
	svc := NewAuthService(repo, testJWTConfig(), nil, nil)

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "jdoe", Password: "correct-horse"})
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)
	assert.Equal(t, int64(3600), res.ExpiresIn)
	assert.Equal(t, "jdoe", res.Account.Username)
	assert.True(t, repo.lastLoginUpdated)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "acct-1", claims.AccountID)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	acct := activeAccount(t, "jdoe", "correct-horse")
	inactive := *acct
	inactive.Active = false

	cases := []struct {
		name    string
		repo    *mockAuthRepo
		request models.LoginRequest
	}{
		{"unknown username", &mockAuthRepo{account: acct}, models.LoginRequest{Username: "nobody", Password: "correct-horse"}},
		{"wrong password", &mockAuthRepo{account: acct}, models.LoginRequest{Username: "jdoe", Password: "wrong"}},
		{"inactive account", &mockAuthRepo{account: &inactive}, models.LoginRequest{Username: "jdoe", Password: "correct-horse"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewAuthService(tc.repo, testJWTConfig(), nil, nil)
			_, err := svc.Login(context.Background(), tc.request)
			require.Error(t, err)
			assert.True(t, appErrors.HasCode(err, appErrors.ErrAuthFailed.Code))
		})
	}
}

func TestLoginRecordLoginFailureDoesNotBlock(t *testing.T) {
	repo := &mockAuthRepo{
		account:        activeAccount(t, "jdoe", "correct-horse"),
		recordLoginErr: assert.AnError,
	}
	svc := NewAuthService(repo, testJWTConfig(), nil, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "jdoe", Password: "correct-horse"})
	assert.NoError(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	cfg.Expiration = -time.Minute
	repo := &mockAuthRepo{account: activeAccount(t, "jdoe", "correct-horse")}
	svc := NewAuthService(repo, cfg, nil, nil)

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "jdoe", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(res.AccessToken)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrUnauthorized.Code))
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	repo := &mockAuthRepo{account: activeAccount(t, "jdoe", "correct-horse")}
	svc := NewAuthService(repo, testJWTConfig(), nil, nil)

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "jdoe", Password: "correct-horse"})
	require.NoError(t, err)

	otherCfg := testJWTConfig()
	otherCfg.Secret = "other-secret"
	other := NewAuthService(repo, otherCfg, nil, nil)

	_, err = other.ValidateToken(res.AccessToken)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrUnauthorized.Code))
}

func TestResolveAccountRejectsDeactivated(t *testing.T) {
	acct := activeAccount(t, "jdoe", "correct-horse")
	repo := &mockAuthRepo{account: acct}
	svc := NewAuthService(repo, testJWTConfig(), nil, nil)

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "jdoe", Password: "correct-horse"})
	require.NoError(t, err)
	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)

	acct.Active = false
	_, err = svc.ResolveAccount(context.Background(), claims)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrUnauthorized.Code))
}
