package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gvfbla/jobboard-api/internal/models"
	"github.com/gvfbla/jobboard-api/pkg/storage"
)

func newStore(t *testing.T) *storage.FileStore {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func studentAccount(id, username string) models.Account {
	return models.Account{
		ID:           id,
		Username:     username,
		PasswordHash: "digest",
		Salt:         "salt",
		Email:        username + "@example.com",
		Role:         models.RoleStudent,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
		Student:      &models.StudentProfile{FirstName: "Ada", LastName: "Lovelace"},
	}
}

func TestAccountRepositoryCreateAndFind(t *testing.T) {
	repo, err := NewAccountRepository(newStore(t))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, studentAccount("1", "ada")))

	byName, err := repo.FindByUsername(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, "1", byName.ID)

	byID, err := repo.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "ada", byID.Username)

	_, err = repo.FindByUsername(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccountRepositoryDuplicateUsername(t *testing.T) {
	repo, err := NewAccountRepository(newStore(t))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, studentAccount("1", "ada")))
	err = repo.Create(ctx, studentAccount("2", "ada"))
	assert.ErrorIs(t, err, ErrUsernameTaken)

	accounts, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestAccountRepositorySetActive(t *testing.T) {
	repo, err := NewAccountRepository(newStore(t))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, studentAccount("1", "ada")))
	require.NoError(t, repo.SetActive(ctx, "ada", false))

	acct, err := repo.FindByUsername(ctx, "ada")
	require.NoError(t, err)
	assert.False(t, acct.Active)

	assert.ErrorIs(t, repo.SetActive(ctx, "missing", true), ErrNotFound)
}

func TestAccountRepositoryRecordLogin(t *testing.T) {
	repo, err := NewAccountRepository(newStore(t))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, studentAccount("1", "ada")))
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.RecordLogin(ctx, "1", at))

	acct, err := repo.FindByID(ctx, "1")
	require.NoError(t, err)
	require.NotNil(t, acct.LastLogin)
	assert.Equal(t, at, *acct.LastLogin)
}

func TestAccountRepositoryReloadPreservesCredentials(t *testing.T) {
	store := newStore(t)
	repo, err := NewAccountRepository(store)
	require.NoError(t, err)
	ctx := context.Background()

	acct := studentAccount("1", "ada")
	require.NoError(t, repo.Create(ctx, acct))

	reloaded, err := NewAccountRepository(store)
	require.NoError(t, err)

	got, err := reloaded.FindByUsername(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, acct.PasswordHash, got.PasswordHash)
	assert.Equal(t, acct.Salt, got.Salt)
	assert.Equal(t, acct.Email, got.Email)
	require.NotNil(t, got.Student)
	assert.Equal(t, "Ada", got.Student.FirstName)
}

func TestAccountRepositoryListByRole(t *testing.T) {
	repo, err := NewAccountRepository(newStore(t))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, studentAccount("1", "ada")))
	employer := studentAccount("2", "acme")
	employer.Role = models.RoleEmployer
	employer.Student = nil
	employer.Employer = &models.EmployerProfile{CompanyName: "Acme"}
	require.NoError(t, repo.Create(ctx, employer))

	students, err := repo.List(ctx, models.RoleStudent)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "ada", students[0].Username)

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAccountRepositoryAppendJobs(t *testing.T) {
	repo, err := NewAccountRepository(newStore(t))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, studentAccount("1", "ada")))
	require.NoError(t, repo.AppendAppliedJob(ctx, "1", "posting-1"))

	acct, err := repo.FindByID(ctx, "1")
	require.NoError(t, err)
	require.NotNil(t, acct.Student)
	assert.Equal(t, []string{"posting-1"}, acct.Student.AppliedJobs)
}

func TestAccountRepositoryReturnedCopiesAreIsolated(t *testing.T) {
	repo, err := NewAccountRepository(newStore(t))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, studentAccount("1", "ada")))

	before, err := repo.FindByUsername(ctx, "ada")
	require.NoError(t, err)
	require.NotNil(t, before.Student)
	require.Empty(t, before.Student.AppliedJobs)

	// mutating the live collection must not reach the earlier copy
	require.NoError(t, repo.AppendAppliedJob(ctx, "1", "posting-1"))
	assert.Empty(t, before.Student.AppliedJobs)

	// mutating a returned copy must not reach the live collection
	after, err := repo.FindByUsername(ctx, "ada")
	require.NoError(t, err)
	after.Student.FirstName = "Scribbled"
	after.Student.AppliedJobs = append(after.Student.AppliedJobs, "posting-2")

	fresh, err := repo.FindByUsername(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, "Ada", fresh.Student.FirstName)
	assert.Equal(t, []string{"posting-1"}, fresh.Student.AppliedJobs)
}

func TestAccountRepositoryConcurrentReadsDuringAppend(t *testing.T) {
	repo, err := NewAccountRepository(newStore(t))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, studentAccount("1", "ada")))

	copies := make(chan *models.Account, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < cap(copies); i++ {
			acct, err := repo.FindByUsername(ctx, "ada")
			if err == nil {
				copies <- acct
			}
		}
	}()

	for i := 0; i < 8; i++ {
		require.NoError(t, repo.AppendAppliedJob(ctx, "1", "posting"))
	}
	<-done
	close(copies)

	// reading the profile of every copy races with nothing
	for acct := range copies {
		require.NotNil(t, acct.Student)
		_ = len(acct.Student.AppliedJobs)
	}
}

type failingStore struct {
	inner   *storage.FileStore
	saveErr error
}

func (f *failingStore) Load(name storage.Collection, out interface{}) error {
	return f.inner.Load(name, out)
}

func (f *failingStore) Save(name storage.Collection, records interface{}) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.inner.Save(name, records)
}

func TestAccountRepositoryAppendNotCommittedOnSaveFailure(t *testing.T) {
	store := &failingStore{inner: newStore(t)}
	repo, err := NewAccountRepository(store)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, studentAccount("1", "ada")))

	store.saveErr = assert.AnError
	require.Error(t, repo.AppendAppliedJob(ctx, "1", "posting-1"))

	acct, err := repo.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Empty(t, acct.Student.AppliedJobs)
}
