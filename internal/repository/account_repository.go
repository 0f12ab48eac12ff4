package repository

import (
	"context"
	"sync"
	"time"

	"github.com/gvfbla/jobboard-api/internal/models"
	"github.com/gvfbla/jobboard-api/pkg/storage"
)

// AccountRepository is the file-backed account registry.
type AccountRepository struct {
	mu       sync.RWMutex
	store    collectionStore
	accounts []models.Account
}

// NewAccountRepository loads the accounts collection from the store.
func NewAccountRepository(store collectionStore) (*AccountRepository, error) {
	var stored []models.StoredAccount
	if err := store.Load(storage.CollectionAccounts, &stored); err != nil {
		return nil, err
	}
	accounts := make([]models.Account, 0, len(stored))
	for _, s := range stored {
		accounts = append(accounts, fromStored(s))
	}
	return &AccountRepository{store: store, accounts: accounts}, nil
}

// Create appends a new account. Username uniqueness is enforced here, under
// the collection lock, so a racing duplicate registration cannot slip through
// the service-level check.
func (r *AccountRepository) Create(ctx context.Context, acct models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.accounts {
		if r.accounts[i].Username == acct.Username {
			return ErrUsernameTaken
		}
	}

	next := append(r.snapshotLocked(), acct)
	if err := r.persist(next); err != nil {
		return err
	}
	r.accounts = next
	return nil
}

// FindByUsername returns a copy of the account, or ErrNotFound.
func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.accounts {
		if r.accounts[i].Username == username {
			acct := r.accounts[i].Clone()
			return &acct, nil
		}
	}
	return nil, ErrNotFound
}

// FindByID returns a copy of the account, or ErrNotFound.
func (r *AccountRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.accounts {
		if r.accounts[i].ID == id {
			acct := r.accounts[i].Clone()
			return &acct, nil
		}
	}
	return nil, ErrNotFound
}

// List returns a snapshot of all accounts in insertion order. An empty role
// matches every account.
func (r *AccountRepository) List(ctx context.Context, role models.Role) ([]models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Account, 0, len(r.accounts))
	for i := range r.accounts {
		if role == "" || r.accounts[i].Role == role {
			out = append(out, r.accounts[i].Clone())
		}
	}
	return out, nil
}

// Update replaces the account identified by acct.ID.
func (r *AccountRepository) Update(ctx context.Context, acct models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.snapshotLocked()
	for i := range next {
		if next[i].ID == acct.ID {
			next[i] = acct
			if err := r.persist(next); err != nil {
				return err
			}
			r.accounts = next
			return nil
		}
	}
	return ErrNotFound
}

// SetActive toggles the active flag for the named account.
func (r *AccountRepository) SetActive(ctx context.Context, username string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.snapshotLocked()
	for i := range next {
		if next[i].Username == username {
			next[i].Active = active
			if err := r.persist(next); err != nil {
				return err
			}
			r.accounts = next
			return nil
		}
	}
	return ErrNotFound
}

// RecordLogin updates the last-login timestamp for the account.
func (r *AccountRepository) RecordLogin(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.snapshotLocked()
	for i := range next {
		if next[i].ID == id {
			next[i].LastLogin = &at
			if err := r.persist(next); err != nil {
				return err
			}
			r.accounts = next
			return nil
		}
	}
	return ErrNotFound
}

// AppendAppliedJob records a posting id on the student's profile.
func (r *AccountRepository) AppendAppliedJob(ctx context.Context, accountID, postingID string) error {
	return r.appendJobLocked(accountID, func(a *models.Account) {
		if a.Student != nil {
			a.Student.AppliedJobs = append(a.Student.AppliedJobs, postingID)
		}
	})
}

// AppendPostedJob records a posting id on the employer's profile.
func (r *AccountRepository) AppendPostedJob(ctx context.Context, accountID, postingID string) error {
	return r.appendJobLocked(accountID, func(a *models.Account) {
		if a.Employer != nil {
			a.Employer.PostedJobs = append(a.Employer.PostedJobs, postingID)
		}
	})
}

func (r *AccountRepository) appendJobLocked(accountID string, mutate func(*models.Account)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.snapshotLocked()
	for i := range next {
		if next[i].ID == accountID {
			mutate(&next[i])
			if err := r.persist(next); err != nil {
				return err
			}
			r.accounts = next
			return nil
		}
	}
	return ErrNotFound
}

// snapshotLocked deep-copies the collection so mutations can be persisted
// before they are committed to memory. Profile pointers are cloned too; a
// mutation on the snapshot must never reach the live collection or a copy a
// finder handed out earlier. Callers must hold the write lock.
func (r *AccountRepository) snapshotLocked() []models.Account {
	next := make([]models.Account, len(r.accounts))
	for i := range r.accounts {
		next[i] = r.accounts[i].Clone()
	}
	return next
}

func (r *AccountRepository) persist(accounts []models.Account) error {
	stored := make([]models.StoredAccount, 0, len(accounts))
	for _, a := range accounts {
		stored = append(stored, toStored(a))
	}
	return r.store.Save(storage.CollectionAccounts, stored)
}

func toStored(a models.Account) models.StoredAccount {
	return models.StoredAccount{Account: a, PasswordHash: a.PasswordHash, Salt: a.Salt}
}

func fromStored(s models.StoredAccount) models.Account {
	a := s.Account
	a.PasswordHash = s.PasswordHash
	a.Salt = s.Salt
	return a
}
