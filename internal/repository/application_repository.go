package repository

import (
	"context"
	"sync"
	"time"

	"github.com/gvfbla/jobboard-api/internal/models"
	"github.com/gvfbla/jobboard-api/pkg/storage"
)

// ApplicationRepository is the file-backed application registry. Accept and
// reject are check-and-set transitions: the PENDING precondition is verified
// under the collection lock, so of two racing reviewers exactly one succeeds
// and the other observes ErrAlreadyProcessed.
type ApplicationRepository struct {
	mu           sync.RWMutex
	store        collectionStore
	applications []models.Application
}

// NewApplicationRepository loads the applications collection from the store.
func NewApplicationRepository(store collectionStore) (*ApplicationRepository, error) {
	var applications []models.Application
	if err := store.Load(storage.CollectionApplications, &applications); err != nil {
		return nil, err
	}
	return &ApplicationRepository{store: store, applications: applications}, nil
}

// Create appends a new application.
func (r *ApplicationRepository) Create(ctx context.Context, app models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := append(r.snapshotLocked(), app)
	if err := r.store.Save(storage.CollectionApplications, next); err != nil {
		return err
	}
	r.applications = next
	return nil
}

// GetByID returns a copy of the application, or ErrNotFound.
func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*models.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.applications {
		if r.applications[i].ID == id {
			app := r.applications[i]
			return &app, nil
		}
	}
	return nil, ErrNotFound
}

// List returns a snapshot of all applications in insertion order.
func (r *ApplicationRepository) List(ctx context.Context) ([]models.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked(), nil
}

// ListForPosting returns applications submitted against the posting.
func (r *ApplicationRepository) ListForPosting(ctx context.Context, postingID string) ([]models.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Application, 0)
	for i := range r.applications {
		if r.applications[i].PostingID == postingID {
			out = append(out, r.applications[i])
		}
	}
	return out, nil
}

// ListByAccount returns applications submitted by the account.
func (r *ApplicationRepository) ListByAccount(ctx context.Context, accountID string) ([]models.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Application, 0)
	for i := range r.applications {
		if r.applications[i].AccountID == accountID {
			out = append(out, r.applications[i])
		}
	}
	return out, nil
}

// Accept transitions the application from PENDING to ACCEPTED.
func (r *ApplicationRepository) Accept(ctx context.Context, id string, at time.Time) error {
	return r.transition(id, func(app *models.Application) {
		app.Status = models.ApplicationAccepted
		app.UpdatedAt = at
	})
}

// Reject transitions the application from PENDING to REJECTED, storing the
// reason.
func (r *ApplicationRepository) Reject(ctx context.Context, id, reason string, at time.Time) error {
	return r.transition(id, func(app *models.Application) {
		app.Status = models.ApplicationRejected
		app.RejectionReason = reason
		app.UpdatedAt = at
	})
}

func (r *ApplicationRepository) transition(id string, mutate func(*models.Application)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.snapshotLocked()
	for i := range next {
		if next[i].ID != id {
			continue
		}
		if next[i].Status != models.ApplicationPending {
			return ErrAlreadyProcessed
		}
		mutate(&next[i])
		if err := r.store.Save(storage.CollectionApplications, next); err != nil {
			return err
		}
		r.applications = next
		return nil
	}
	return ErrNotFound
}

func (r *ApplicationRepository) snapshotLocked() []models.Application {
	next := make([]models.Application, len(r.applications))
	copy(next, r.applications)
	return next
}
