package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/gvfbla/jobboard-api/internal/models"
	"github.com/gvfbla/jobboard-api/pkg/storage"
)

// PostingRepository is the file-backed posting registry. Review transitions
// (approve/reject) are check-and-set operations performed under the
// collection lock.
type PostingRepository struct {
	mu       sync.RWMutex
	store    collectionStore
	postings []models.Posting
}

// NewPostingRepository loads the postings collection from the store.
func NewPostingRepository(store collectionStore) (*PostingRepository, error) {
	var postings []models.Posting
	if err := store.Load(storage.CollectionPostings, &postings); err != nil {
		return nil, err
	}
	return &PostingRepository{store: store, postings: postings}, nil
}

// Create appends a new posting.
func (r *PostingRepository) Create(ctx context.Context, p models.Posting) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := append(r.snapshotLocked(), p)
	if err := r.store.Save(storage.CollectionPostings, next); err != nil {
		return err
	}
	r.postings = next
	return nil
}

// GetByID returns a copy of the posting, or ErrNotFound.
func (r *PostingRepository) GetByID(ctx context.Context, id string) (*models.Posting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.postings {
		if r.postings[i].ID == id {
			p := r.postings[i]
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

// Update replaces the posting identified by p.ID, or returns ErrNotFound.
func (r *PostingRepository) Update(ctx context.Context, p models.Posting) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.snapshotLocked()
	for i := range next {
		if next[i].ID == p.ID {
			next[i] = p
			if err := r.store.Save(storage.CollectionPostings, next); err != nil {
				return err
			}
			r.postings = next
			return nil
		}
	}
	return ErrNotFound
}

// Delete removes the posting by id. Deleting an absent posting is a no-op.
func (r *PostingRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]models.Posting, 0, len(r.postings))
	found := false
	for i := range r.postings {
		if r.postings[i].ID == id {
			found = true
			continue
		}
		next = append(next, r.postings[i])
	}
	if !found {
		return nil
	}
	if err := r.store.Save(storage.CollectionPostings, next); err != nil {
		return err
	}
	r.postings = next
	return nil
}

// List returns a snapshot of all postings in insertion order.
func (r *PostingRepository) List(ctx context.Context) ([]models.Posting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked(), nil
}

// Approve transitions the posting from PENDING_APPROVAL to APPROVED and
// records the approval metadata.
func (r *PostingRepository) Approve(ctx context.Context, id, approverID string, at time.Time) (*models.Posting, error) {
	return r.review(id, func(p *models.Posting) {
		p.Status = models.PostingApproved
		p.ApprovedBy = approverID
		p.ApprovalDate = &at
		p.RejectionReason = ""
	})
}

// Reject transitions the posting from PENDING_APPROVAL to REJECTED and
// stores the reason.
func (r *PostingRepository) Reject(ctx context.Context, id, reason string) (*models.Posting, error) {
	return r.review(id, func(p *models.Posting) {
		p.Status = models.PostingRejected
		p.RejectionReason = reason
	})
}

func (r *PostingRepository) review(id string, mutate func(*models.Posting)) (*models.Posting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.snapshotLocked()
	for i := range next {
		if next[i].ID != id {
			continue
		}
		if next[i].Status != models.PostingPendingApproval {
			return nil, ErrNotPendingReview
		}
		mutate(&next[i])
		if err := r.store.Save(storage.CollectionPostings, next); err != nil {
			return nil, err
		}
		r.postings = next
		p := next[i]
		return &p, nil
	}
	return nil, ErrNotFound
}

// Search returns postings whose company, title, description, skills, or
// location contain the keyword, case-insensitively. An empty keyword matches
// everything.
func (r *PostingRepository) Search(ctx context.Context, keyword string) ([]models.Posting, error) {
	return r.Query(ctx, keyword, nil)
}

// Filter returns postings satisfying every supplied criterion. Fields match
// by case-insensitive substring, except "status" which requires exact
// case-insensitive equality. Unknown filter keys are ignored.
func (r *PostingRepository) Filter(ctx context.Context, criteria map[string]string) ([]models.Posting, error) {
	return r.Query(ctx, "", criteria)
}

// Query combines keyword search and per-field criteria; a posting must match
// both (logical AND).
func (r *PostingRepository) Query(ctx context.Context, keyword string, criteria map[string]string) ([]models.Posting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keyword = strings.ToLower(strings.TrimSpace(keyword))
	out := make([]models.Posting, 0, len(r.postings))
	for i := range r.postings {
		if matchesKeyword(&r.postings[i], keyword) && matchesCriteria(&r.postings[i], criteria) {
			out = append(out, r.postings[i])
		}
	}
	return out, nil
}

func matchesKeyword(p *models.Posting, keyword string) bool {
	if keyword == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.CompanyName), keyword) ||
		strings.Contains(strings.ToLower(p.JobTitle), keyword) ||
		strings.Contains(strings.ToLower(p.JobDescription), keyword) ||
		strings.Contains(strings.ToLower(p.Skills), keyword) ||
		strings.Contains(strings.ToLower(p.Location), keyword)
}

func matchesCriteria(p *models.Posting, criteria map[string]string) bool {
	for key, value := range criteria {
		if !matchesCriterion(p, key, value) {
			return false
		}
	}
	return true
}

func matchesCriterion(p *models.Posting, key, value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return true
	}
	switch strings.ToLower(key) {
	case "company":
		return strings.Contains(strings.ToLower(p.CompanyName), value)
	case "title":
		return strings.Contains(strings.ToLower(p.JobTitle), value)
	case "location":
		return strings.Contains(strings.ToLower(p.Location), value)
	case "skills":
		return strings.Contains(strings.ToLower(p.Skills), value)
	case "status":
		return strings.EqualFold(string(p.Status), value)
	default:
		// Unknown filter keys do not exclude postings.
		return true
	}
}

func (r *PostingRepository) snapshotLocked() []models.Posting {
	next := make([]models.Posting, len(r.postings))
	copy(next, r.postings)
	return next
}
