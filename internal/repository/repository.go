// Package repository implements the file-backed registries for accounts,
// postings, and applications. Each registry owns its in-memory collection and
// a single lock guarding the whole read-modify-write-save span; check-and-set
// transitions happen inside that span so concurrent writers cannot both
// succeed. In-memory state is only committed after the collection has been
// saved, keeping memory and disk consistent across storage failures.
package repository

import (
	"errors"

	"github.com/gvfbla/jobboard-api/pkg/storage"
)

// Sentinel errors mapped to the typed taxonomy by the service layer.
var (
	ErrNotFound         = errors.New("record not found")
	ErrUsernameTaken    = errors.New("username already exists")
	ErrAlreadyProcessed = errors.New("application already processed")
	ErrNotPendingReview = errors.New("posting is not pending review")
)

// collectionStore is the persistence boundary the registries depend on:
// whole-collection load and save only.
type collectionStore interface {
	Load(name storage.Collection, out interface{}) error
	Save(name storage.Collection, records interface{}) error
}
