package models

import "time"

// ApplicationStatus is the review state of an application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "PENDING"
	ApplicationAccepted ApplicationStatus = "ACCEPTED"
	ApplicationRejected ApplicationStatus = "REJECTED"
)

// Application is a student's submission against a specific posting. The
// applicant fields are a point-in-time snapshot and may differ from the
// account's own profile. Once the status leaves PENDING it never returns.
type Application struct {
	ID              string            `json:"id"`
	AccountID       string            `json:"account_id"`
	PostingID       string            `json:"posting_id"`
	FirstName       string            `json:"first_name"`
	LastName        string            `json:"last_name"`
	Phone           string            `json:"phone"`
	Email           string            `json:"email"`
	Education       string            `json:"education"`
	Experience      string            `json:"experience"`
	References      string            `json:"references"`
	Status          ApplicationStatus `json:"status"`
	RejectionReason string            `json:"rejection_reason,omitempty"`
	SubmittedAt     time.Time         `json:"submitted_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}
