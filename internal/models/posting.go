package models

import "time"

// PostingStatus is the review state of a job posting.
type PostingStatus string

const (
	// PostingPending is a legacy draft value still accepted when loading old
	// collections; the workflow never produces it.
	PostingPending         PostingStatus = "PENDING"
	PostingPendingApproval PostingStatus = "PENDING_APPROVAL"
	PostingApproved        PostingStatus = "APPROVED"
	PostingRejected        PostingStatus = "REJECTED"
)

// Posting is a job opening submitted by an employer, subject to admin review
// before it becomes publicly visible.
type Posting struct {
	ID              string        `json:"id"`
	EmployerID      string        `json:"employer_id"`
	CompanyName     string        `json:"company_name"`
	JobTitle        string        `json:"job_title"`
	JobDescription  string        `json:"job_description"`
	Skills          string        `json:"skills"`
	StartingSalary  float64       `json:"starting_salary"`
	Location        string        `json:"location"`
	Status          PostingStatus `json:"status"`
	ApprovedBy      string        `json:"approved_by,omitempty"`
	ApprovalDate    *time.Time    `json:"approval_date,omitempty"`
	RejectionReason string        `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}
