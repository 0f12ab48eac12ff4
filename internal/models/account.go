package models

import "time"

// Role fixes an account's permission set.
type Role string

const (
	RoleStudent  Role = "STUDENT"
	RoleEmployer Role = "EMPLOYER"
	RoleAdmin    Role = "ADMIN"
)

// Account represents a registered identity. Role-specific attributes live in
// the optional profile payloads; exactly one of them is set for students and
// employers, neither for admins.
type Account struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Salt         string     `json:"-"`
	Email        string     `json:"email"`
	Role         Role       `json:"role"`
	Active       bool       `json:"active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`

	Student  *StudentProfile  `json:"student,omitempty"`
	Employer *EmployerProfile `json:"employer,omitempty"`
}

// Clone returns a deep copy: profile structs, slices, and the last-login
// timestamp are duplicated so the copy shares no mutable state with the
// original.
func (a Account) Clone() Account {
	out := a
	if a.LastLogin != nil {
		ts := *a.LastLogin
		out.LastLogin = &ts
	}
	if a.Student != nil {
		profile := *a.Student
		profile.Skills = append([]string(nil), a.Student.Skills...)
		profile.AppliedJobs = append([]string(nil), a.Student.AppliedJobs...)
		out.Student = &profile
	}
	if a.Employer != nil {
		profile := *a.Employer
		profile.PostedJobs = append([]string(nil), a.Employer.PostedJobs...)
		out.Employer = &profile
	}
	return out
}

// StudentProfile carries student-specific attributes.
type StudentProfile struct {
	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	Education      string   `json:"education,omitempty"`
	GraduationYear string   `json:"graduation_year,omitempty"`
	Skills         []string `json:"skills,omitempty"`
	AppliedJobs    []string `json:"applied_jobs,omitempty"`
}

// EmployerProfile carries employer-specific attributes.
type EmployerProfile struct {
	CompanyName string   `json:"company_name"`
	Industry    string   `json:"industry,omitempty"`
	CompanySize string   `json:"company_size,omitempty"`
	Location    string   `json:"location,omitempty"`
	PostedJobs  []string `json:"posted_jobs,omitempty"`
}

// StoredAccount is the persisted shape of an Account. Credentials are excluded
// from API serialization on Account itself, so the repository wraps records in
// this type before handing them to the file store.
type StoredAccount struct {
	Account
	PasswordHash string `json:"password_hash"`
	Salt         string `json:"salt"`
}
