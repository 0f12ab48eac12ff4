package models

// Permission names a privileged action an account may attempt.
type Permission string

const (
	PermPostJob          Permission = "POST_JOB"
	PermViewApplications Permission = "VIEW_APPLICATIONS"
	PermUpdateJob        Permission = "UPDATE_JOB"
	PermDeleteJob        Permission = "DELETE_JOB"
	PermApplyJob         Permission = "APPLY_JOB"
	PermViewJobs         Permission = "VIEW_JOBS"
	PermUpdateProfile    Permission = "UPDATE_PROFILE"
	PermManageAccounts   Permission = "MANAGE_ACCOUNTS"
	PermCreateAdmin      Permission = "CREATE_ADMIN"
)

var employerPerms = map[Permission]struct{}{
	PermPostJob:          {},
	PermViewApplications: {},
	PermUpdateJob:        {},
	PermDeleteJob:        {},
}

var studentPerms = map[Permission]struct{}{
	PermApplyJob:      {},
	PermViewJobs:      {},
	PermUpdateProfile: {},
}

// RoleAllows is the single authority mapping (role, action) to a yes/no
// decision. Every privileged operation in the system consults this function;
// no other permission table exists.
func RoleAllows(role Role, action Permission) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleEmployer:
		_, ok := employerPerms[action]
		return ok
	case RoleStudent:
		_, ok := studentPerms[action]
		return ok
	default:
		return false
	}
}

// HasPermission reports whether the account may perform the action. Inactive
// accounts hold no permissions.
func (a *Account) HasPermission(action Permission) bool {
	if a == nil || !a.Active {
		return false
	}
	return RoleAllows(a.Role, action)
}
