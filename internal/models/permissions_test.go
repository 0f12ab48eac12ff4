package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleAllows(t *testing.T) {
	tests := []struct {
		role   Role
		action Permission
		want   bool
	}{
		{RoleAdmin, PermPostJob, true},
		{RoleAdmin, PermManageAccounts, true},
		{RoleAdmin, PermCreateAdmin, true},
		{RoleEmployer, PermPostJob, true},
		{RoleEmployer, PermViewApplications, true},
		{RoleEmployer, PermUpdateJob, true},
		{RoleEmployer, PermDeleteJob, true},
		{RoleEmployer, PermApplyJob, false},
		{RoleEmployer, PermManageAccounts, false},
		{RoleStudent, PermApplyJob, true},
		{RoleStudent, PermViewJobs, true},
		{RoleStudent, PermUpdateProfile, true},
		{RoleStudent, PermPostJob, false},
		{RoleStudent, PermViewApplications, false},
		{Role("UNKNOWN"), PermViewJobs, false},
	}

	for _, tc := range tests {
		assert.Equalf(t, tc.want, RoleAllows(tc.role, tc.action), "%s/%s", tc.role, tc.action)
	}
}

func TestAccountHasPermission(t *testing.T) {
	active := &Account{Role: RoleEmployer, Active: true}
	assert.True(t, active.HasPermission(PermPostJob))

	inactive := &Account{Role: RoleAdmin, Active: false}
	assert.False(t, inactive.HasPermission(PermManageAccounts))

	var nilAccount *Account
	assert.False(t, nilAccount.HasPermission(PermViewJobs))
}
