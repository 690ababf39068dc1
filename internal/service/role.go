package service

import "github.com/dtroode/authkeeper/internal/model"

// DecideRole returns the role for a new account given how many accounts
// already exist. Only the very first account is elevated.
func DecideRole(existingAccounts int64) model.Role {
	if existingAccounts == 0 {
		return model.RoleAdmin
	}
	return model.RoleUser
}
