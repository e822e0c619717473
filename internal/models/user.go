// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

package models

import "time"

// Role is the access level of a user.
type Role string

// Roles, least to most privileged. Moderators screen new markers, police
// close approved ones, admins can do both plus user management.
const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RolePolice    Role = "police"
	RoleAdmin     Role = "admin"
)

// ValidRoles lists every assignable role.
var ValidRoles = []Role{RoleUser, RoleModerator, RolePolice, RoleAdmin}

// IsValidRole reports whether r is a known role.
func IsValidRole(r Role) bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// IsPrivileged reports whether r may see unmoderated markers and read
// moderation history.
func (r Role) IsPrivileged() bool {
	return r == RoleModerator || r == RolePolice || r == RoleAdmin
}

// Actor identifies the authenticated caller of an operation.
type Actor struct {
	ID   string
	Role Role
}

// User is an account identified by phone number.
type User struct {
	ID        string    `json:"id"`
	Phone     string    `json:"phone"`
	Name      string    `json:"name,omitempty"`
	Role      Role      `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserStats summarizes one user's markers by status.
type UserStats struct {
	UserID   string                 `json:"user_id"`
	Total    int64                  `json:"total"`
	ByStatus map[MarkerStatus]int64 `json:"by_status"`
}
