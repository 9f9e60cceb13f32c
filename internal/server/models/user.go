package models

import "time"

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"displayName"`
	RoleID       string    `json:"roleId"`
	RoleName     string    `json:"roleName"`
	CreatedAt    time.Time `json:"createdAt"`
	Hidden       bool      `json:"-"`
	PasswordHash string    `json:"-"`
}

type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PermissionGroup lists the actions a user holds within one domain.
type PermissionGroup struct {
	Domain  string   `json:"domain"`
	Actions []string `json:"actions"`
}
