package domain

import (
	"time"
)

type Role string

const (
	RoleHostess        Role = "hostess"
	RoleManager        Role = "manager"
	RoleGeneralManager Role = "general_manager"
	RoleSystemAdmin    Role = "system_admin"
	RoleBartender      Role = "bartender"
	RoleWaiter         Role = "waiter"
	RoleSkuller        Role = "skuller"
)

// AdjudicatorRoles may edit staffing requirements and rosters and resolve exchange requests.
var AdjudicatorRoles = []Role{RoleManager, RoleGeneralManager, RoleSystemAdmin}

// KnownRoles lists every role a user can hold.
var KnownRoles = []Role{
	RoleHostess,
	RoleManager,
	RoleGeneralManager,
	RoleSystemAdmin,
	RoleBartender,
	RoleWaiter,
	RoleSkuller,
}

func IsKnownRole(role Role) bool {
	for _, r := range KnownRoles {
		if r == role {
			return true
		}
	}
	return false
}

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Roles        []Role    `json:"roles"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}

func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (u *User) IsAdjudicator() bool {
	for _, r := range AdjudicatorRoles {
		if u.HasRole(r) {
			return true
		}
	}
	return false
}
