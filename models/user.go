package models

import (
	"time"

	"gorm.io/gorm"
)

// RoleSlug is the closed set of authorization roles
type RoleSlug string

const (
	RoleNone        RoleSlug = ""
	RoleSiteAdmin   RoleSlug = "site-admin"
	RoleOfficeAdmin RoleSlug = "office-admin"
	RoleAgent       RoleSlug = "agent"
)

// ParseRoleSlug maps a stored slug onto the enum; unknown slugs are rejected.
func ParseRoleSlug(s string) (RoleSlug, bool) {
	switch r := RoleSlug(s); r {
	case RoleSiteAdmin, RoleOfficeAdmin, RoleAgent:
		return r, true
	}
	return RoleNone, false
}

// User is the local mirror of an identity-provider account.
// Rows are created on first successful authentication.
type User struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	ExternalID string    `json:"externalId" gorm:"not null;uniqueIndex"`
	Email      string    `json:"email" gorm:"index"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	assignID(&u.ID)
	return nil
}

// Role is the stored row behind a RoleSlug
type Role struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Name      string    `json:"name" gorm:"not null"`
	Slug      RoleSlug  `json:"slug" gorm:"type:varchar(32);not null;uniqueIndex"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *Role) BeforeCreate(tx *gorm.DB) error {
	assignID(&r.ID)
	return nil
}
