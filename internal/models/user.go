package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleViewer     Role = "viewer"
	RoleUser       Role = "user"
	RoleEditor     Role = "editor"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// HasBlanketAccess reports whether the role bypasses per-content access
// checks. This is a caller-side capability, not part of the access
// evaluator itself.
func (r Role) HasBlanketAccess() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// CanEditContent reports whether the role may manage the content catalog.
func (r Role) CanEditContent() bool {
	return r == RoleEditor || r == RoleAdmin || r == RoleSuperAdmin
}

type User struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email         string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password      string         `gorm:"not null" json:"-"`
	Role          Role           `gorm:"size:20;default:'user'" json:"role"`
	EmailVerified bool           `gorm:"default:false" json:"email_verified"`
	AppleUserID   *string        `gorm:"size:255;index" json:"-"`
	AuthProvider  string         `gorm:"size:50;default:'email'" json:"-"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
