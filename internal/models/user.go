package models

import (
	"strings"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleGuide     Role = "guide"
	RoleLeadGuide Role = "lead-guide"
)

// Roles lists every role a user may hold.
var Roles = []Role{RoleUser, RoleAdmin, RoleGuide, RoleLeadGuide}

func (r Role) Valid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

type User struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"not null"`
	Email string `json:"email" gorm:"uniqueIndex;not null"`
	Photo string `json:"photo" gorm:"not null;default:default.jpg"`
	Role  Role   `json:"role" gorm:"type:varchar(20);not null;default:user"`

	Password          string     `json:"-" gorm:"not null"`
	PasswordChangedAt *time.Time `json:"-"`
	Active            bool       `json:"-" gorm:"not null;default:true;index"`

	// Temporary password issued by forgot-password, stored as sha256.
	PasswordResetToken  string     `json:"-" gorm:"index"`
	PasswordResetExpire *time.Time `json:"-"`

	EmailVerified    bool       `json:"email_verified" gorm:"not null;default:false"`
	CheckEmailToken  string     `json:"-" gorm:"index"`
	CheckEmailExpire *time.Time `json:"-"`

	// Login throttle: attempts counted within the hour bucket starting at DateLoginAttempt.
	LoginAttempts    int        `json:"-" gorm:"not null;default:0"`
	DateLoginAttempt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NormalizeEmail trims and lower-cases an address the way it is stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HasRole reports whether the user's role is one of roles.
func (u *User) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
