package models

import "time"

// Role values assignable to a user.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents a registered account. The ID is derived from the email
// local part at registration time and never changes afterwards.
type User struct {
	ID            string     `gorm:"primaryKey" json:"user_id"`
	Name          string     `gorm:"not null" json:"name"`
	Email         string     `gorm:"uniqueIndex;not null" json:"email"`
	Password      string     `gorm:"not null" json:"-"`
	Role          string     `gorm:"default:USER" json:"role"`
	EmailVerified bool       `gorm:"default:false" json:"email_verified"`
	LastLogin     *time.Time `json:"last_login,omitempty"`
	IsActive      bool       `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// AccountValid reports whether the account may authenticate.
func (u *User) AccountValid() bool {
	return u.IsActive
}
