package models

import (
	"time"

	"storefront/internal/patch"
)

// Role is an access level checked by role-gated routes.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// User represents a user of the store.
type User struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username    string    `json:"username" gorm:"uniqueIndex;type:varchar(100);not null"`
	Password    string    `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash, never serialized
	Email       string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Address     string    `json:"address" gorm:"type:varchar(255)"`
	PhoneNumber string    `json:"phone_number" gorm:"type:varchar(50)"`
	BillingInfo string    `json:"billing_info" gorm:"type:text"`
	IsAdmin     bool      `json:"is_admin" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at"`
}

// HasRole reports whether the user holds role.
func (u *User) HasRole(role Role) bool {
	switch role {
	case RoleAdmin:
		return u.IsAdmin
	case RoleCustomer:
		return true
	default:
		return false
	}
}

// UserPatch lists the user columns a partial update may touch.
// Password carries the plaintext; it is hashed before it reaches the store.
type UserPatch struct {
	Username    patch.Optional[string] `json:"username"`
	Password    patch.Optional[string] `json:"password"`
	Email       patch.Optional[string] `json:"email"`
	Address     patch.Optional[string] `json:"address"`
	PhoneNumber patch.Optional[string] `json:"phone_number"`
	BillingInfo patch.Optional[string] `json:"billing_info"`
	IsAdmin     patch.Optional[bool]   `json:"-"`
}
