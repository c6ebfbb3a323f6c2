package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role is the operational role a user signs in with. It is the upper-cased
// name of the user's authorization profile.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleWorker   Role = "WORKER"
	RoleDelivery Role = "DELIVERY"
)

// Roles lists every role in menu order.
var Roles = []Role{RoleAdmin, RoleWorker, RoleDelivery}

// ProfileName is the authorization profile backing the role.
func (r Role) ProfileName() string { return strings.ToLower(string(r)) }

// User represents an authenticated user in the system.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Email     string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name      string         `gorm:"size:255" json:"name"`
	Password  string         `gorm:"size:255;not null" json:"-"` // bcrypt hash
	// ProfileID links the user to an authorization profile.
	// A nil value means the user has no profile assigned and can reach nothing gated.
	ProfileID *uint    `gorm:"index" json:"profile_id,omitempty"`
	Profile   *Profile `gorm:"foreignKey:ProfileID" json:"-"`
}

// Role derives the role from the loaded profile. Users without a profile have none.
func (u User) Role() Role {
	if u.Profile == nil {
		return ""
	}
	return Role(strings.ToUpper(u.Profile.Name))
}
