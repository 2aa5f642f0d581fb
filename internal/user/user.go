package user

import (
	"time"

	"github.com/treyfatech/sitecms/internal/auth"
)

// BootstrapUsername names the seeded super admin. That account can never be
// deleted, deactivated, or demoted out of super_admin.
const BootstrapUsername = "admin"

type User struct {
	ID           int64      `json:"id" gorm:"primaryKey"`
	Username     string     `json:"username" gorm:"uniqueIndex;not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"column:password_hash;not null"`
	Role         string     `json:"role" gorm:"not null;default:blog_user"`
	IsActive     bool       `json:"isActive" gorm:"column:is_active;default:true"`
	LastLogin    *time.Time `json:"lastLogin,omitempty" gorm:"column:last_login"`
	ProfileImage string     `json:"profileImage,omitempty" gorm:"column:profile_image"`
	CreatedAt    time.Time  `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" gorm:"column:updated_at"`

	// Permissions is a projection of Role, recomputed on every read and role
	// change. It is never persisted and never accepted from a request.
	Permissions []string `json:"permissions" gorm:"-"`
}

func (User) TableName() string {
	return "users"
}

// DerivePermissions refreshes the permission projection from the role table.
func (u *User) DerivePermissions() {
	u.Permissions = auth.PermissionsForRole(u.Role)
}

// IsBootstrap reports whether this is the protected seed administrator.
func (u *User) IsBootstrap() bool {
	return u.Username == BootstrapUsername
}
