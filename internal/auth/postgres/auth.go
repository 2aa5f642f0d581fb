package postgres

import (
	"errors"
	"time"

	"github.com/treyfatech/sitecms/internal/auth"
	"gorm.io/gorm"
)

// AuthRepository implements auth.UserRepository with read-only lookups over
// the users table.
type AuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) auth.UserRepository {
	return &AuthRepository{db: db}
}

type userRow struct {
	ID           int64  `gorm:"column:id"`
	Username     string `gorm:"column:username"`
	Email        string `gorm:"column:email"`
	PasswordHash string `gorm:"column:password_hash"`
	Role         string `gorm:"column:role"`
	IsActive     bool   `gorm:"column:is_active"`
}

func (r *AuthRepository) GetCredentialByEmail(email string) (*auth.Credential, error) {
	var row userRow
	err := r.db.Table("users").Where("email = ?", email).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return &auth.Credential{
		UserID:       row.ID,
		PasswordHash: row.PasswordHash,
		IsActive:     row.IsActive,
	}, nil
}

func (r *AuthRepository) GetActorByID(userID int64) (*auth.Actor, error) {
	var row userRow
	err := r.db.Table("users").Where("id = ?", userID).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	if !row.IsActive {
		return nil, auth.ErrUserInactive
	}
	return &auth.Actor{
		ID:          row.ID,
		Username:    row.Username,
		Email:       row.Email,
		Role:        row.Role,
		Permissions: auth.PermissionsForRole(row.Role),
	}, nil
}

func (r *AuthRepository) UpdateLastLogin(userID int64, at time.Time) error {
	return r.db.Table("users").Where("id = ?", userID).
		Updates(map[string]interface{}{
			"last_login": at,
			"updated_at": time.Now(),
		}).Error
}
