package user

import (
	"log/slog"

	"github.com/treyfatech/sitecms/internal"
)

// PasswordHasher is satisfied by the auth service.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type Repository interface {
	Create(u *User) error
	GetByID(id int64) (*User, error)
	GetByUsernameOrEmail(username, email string) (*User, error)
	List() ([]*User, error)
	Update(u *User) error
}

type Service struct {
	repo   Repository
	hasher PasswordHasher
	logger *slog.Logger
}

func NewService(repo Repository, hasher PasswordHasher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		logger: logger,
	}
}

// CreateUser creates an account with a role-derived permission set.
func (s *Service) CreateUser(dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByUsernameOrEmail(dto.Username, dto.Email); err == nil && existing != nil {
		return nil, internal.ErrUserExists
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	u := &User{
		Username:     dto.Username,
		Email:        dto.Email,
		PasswordHash: hash,
		Role:         dto.Role,
		IsActive:     true,
	}

	if err := s.repo.Create(u); err != nil {
		s.logger.Error("failed to create user", "error", err, "username", dto.Username)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	u.DerivePermissions()
	s.logger.Info("user created", "user_id", u.ID, "username", u.Username, "role", u.Role)
	return u, nil
}

func (s *Service) GetUser(id int64) (*User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}
	u.DerivePermissions()
	return u, nil
}

func (s *Service) ListUsers() ([]*User, error) {
	users, err := s.repo.List()
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, internal.NewInternalError("failed to list users", err)
	}
	for _, u := range users {
		u.DerivePermissions()
	}
	return users, nil
}

// UpdateUser applies the whitelisted fields. A role change replaces the
// permission projection wholesale; there is no path that edits permissions
// without going through the role.
func (s *Service) UpdateUser(id int64, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}

	if u.IsBootstrap() {
		if dto.Role != nil && *dto.Role != u.Role {
			return nil, internal.ErrProtectedUser
		}
		if dto.IsActive != nil && !*dto.IsActive {
			return nil, internal.ErrProtectedUser
		}
	}

	if dto.Username != nil {
		u.Username = *dto.Username
	}
	if dto.Email != nil {
		u.Email = *dto.Email
	}
	if dto.Password != nil {
		hash, err := s.hasher.HashPassword(*dto.Password)
		if err != nil {
			return nil, internal.NewInternalError("failed to update user", err)
		}
		u.PasswordHash = hash
	}
	if dto.Role != nil {
		u.Role = *dto.Role
	}
	if dto.IsActive != nil {
		u.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", id)
		return nil, internal.NewInternalError("failed to update user", err)
	}

	u.DerivePermissions()
	s.logger.Info("user updated", "user_id", u.ID, "role", u.Role, "active", u.IsActive)
	return u, nil
}

// DeactivateUser soft-deletes an account. Users are never hard-deleted so
// author and assignee references stay resolvable.
func (s *Service) DeactivateUser(id int64) error {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return internal.ErrUserNotFound
	}

	if u.IsBootstrap() {
		return internal.ErrProtectedUser
	}

	u.IsActive = false
	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to deactivate user", "error", err, "user_id", id)
		return internal.NewInternalError("failed to deactivate user", err)
	}

	s.logger.Info("user deactivated", "user_id", id)
	return nil
}
