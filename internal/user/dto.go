package user

import (
	"regexp"
	"strings"

	"github.com/treyfatech/sitecms/internal"
	"github.com/treyfatech/sitecms/internal/auth"
)

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// CreateUserDTO is the payload an administrator submits to create a user.
// A permissions field, if sent, is ignored: permissions derive from role only.
type CreateUserDTO struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (dto *CreateUserDTO) Validate() error {
	dto.Username = strings.TrimSpace(dto.Username)
	dto.Email = strings.ToLower(strings.TrimSpace(dto.Email))

	if len(dto.Username) < 3 || len(dto.Username) > 30 {
		return internal.NewValidationFieldError("username", "username must be 3-30 characters", internal.ErrCodeValidationFailed)
	}
	if !emailPattern.MatchString(dto.Email) {
		return internal.NewValidationFieldError("email", "Please enter a valid email", internal.ErrCodeInvalidEmail)
	}
	if len(dto.Password) < 6 {
		return internal.NewValidationFieldError("password", "password must be at least 6 characters", internal.ErrCodeValidationFailed)
	}
	if dto.Role == "" {
		dto.Role = auth.RoleBlogUser
	}
	if !auth.ValidRole(dto.Role) {
		return internal.NewValidationFieldError("role", "unknown role", internal.ErrCodeValidationFailed)
	}
	return nil
}

// UpdateUserDTO carries the whitelisted mutable fields. Nil means "leave as is".
type UpdateUserDTO struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"isActive"`
}

func (dto *UpdateUserDTO) Validate() error {
	if dto.Username != nil {
		trimmed := strings.TrimSpace(*dto.Username)
		if len(trimmed) < 3 || len(trimmed) > 30 {
			return internal.NewValidationFieldError("username", "username must be 3-30 characters", internal.ErrCodeValidationFailed)
		}
		dto.Username = &trimmed
	}
	if dto.Email != nil {
		lowered := strings.ToLower(strings.TrimSpace(*dto.Email))
		if !emailPattern.MatchString(lowered) {
			return internal.NewValidationFieldError("email", "Please enter a valid email", internal.ErrCodeInvalidEmail)
		}
		dto.Email = &lowered
	}
	if dto.Password != nil && len(*dto.Password) < 6 {
		return internal.NewValidationFieldError("password", "password must be at least 6 characters", internal.ErrCodeValidationFailed)
	}
	if dto.Role != nil && !auth.ValidRole(*dto.Role) {
		return internal.NewValidationFieldError("role", "unknown role", internal.ErrCodeValidationFailed)
	}
	return nil
}
