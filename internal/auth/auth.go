package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles assignable to users. Every role maps to a fixed permission set; the
// set is a projection of the role and is never stored or edited on its own.
const (
	RoleSuperAdmin          = "super_admin"
	RoleBlogUser            = "blog_user"
	RoleConsultationManager = "consultation_manager"
)

// PermissionAll is the wildcard permission; it satisfies every check.
const PermissionAll = "all"

const (
	PermissionBlogCreate  = "blog:create"
	PermissionBlogEdit    = "blog:edit"
	PermissionBlogDelete  = "blog:delete"
	PermissionBlogPublish = "blog:publish"

	PermissionConsultationView    = "consultation:view"
	PermissionConsultationApprove = "consultation:approve"
	PermissionConsultationManage  = "consultation:manage"

	PermissionFollowUpCreate = "followup:create"
	PermissionFollowUpManage = "followup:manage"
)

// rolePermissions is the single source of truth for the role table.
var rolePermissions = map[string][]string{
	RoleSuperAdmin: {PermissionAll},
	RoleBlogUser: {
		PermissionBlogCreate,
		PermissionBlogEdit,
		PermissionBlogDelete,
		PermissionBlogPublish,
	},
	RoleConsultationManager: {
		PermissionConsultationView,
		PermissionConsultationApprove,
		PermissionConsultationManage,
		PermissionFollowUpCreate,
		PermissionFollowUpManage,
	},
}

// PermissionsForRole returns the permission set for a role. Unknown roles get
// an empty set. The returned slice is a copy; callers may not mutate the table.
func PermissionsForRole(role string) []string {
	perms, ok := rolePermissions[role]
	if !ok {
		return []string{}
	}
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// ValidRole reports whether role is one of the assignable roles.
func ValidRole(role string) bool {
	_, ok := rolePermissions[role]
	return ok
}

// HasPermission reports whether the permission set grants required, either
// directly or through the wildcard.
func HasPermission(permissions []string, required string) bool {
	for _, p := range permissions {
		if p == required || p == PermissionAll {
			return true
		}
	}
	return false
}

// Actor is the identity resolved from the caller's credential.
type Actor struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

func (a *Actor) HasPermission(required string) bool {
	return HasPermission(a.Permissions, required)
}

func (a *Actor) IsAdmin() bool {
	return HasPermission(a.Permissions, PermissionAll)
}

type ctxKey string

const contextActorKey ctxKey = "actor"

// ActorFromContext returns the authenticated actor for the request, if any.
func ActorFromContext(ctx context.Context) (*Actor, bool) {
	a, ok := ctx.Value(contextActorKey).(*Actor)
	return a, ok
}

func ContextWithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, contextActorKey, actor)
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Claims represents JWT token claims.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenGenerator creates and validates tokens.
type TokenGenerator interface {
	GenerateAccessToken(userID string, username string) (token string, err error)
	GenerateRefreshToken(userID string, username string) (token string, err error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrUserInactive       = errors.New("user is inactive")
	ErrUserNotFound       = errors.New("user not found")
)
