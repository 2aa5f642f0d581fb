package auth

import (
	"log/slog"
	"net/http"
)

// RBACAuthorization builds per-route authorization middleware on top of the
// role → permission table. It assumes AuthMiddleware already resolved the
// actor; a missing actor is a 401, an insufficient permission set a 403.
type RBACAuthorization struct {
	logger *slog.Logger
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{logger: logger}
}

func (ra *RBACAuthorization) RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok || actor == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !actor.HasPermission(permission) {
				ra.logger.WarnContext(r.Context(), "access denied: insufficient permissions",
					"user_id", actor.ID,
					"required_permission", permission,
					"user_permissions", actor.Permissions)
				http.Error(w, "Access denied", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin gates routes on the wildcard permission (super admins only).
func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.RequirePermission(PermissionAll)
}
