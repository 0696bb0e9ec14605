package middleware

import (
	"net/http"

	"rsm-commerce/internal/domain"

	"go.uber.org/zap"
)

// RequireStaff admits admins and managers
func RequireStaff(logger *zap.Logger) func(http.Handler) http.Handler {
	return RequireRole(domain.StaffRoles, logger)
}

// RequireRole admits callers whose token role is in allowedRoles. It must run
// after AuthMiddleware; a request without a role is forbidden.
func RequireRole(allowedRoles []string, logger *zap.Logger) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, role := range allowedRoles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, _ := GetUserRole(r.Context())
			if _, ok := allowed[role]; ok && role != "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, _ := GetUserID(r.Context())
			logger.Warn("Caller lacks a required role",
				zap.String("user_id", userID.String()),
				zap.String("role", role),
				zap.Strings("allowed_roles", allowedRoles),
				zap.String("path", r.URL.Path),
			)
			RespondWithError(w, http.StatusForbidden, "insufficient permissions")
		})
	}
}
