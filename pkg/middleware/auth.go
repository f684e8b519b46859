package middleware

import (
	"context"
	"net/http"
	"strings"

	"yamdb/internal/data/entity"
	"yamdb/pkg/token"
	"yamdb/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenValidator parses bearer tokens
type TokenValidator interface {
	Validate(tokenString string) (*token.Claims, error)
}

// UserFinder loads the current state of a token's subject
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

// PermissionChecker answers role/object/action questions
type PermissionChecker interface {
	Can(role, object, action string) bool
}

// Authenticate resolves the caller from an optional bearer token.
// Requests without an Authorization header continue as anonymous; a header
// that is present but malformed, expired or pointing at a deleted user is
// rejected with 401. The role is read from the database, not from the token,
// so role changes take effect immediately.
func Authenticate(tokens TokenValidator, users UserFinder, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			raw := strings.TrimSpace(parts[1])

			claims, err := tokens.Validate(raw)
			if err != nil {
				logger.Warn("Rejected access token", zap.Error(err), zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			userID, err := claims.UserID()
			if err != nil {
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			user, err := users.FindByID(r.Context(), userID)
			if err != nil {
				logger.Error("Failed to load token subject",
					zap.Error(err), zap.String("user_id", userID.String()))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}
			if user == nil {
				logger.Warn("Token subject no longer exists", zap.String("user_id", userID.String()))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx := utils.SetActorContext(r.Context(), utils.Actor{
				ID:       user.ID,
				Username: user.Username,
				Role:     user.Role,
			})

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Permission gates a route on the caller's role. Denied anonymous callers
// get 401, denied authenticated callers get 403.
func Permission(checker PermissionChecker, object, action string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := utils.GetRoleFromContext(r.Context())
			if checker.Can(role, object, action) {
				next.ServeHTTP(w, r)
				return
			}

			if role == utils.RoleAnonymous {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			logger.Warn("Permission denied",
				zap.String("role", role),
				zap.String("object", object),
				zap.String("action", action),
				zap.String("path", r.URL.Path),
			)
			utils.ResponseForbidden(w, "You do not have permission to perform this action")
		})
	}
}
