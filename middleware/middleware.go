package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Mehedi-Hassan-Rauf/project-management/logging"
	"github.com/Mehedi-Hassan-Rauf/project-management/models"
	"github.com/Mehedi-Hassan-Rauf/project-management/utils"
)

type contextKey string

const identityKey contextKey = "identity"

// JWTAuthMiddleware validates the Bearer token and attaches the resolved
// caller identity to the request context. Requests without a valid token
// carrying a known role never reach a handler.
func JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			logging.Logger.Warnf("Event ID: AUTH_MISSING_HEADER, Description: Authorization header missing for %s %s", r.Method, r.URL.Path)
			unauthorized(w, "Authorization header missing")
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateToken(tokenStr)
		if err != nil {
			logging.Logger.Warnf("Event ID: AUTH_INVALID_TOKEN, Description: Invalid token for %s %s: %v", r.Method, r.URL.Path, err)
			unauthorized(w, "Invalid token")
			return
		}

		role, err := models.ParseRole(claims.Role)
		if err != nil {
			logging.Logger.Warnf("Event ID: AUTH_UNKNOWN_ROLE, Description: Token with unknown role for %s %s: %v", r.Method, r.URL.Path, err)
			unauthorized(w, "Invalid token")
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			logging.Logger.Warnf("Event ID: AUTH_BAD_USER_ID, Description: Token with malformed user id for %s %s: %v", r.Method, r.URL.Path, err)
			unauthorized(w, "Invalid token")
			return
		}

		caller := models.Identity{UserID: userID, Role: role}
		next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), caller)))
	})
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"success":false,"message":"` + message + `"}`))
}

func ContextWithIdentity(ctx context.Context, caller models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, caller)
}

// IdentityFromContext returns the caller placed by JWTAuthMiddleware.
func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	caller, ok := ctx.Value(identityKey).(models.Identity)
	return caller, ok
}
