package auth

import (
	"context"
	"log"
	"net/http"
	"strings"
)

type ctxKey string

const (
	userIDKey    ctxKey = "user_id"
	sessionIDKey ctxKey = "session_id"
)

// SessionChecker confirms that a token's session is still live.
type SessionChecker interface {
	Active(ctx context.Context, sessionID string, userID uint64) (bool, error)
}

func UserIDFromContext(ctx context.Context) (uint64, bool) {
	v := ctx.Value(userIDKey)
	id, ok := v.(uint64)
	return id, ok
}

func SessionIDFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(sessionIDKey)
	id, ok := v.(string)
	return id, ok
}

// WithUser returns a context carrying an authenticated user and session.
func WithUser(ctx context.Context, userID uint64, sessionID string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

func RequireAuth(jwtSvc *JWT, sessions SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if h == "" || !strings.HasPrefix(h, "Bearer ") {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			token := strings.TrimPrefix(h, "Bearer ")

			claims, err := jwtSvc.Verify(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ok, err := sessions.Active(r.Context(), claims.SessionID, claims.UserID)
			if err != nil {
				log.Printf("session check error: %v\n", err)
				http.Error(w, "server error", http.StatusInternalServerError)
				return
			}
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims.UserID, claims.SessionID)))
		})
	}
}
