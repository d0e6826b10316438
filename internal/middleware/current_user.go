package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const (
	// ContextKeyUserID is the key for storing the acting user ID in request context.
	ContextKeyUserID contextKey = "user_id"

	// UserIDHeader names the acting user. It is optional; request bodies may
	// name the actor explicitly instead.
	UserIDHeader = "X-User-ID"
)

// CurrentUser reads X-User-ID and stores it in the request context.
// A present but malformed header is rejected with 400.
func CurrentUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(UserIDHeader)
		if userID == "" {
			next.ServeHTTP(w, r)
			return
		}

		if _, err := uuid.Parse(userID); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]string{
					"code":    "INVALID_REQUEST",
					"message": UserIDHeader + " must be a valid UUID",
				},
			})
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyUserID, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromContext returns the acting user ID set by CurrentUser.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(ContextKeyUserID).(string)
	return userID, ok && userID != ""
}
