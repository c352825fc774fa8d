package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// SessionCookieName identifies the shopper's cart across visits.
const SessionCookieName = "xurva_session"

const sessionCookieMaxAge = 90 * 24 * 60 * 60 // matches the cart TTL in Mongo

type contextKey string

const sessionIDKey contextKey = "session_id"

// SessionMiddleware assigns every shopper a stable session id via cookie.
// The id is the only key the cart store knows the shopper by.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sessionID string

		if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
			sessionID = cookie.Value
		} else {
			sessionID = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   sessionCookieMaxAge,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionIDFromContext(ctx context.Context) string {
	if sessionID, ok := ctx.Value(sessionIDKey).(string); ok {
		return sessionID
	}
	return ""
}
