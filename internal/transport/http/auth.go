package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"arena-quiz-service/internal/domain"
)

// SessionLookup resolves an identity-provider token to a caller.
// Unknown or expired tokens return domain.ErrSessionNotFound.
type SessionLookup interface {
	LookupSession(ctx context.Context, token string) (domain.Caller, error)
}

type contextKey string

const callerKey contextKey = "caller"

const (
	headerUserID   = "X-User-ID"
	headerUserName = "X-User-Name"
)

// WithCaller returns a copy of ctx carrying caller.
func WithCaller(ctx context.Context, caller domain.Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// CallerFrom returns the caller attached to ctx, or the anonymous caller.
func CallerFrom(ctx context.Context) domain.Caller {
	if v, ok := ctx.Value(callerKey).(domain.Caller); ok {
		return v
	}
	return domain.Caller{}
}

// Authenticate resolves the session token from the Authorization header or the
// session cookie. Requests without a valid session continue anonymously; the
// services decide what anonymous callers may do.
func Authenticate(sessions SessionLookup, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" && cookieName != "" {
				if c, err := r.Cookie(cookieName); err == nil {
					token = c.Value
				}
			}
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			caller, err := sessions.LookupSession(r.Context(), token)
			if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
				writeServiceError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

// TrustGateway reads the caller from headers set by an authenticating proxy.
func TrustGateway(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller := domain.Caller{
			ID:          strings.TrimSpace(r.Header.Get(headerUserID)),
			DisplayName: strings.TrimSpace(r.Header.Get(headerUserName)),
		}
		next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
	})
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
