package middleware

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/coop-backend/internal/errs"
	"github.com/GregMSThompson/coop-backend/internal/response"
	"github.com/GregMSThompson/coop-backend/pkg/logger"
)

type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type Middleware struct {
	AuthClient      tokenVerifier
	ResponseHandler response.ResponseHandler
}

func NewMiddleware(client tokenVerifier, resp response.ResponseHandler) *Middleware {
	return &Middleware{AuthClient: client, ResponseHandler: resp}
}

// context key
type contextKey string

const (
	UIDKey      contextKey = "uid"
	EmailKey    contextKey = "email"
	RoleKey     contextKey = "role"
	AuthTimeKey contextKey = "auth_time"
)

// FirebaseAuth verifies the bearer ID token and puts the caller's uid,
// email, role claim and sign-in time on the context.
func (m *Middleware) FirebaseAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			m.ResponseHandler.HandleError(w, r, errs.NewUnauthorizedError("missing Authorization header"))
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.ResponseHandler.HandleError(w, r, errs.NewUnauthorizedError("invalid Authorization header"))
			return
		}

		token, err := m.AuthClient.VerifyIDToken(r.Context(), parts[1])
		if err != nil {
			logger.FromContext(r.Context()).Warn("token verification failed", "error", err)
			m.ResponseHandler.HandleError(w, r, errs.NewUnauthorizedError("invalid or expired token"))
			return
		}

		email, _ := token.Claims["email"].(string)
		role, _ := token.Claims["role"].(string)

		ctx := context.WithValue(r.Context(), UIDKey, token.UID)
		ctx = context.WithValue(ctx, EmailKey, email)
		ctx = context.WithValue(ctx, RoleKey, role)
		ctx = context.WithValue(ctx, AuthTimeKey, time.Unix(token.AuthTime, 0).UTC())
		_, ctx = logger.With(ctx, "uid", token.UID, "role", role)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole lets the request through only when the caller's role claim
// is one of roles.
func (m *Middleware) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !slices.Contains(roles, Role(r.Context())) {
				m.ResponseHandler.HandleError(w, r, errs.NewForbiddenError("your role cannot access this resource"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func UID(ctx context.Context) string {
	uid, _ := ctx.Value(UIDKey).(string)
	return uid
}

func Email(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

func Role(ctx context.Context) string {
	role, _ := ctx.Value(RoleKey).(string)
	return role
}

// AuthTime is when the caller last signed in; zero when unknown.
func AuthTime(ctx context.Context) time.Time {
	t, _ := ctx.Value(AuthTimeKey).(time.Time)
	return t
}
