package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/coop-backend/internal/response"
	"github.com/GregMSThompson/coop-backend/pkg/helpers"
	"github.com/GregMSThompson/coop-backend/pkg/logger"
)

type stubVerifier struct {
	token *auth.Token
	err   error
	got   string
}

func (s *stubVerifier) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	s.got = idToken
	return s.token, s.err
}

func newTestMiddleware(v *stubVerifier) *Middleware {
	return NewMiddleware(v, response.New(helpers.TestLogger()))
}

func TestFirebaseAuthPopulatesContext(t *testing.T) {
	signedIn := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	v := &stubVerifier{token: &auth.Token{
		UID:      "uid-1",
		AuthTime: signedIn.Unix(),
		Claims:   map[string]interface{}{"email": "admin@example.com", "role": "admin"},
	}}
	m := newTestMiddleware(v)

	var gotUID, gotEmail, gotRole string
	var gotAuthTime time.Time
	h := m.FirebaseAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUID = UID(r.Context())
		gotEmail = Email(r.Context())
		gotRole = Role(r.Context())
		gotAuthTime = AuthTime(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/members", nil)
	req.Header.Set("Authorization", "Bearer abc.def")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req.WithContext(helpers.TestCtx()))

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rr.Code)
	}
	if v.got != "abc.def" {
		t.Fatalf("token = %q", v.got)
	}
	if gotUID != "uid-1" || gotEmail != "admin@example.com" || gotRole != "admin" {
		t.Fatalf("unexpected identity: %s %s %s", gotUID, gotEmail, gotRole)
	}
	if !gotAuthTime.Equal(signedIn) {
		t.Fatalf("auth time = %v", gotAuthTime)
	}
}

func TestFirebaseAuthRejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
		err    error
	}{
		{"missing header", "", nil},
		{"wrong scheme", "Basic abc", nil},
		{"invalid token", "Bearer bad", errors.New("expired")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := newTestMiddleware(&stubVerifier{err: tc.err, token: &auth.Token{UID: "x"}})
			called := false
			h := m.FirebaseAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized || called {
				t.Fatalf("status = %d, called = %v", rr.Code, called)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	m := newTestMiddleware(&stubVerifier{})
	h := m.RequireRole("admin", "coadmin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for role, want := range map[string]int{"admin": 200, "coadmin": 200, "member": 403, "": 403} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(context.WithValue(req.Context(), RoleKey, role))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != want {
			t.Fatalf("role %q: status = %d, want %d", role, rr.Code, want)
		}
	}
}

func TestLoggerMiddlewareSetsLogger(t *testing.T) {
	base := helpers.TestLogger()
	var got bool
	h := NewLoggerMiddleware(base).LoggerMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = logger.FromContext(r.Context()) != nil
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if !got || rr.Code != http.StatusTeapot {
		t.Fatalf("logger=%v status=%d", got, rr.Code)
	}
}
