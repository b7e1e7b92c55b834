package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// nextRecorder is the handler behind the middleware: it records whether it
// ran and which account ID it saw.
type nextRecorder struct {
	called    bool
	accountID string
}

func (n *nextRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n.called = true
	n.accountID, _ = AccountIDFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
}

func TestRequireAuth_BearerHeader(t *testing.T) {
	s := newTestTokenService(t)
	token, err := s.Generate("account-123")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	next := &nextRecorder{}
	mw := RequireAuth(s)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/account", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	if !next.called {
		t.Fatal("next handler was not called")
	}
	if next.accountID != "account-123" {
		t.Errorf("account ID in context = %q, want account-123", next.accountID)
	}
}

func TestRequireAuth_Cookie(t *testing.T) {
	s := newTestTokenService(t)
	token, err := s.Generate("account-123")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	next := &nextRecorder{}
	mw := RequireAuth(s)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/account", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	if !next.called {
		t.Fatal("next handler was not called")
	}
	if next.accountID != "account-123" {
		t.Errorf("account ID in context = %q, want account-123", next.accountID)
	}
}

func TestRequireAuth_Rejections(t *testing.T) {
	s := newTestTokenService(t)

	expired, err := s.GenerateWithDuration("account-123", -1)
	if err != nil {
		t.Fatalf("GenerateWithDuration() error = %v", err)
	}

	tests := []struct {
		name    string
		prepare func(r *http.Request)
	}{
		{"no credentials", func(r *http.Request) {}},
		{"garbage bearer token", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer garbage")
		}},
		{"wrong scheme", func(r *http.Request) {
			r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		}},
		{"expired token", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+expired)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &nextRecorder{}
			mw := RequireAuth(s)(next)

			req := httptest.NewRequest(http.MethodGet, "/api/account", nil)
			tt.prepare(req)
			rec := httptest.NewRecorder()
			mw.ServeHTTP(rec, req)

			if next.called {
				t.Error("next handler must not run")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}
		})
	}
}
