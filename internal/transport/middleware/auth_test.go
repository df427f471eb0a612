package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/heartmarshall/flashdeck-backend/pkg/ctxutil"
)

func TestAuth_NoToken_PassesAnonymously(t *testing.T) {
	t.Parallel()

	validator := &tokenValidatorMock{}

	var sawUser bool
	handler := Auth(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawUser = ctxutil.UserIDFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if sawUser {
		t.Error("anonymous request should have no context user")
	}
	if len(validator.ValidateAccessTokenCalls()) != 0 {
		t.Error("validator should not be called without a token")
	}
}

func TestAuth_ValidToken_SetsContextUser(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	validator := &tokenValidatorMock{
		ValidateAccessTokenFunc: func(token string) (uuid.UUID, string, error) {
			if token != "good-token" {
				t.Errorf("unexpected token %q", token)
			}
			return userID, "student", nil
		},
	}

	var gotID uuid.UUID
	handler := Auth(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = ctxutil.UserIDFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotID != userID {
		t.Errorf("context user mismatch: got %s, want %s", gotID, userID)
	}
}

func TestAuth_InvalidToken_Rejects(t *testing.T) {
	t.Parallel()

	validator := &tokenValidatorMock{
		ValidateAccessTokenFunc: func(token string) (uuid.UUID, string, error) {
			return uuid.Nil, "", errors.New("bad signature")
		},
	}

	called := false
	handler := Auth(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if called {
		t.Error("handler must not run for invalid tokens")
	}
}

func TestAuth_MalformedHeader_TreatedAsAnonymous(t *testing.T) {
	t.Parallel()

	validator := &tokenValidatorMock{}

	handler := Auth(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(validator.ValidateAccessTokenCalls()) != 0 {
		t.Error("validator should not be called for non-bearer headers")
	}
}
