package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAuthManager(t *testing.T) {
	auth := NewAuthManager("test-secret", false, time.Hour)

	mint := func(t *testing.T, a *AuthManager) string {
		t.Helper()
		rec := httptest.NewRecorder()
		token, err := a.Mint(rec)
		if err != nil {
			t.Fatalf("Mint() error = %v", err)
		}
		return token
	}

	t.Run("accepts its own token via bearer header", func(t *testing.T) {
		token := mint(t, auth)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		claims, err := auth.ParseFromRequest(req)
		if err != nil {
			t.Fatalf("ParseFromRequest() error = %v", err)
		}
		if claims.Role != "admin" {
			t.Errorf("role = %q, want admin", claims.Role)
		}
	})

	t.Run("accepts its own token via cookie", func(t *testing.T) {
		token := mint(t, auth)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "admin_session", Value: token})
		if _, err := auth.ParseFromRequest(req); err != nil {
			t.Errorf("ParseFromRequest() error = %v", err)
		}
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		other := NewAuthManager("other-secret", false, time.Hour)
		token := mint(t, other)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		if _, err := auth.ParseFromRequest(req); err == nil {
			t.Error("foreign token accepted")
		}
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		shortLived := NewAuthManager("test-secret", false, -time.Minute)
		token := mint(t, shortLived)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		if _, err := auth.ParseFromRequest(req); err == nil {
			t.Error("expired token accepted")
		}
	})

	t.Run("rejects a request with no token at all", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if _, err := auth.ParseFromRequest(req); err == nil {
			t.Error("tokenless request accepted")
		}
	})
}
