package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/google/uuid"
)

func TestMiddleware_BearerToken(t *testing.T) {
	store := NewMemoryTokenStore(time.Hour)
	userID := uuid.New()
	token, _ := store.Issue(context.Background(), userID)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/doses", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		id, ok := UserID(c)
		if !ok {
			t.Fatal("expected user id in context")
		}
		if id != userID {
			t.Errorf("expected %s, got %s", userID, id)
		}
		return c.NoContent(http.StatusOK)
	}

	if err := Middleware(store)(handler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMiddleware_LegacyHeader(t *testing.T) {
	store := NewMemoryTokenStore(time.Hour)
	userID := uuid.New()
	token, _ := store.Issue(context.Background(), userID)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/doses", nil)
	req.Header.Set(AuthTokenHeader, token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		if id, _ := UserID(c); id != userID {
			t.Errorf("expected %s, got %s", userID, id)
		}
		return c.NoContent(http.StatusOK)
	}

	if err := Middleware(store)(handler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMiddleware_MissingToken(t *testing.T) {
	store := NewMemoryTokenStore(time.Hour)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/doses", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := Middleware(store)(func(c echo.Context) error { return nil })(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}

func TestMiddleware_InvalidToken(t *testing.T) {
	store := NewMemoryTokenStore(time.Hour)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/doses", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer bogus")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := Middleware(store)(func(c echo.Context) error { return nil })(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}
