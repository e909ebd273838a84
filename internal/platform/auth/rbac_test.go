package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func rbacContext(t *testing.T, userID uuid.UUID) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/caretaker/patients", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	return c
}

func TestRequireRole_Allowed(t *testing.T) {
	userID := uuid.New()
	resolve := func(_ context.Context, id uuid.UUID) (string, error) {
		if id != userID {
			t.Errorf("expected lookup for %s, got %s", userID, id)
		}
		return "caretaker", nil
	}

	c := rbacContext(t, userID)
	called := false
	h := RequireRole(resolve, "caretaker")(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("expected handler to be called")
	}
	if Role(c) != "caretaker" {
		t.Errorf("expected role in context, got %q", Role(c))
	}
}

func TestRequireRole_AdminBypass(t *testing.T) {
	resolve := func(context.Context, uuid.UUID) (string, error) { return "admin", nil }

	c := rbacContext(t, uuid.New())
	h := RequireRole(resolve, "caretaker")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if err := h(c); err != nil {
		t.Fatalf("expected admin to pass, got %v", err)
	}
}

func TestRequireRole_Forbidden(t *testing.T) {
	resolve := func(context.Context, uuid.UUID) (string, error) { return "elder", nil }

	c := rbacContext(t, uuid.New())
	h := RequireRole(resolve, "caretaker")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	err := h(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %v", err)
	}
}

func TestRequireRole_ResolverError(t *testing.T) {
	resolve := func(context.Context, uuid.UUID) (string, error) {
		return "", errors.New("db down")
	}

	c := rbacContext(t, uuid.New())
	h := RequireRole(resolve, "caretaker")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	err := h(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %v", err)
	}
}

func TestRequireRole_Unauthenticated(t *testing.T) {
	resolve := func(context.Context, uuid.UUID) (string, error) { return "elder", nil }

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/caretaker/patients", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := RequireRole(resolve, "caretaker")(func(c echo.Context) error { return nil })(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}
