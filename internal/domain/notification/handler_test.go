package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func notifContext(method, path string, userID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	return c, rec
}

func TestHandler_List(t *testing.T) {
	svc := NewService(newMockRepo())
	h := NewHandler(svc)
	userID := uuid.New()

	if err := svc.Notify(context.Background(), &Notification{UserID: userID, Title: "Medicine missed"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, rec := notifContext(http.MethodGet, "/notifications", userID)
	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Data  []Notification `json:"data"`
		Total int            `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Total != 1 || len(resp.Data) != 1 {
		t.Errorf("expected 1 notification, got total=%d len=%d", resp.Total, len(resp.Data))
	}
}

func TestHandler_UnreadCount(t *testing.T) {
	svc := NewService(newMockRepo())
	h := NewHandler(svc)
	userID := uuid.New()

	if err := svc.Notify(context.Background(), &Notification{UserID: userID, Title: "t"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, rec := notifContext(http.MethodGet, "/notifications/unread-count", userID)
	if err := h.UnreadCount(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp["unread"] != 1 {
		t.Errorf("expected 1 unread, got %d", resp["unread"])
	}
}

func TestHandler_MarkRead_NotFound(t *testing.T) {
	h := NewHandler(NewService(newMockRepo()))

	c, _ := notifContext(http.MethodPost, "/notifications/x/read", uuid.New())
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	err := h.MarkRead(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}
