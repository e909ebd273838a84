package patient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func patientContext(method, path, body string, caretakerID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", caretakerID)
	return c, rec
}

func TestHandler_AddPatient(t *testing.T) {
	h := NewHandler(NewService(newMockRepo()))
	caretakerID := uuid.New()

	c, rec := patientContext(http.MethodPost, "/caretaker/patients",
		`{"name":"George Hill","email":"george@example.com","condition":"hypertension"}`, caretakerID)

	if err := h.AddPatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var p Patient
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if p.CaretakerID != caretakerID {
		t.Errorf("expected caretaker %s, got %s", caretakerID, p.CaretakerID)
	}
}

func TestHandler_ListPatients_Empty(t *testing.T) {
	h := NewHandler(NewService(newMockRepo()))

	c, rec := patientContext(http.MethodGet, "/caretaker/patients", "", uuid.New())
	if err := h.ListPatients(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("expected empty array, got %s", got)
	}
}

func TestHandler_GetPatient_NotOwned(t *testing.T) {
	svc := NewService(newMockRepo())
	h := NewHandler(svc)

	p := &Patient{Name: "George"}
	if err := svc.AddPatient(context.Background(), uuid.New(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, _ := patientContext(http.MethodGet, "/caretaker/patients/"+p.ID.String(), "", uuid.New())
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())

	err := h.GetPatient(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestHandler_GetPatient_BadID(t *testing.T) {
	h := NewHandler(NewService(newMockRepo()))

	c, _ := patientContext(http.MethodGet, "/caretaker/patients/abc", "", uuid.New())
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := h.GetPatient(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_DeletePatient(t *testing.T) {
	svc := NewService(newMockRepo())
	h := NewHandler(svc)
	caretakerID := uuid.New()

	p := &Patient{Name: "George"}
	if err := svc.AddPatient(context.Background(), caretakerID, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, rec := patientContext(http.MethodDelete, "/caretaker/patients/"+p.ID.String(), "", caretakerID)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())

	if err := h.DeletePatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}
