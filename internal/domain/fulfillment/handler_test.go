package fulfillment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ayurcare/hms/internal/domain/encounter"
	"github.com/ayurcare/hms/internal/domain/treatment"
)

func newTestHandler() (*Handler, *Service) {
	svc, _, _ := newTestService()
	return NewHandler(svc), svc
}

func TestRequestFulfillmentHandler_Created(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()

	body := `{
		"encounter": {"ipd_no": "IPD-1"},
		"order": {"catalog_name": "Triphala", "quantity": "5g"},
		"medicines": ["Triphala"],
		"requested_by": "Dr. Rao"
	}`
	req := httptest.NewRequest(http.MethodPost, "/fulfillment-requests", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.RequestFulfillment(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var result RequestResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if result.Request.Status != StatusPending {
		t.Errorf("expected pending, got %s", result.Request.Status)
	}
}

func TestRequestFulfillmentHandler_AlreadyPendingReturns200(t *testing.T) {
	h, svc := newTestHandler()
	e := echo.New()

	if _, err := svc.RequestFulfillment(context.Background(), &RequestInput{
		Encounter:   encounter.InpatientRef("IPD-1"),
		Order:       &treatment.TreatmentOrder{CatalogName: "Triphala"},
		RequestedBy: "Dr. Rao",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body := `{
		"encounter": {"ipd_no": "IPD-1"},
		"order": {"catalog_name": "Triphala"},
		"requested_by": "Dr. Rao"
	}`
	req := httptest.NewRequest(http.MethodPost, "/fulfillment-requests", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.RequestFulfillment(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for an already pending request, got %d", rec.Code)
	}

	var result RequestResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if !result.AlreadyPending {
		t.Error("expected already_pending flag in response")
	}
}

func TestRequestFulfillmentHandler_MissingRequester(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()

	body := `{"encounter": {"ipd_no": "IPD-1"}, "order": {"catalog_name": "Triphala"}}`
	req := httptest.NewRequest(http.MethodPost, "/fulfillment-requests", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.RequestFulfillment(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestListRequestsHandler_DefaultsToPending(t *testing.T) {
	h, svc := newTestHandler()
	e := echo.New()

	if _, err := svc.RequestFulfillment(context.Background(), &RequestInput{
		Encounter:   encounter.InpatientRef("IPD-1"),
		Order:       &treatment.TreatmentOrder{CatalogName: "Triphala"},
		RequestedBy: "Dr. Rao",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/fulfillment-requests", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListRequests(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Total != 1 {
		t.Errorf("expected 1 pending request, got %d", resp.Total)
	}
}

func TestUpdateStatusHandler(t *testing.T) {
	h, svc := newTestHandler()
	e := echo.New()

	created, err := svc.RequestFulfillment(context.Background(), &RequestInput{
		Encounter:   encounter.InpatientRef("IPD-1"),
		Order:       &treatment.TreatmentOrder{CatalogName: "Triphala"},
		RequestedBy: "Dr. Rao",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body := `{"status": "fulfilled"}`
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/fulfillment-requests/:id/status")
	c.SetParamNames("id")
	c.SetParamValues(created.Request.ID.String())

	if err := h.UpdateStatus(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var updated Request
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if updated.Status != StatusFulfilled {
		t.Errorf("expected fulfilled, got %s", updated.Status)
	}
}

func TestUpdateStatusHandler_BadID(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()

	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"status":"fulfilled"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/fulfillment-requests/:id/status")
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.UpdateStatus(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestFulfillmentRegisterRoutes(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()
	h.RegisterRoutes(e.Group("/api/v1"))

	want := map[string]bool{
		"POST /api/v1/fulfillment-requests":             false,
		"GET /api/v1/fulfillment-requests":              false,
		"PATCH /api/v1/fulfillment-requests/:id/status": false,
	}
	for _, r := range e.Routes() {
		key := r.Method + " " + r.Path
		if _, ok := want[key]; ok {
			want[key] = true
		}
	}
	for key, found := range want {
		if !found {
			t.Errorf("route %s not registered", key)
		}
	}
}
