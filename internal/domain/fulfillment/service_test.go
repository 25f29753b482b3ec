package fulfillment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ayurcare/hms/internal/domain/encounter"
	"github.com/ayurcare/hms/internal/domain/treatment"
	"github.com/ayurcare/hms/pkg/apperr"
)

type mockRepo struct {
	requests map[uuid.UUID]*Request
}

func newMockRepo() *mockRepo {
	return &mockRepo{requests: make(map[uuid.UUID]*Request)}
}

func (m *mockRepo) Insert(_ context.Context, r *Request) error {
	r.ID = uuid.New()
	r.CreatedAt = time.Now().UTC()
	cp := *r
	m.requests[r.ID] = &cp
	return nil
}

func (m *mockRepo) Get(_ context.Context, id uuid.UUID) (*Request, error) {
	r, ok := m.requests[id]
	if !ok {
		return nil, apperr.NotFound("fulfillment request %s", id)
	}
	cp := *r
	return &cp, nil
}

func (m *mockRepo) FindPending(_ context.Context, ref encounter.Ref, orderID uuid.UUID) (*Request, error) {
	for _, r := range m.requests {
		if r.Encounter == ref && r.OrderID != nil && *r.OrderID == orderID && r.Status == StatusPending {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockRepo) List(_ context.Context, status Status, limit, offset int) ([]*Request, int, error) {
	var out []*Request
	for _, r := range m.requests {
		if r.Status == status {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, id uuid.UUID, status Status) error {
	r, ok := m.requests[id]
	if !ok {
		return apperr.NotFound("fulfillment request %s", id)
	}
	r.Status = status
	return nil
}

func (m *mockRepo) DeleteRequestsForOrder(_ context.Context, orderID uuid.UUID) error {
	for id, r := range m.requests {
		if r.OrderID != nil && *r.OrderID == orderID {
			delete(m.requests, id)
		}
	}
	return nil
}

type mockOrders struct {
	orders map[uuid.UUID]*treatment.TreatmentOrder
}

func newMockOrders() *mockOrders {
	return &mockOrders{orders: make(map[uuid.UUID]*treatment.TreatmentOrder)}
}

func (m *mockOrders) FindOrCreate(_ context.Context, o *treatment.TreatmentOrder) (*treatment.TreatmentOrder, error) {
	for _, existing := range m.orders {
		if existing.Encounter == o.Encounter && existing.Kind == o.Kind &&
			existing.CatalogName == o.CatalogName &&
			strEq(existing.Quantity, o.Quantity) && strEq(existing.Frequency, o.Frequency) {
			cp := *existing
			return &cp, nil
		}
	}
	o.ID = uuid.New()
	o.CreatedAt = time.Now().UTC()
	cp := *o
	m.orders[o.ID] = &cp
	return o, nil
}

func strEq(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func newTestService() (*Service, *mockRepo, *mockOrders) {
	repo := newMockRepo()
	orders := newMockOrders()
	svc := NewService(repo, orders, zerolog.Nop())
	return svc, repo, orders
}

func strp(s string) *string { return &s }

func TestComposeRequirements(t *testing.T) {
	got := ComposeRequirements([]string{"Dashamoola", "", "Sesame oil"}, []string{"Cotton gauze"})
	want := "Dashamoola, Sesame oil, Cotton gauze"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	if got := ComposeRequirements(nil, nil); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}

	if got := ComposeRequirements([]string{"  ", ""}); got != "" {
		t.Errorf("expected whitespace segments dropped, got %q", got)
	}
}

func TestRequestFulfillment_MissingRequester(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.RequestFulfillment(context.Background(), &RequestInput{
		Encounter: encounter.InpatientRef("IPD-1"),
		Order:     &treatment.TreatmentOrder{CatalogName: "Triphala"},
	})
	if !apperr.IsInvalid(err) {
		t.Errorf("expected invalid request, got %v", err)
	}
}

func TestRequestFulfillment_CreatesOrderAndRequest(t *testing.T) {
	svc, repo, orders := newTestService()
	ref := encounter.InpatientRef("IPD-1")

	result, err := svc.RequestFulfillment(context.Background(), &RequestInput{
		Encounter:   ref,
		Order:       &treatment.TreatmentOrder{CatalogName: "Triphala", Quantity: strp("5g"), Frequency: strp("BD")},
		Medicines:   []string{"Triphala"},
		RequestedBy: "Dr. Rao",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AlreadyPending {
		t.Error("expected a fresh request")
	}
	if result.Request.Status != StatusPending {
		t.Errorf("expected pending, got %s", result.Request.Status)
	}
	if len(orders.orders) != 1 {
		t.Errorf("expected 1 backing order, got %d", len(orders.orders))
	}
	if len(repo.requests) != 1 {
		t.Errorf("expected 1 request, got %d", len(repo.requests))
	}
}

func TestRequestFulfillment_ReusesOrderAndReportsPending(t *testing.T) {
	svc, repo, orders := newTestService()
	ref := encounter.InpatientRef("IPD-1")

	in := func() *RequestInput {
		return &RequestInput{
			Encounter:   ref,
			Order:       &treatment.TreatmentOrder{CatalogName: "Triphala", Quantity: strp("5g"), Frequency: strp("BD")},
			RequestedBy: "Dr. Rao",
		}
	}

	first, err := svc.RequestFulfillment(context.Background(), in())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := svc.RequestFulfillment(context.Background(), in())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.AlreadyPending {
		t.Error("expected already-pending result")
	}
	if second.Request.ID != first.Request.ID {
		t.Error("expected the existing request to be returned")
	}
	if len(orders.orders) != 1 {
		t.Errorf("expected the backing order to be reused, got %d orders", len(orders.orders))
	}
	if len(repo.requests) != 1 {
		t.Errorf("expected no duplicate request, got %d", len(repo.requests))
	}
}

func TestRequestFulfillment_NewRequestAfterSettled(t *testing.T) {
	svc, repo, _ := newTestService()
	ref := encounter.InpatientRef("IPD-1")

	in := func() *RequestInput {
		return &RequestInput{
			Encounter:   ref,
			Order:       &treatment.TreatmentOrder{CatalogName: "Triphala"},
			RequestedBy: "Dr. Rao",
		}
	}

	first, err := svc.RequestFulfillment(context.Background(), in())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), first.Request.ID, StatusFulfilled); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := svc.RequestFulfillment(context.Background(), in())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.AlreadyPending {
		t.Error("expected a fresh request once the previous one is settled")
	}
	if len(repo.requests) != 2 {
		t.Errorf("expected 2 requests, got %d", len(repo.requests))
	}
}

func TestRequestFulfillment_ComposedRequirements(t *testing.T) {
	svc, _, _ := newTestService()

	result, err := svc.RequestFulfillment(context.Background(), &RequestInput{
		Encounter:    encounter.InpatientRef("IPD-1"),
		Order:        &treatment.TreatmentOrder{Kind: treatment.KindProcedure, CatalogName: "Basti"},
		Medicines:    []string{"Dashamoola kwatha"},
		Requirements: []string{"Enema can", ""},
		RequestedBy:  "Nurse Devi",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Dashamoola kwatha, Enema can"
	if result.Request.Requirements != want {
		t.Errorf("expected %q, got %q", want, result.Request.Requirements)
	}
}

func TestRequestFulfillment_FallsBackToOrderItems(t *testing.T) {
	svc, _, _ := newTestService()

	result, err := svc.RequestFulfillment(context.Background(), &RequestInput{
		Encounter:   encounter.InpatientRef("IPD-1"),
		Order:       &treatment.TreatmentOrder{CatalogName: "Triphala", SupportingItems: "Warm water"},
		RequestedBy: "Dr. Rao",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Request.Requirements != "Warm water" {
		t.Errorf("expected fallback to order items, got %q", result.Request.Requirements)
	}
}

func TestUpdateStatus_Transitions(t *testing.T) {
	svc, _, _ := newTestService()
	ref := encounter.InpatientRef("IPD-1")

	result, err := svc.RequestFulfillment(context.Background(), &RequestInput{
		Encounter:   ref,
		Order:       &treatment.TreatmentOrder{CatalogName: "Triphala"},
		RequestedBy: "Dr. Rao",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id := result.Request.ID

	if _, err := svc.UpdateStatus(context.Background(), id, StatusPending); !apperr.IsInvalid(err) {
		t.Errorf("expected invalid request for pending target, got %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), id, StatusFulfilled)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != StatusFulfilled {
		t.Errorf("expected fulfilled, got %s", updated.Status)
	}

	// Settled requests are immutable.
	_, err = svc.UpdateStatus(context.Background(), id, StatusCancelled)
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestListRequests_InvalidStatus(t *testing.T) {
	svc, _, _ := newTestService()
	_, _, err := svc.ListRequests(context.Background(), Status("done"), 20, 0)
	if !apperr.IsInvalid(err) {
		t.Errorf("expected invalid request, got %v", err)
	}
}
