package fulfillment

import (
	"context"

	"github.com/google/uuid"

	"github.com/ayurcare/hms/internal/domain/encounter"
	"github.com/ayurcare/hms/internal/domain/treatment"
)

// Repository persists fulfillment requests.
type Repository interface {
	Insert(ctx context.Context, r *Request) error
	Get(ctx context.Context, id uuid.UUID) (*Request, error)
	// FindPending returns the pending request for an order within an
	// encounter, or nil when there is none.
	FindPending(ctx context.Context, ref encounter.Ref, orderID uuid.UUID) (*Request, error)
	List(ctx context.Context, status Status, limit, offset int) ([]*Request, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	// DeleteRequestsForOrder satisfies treatment.RequestCleaner.
	DeleteRequestsForOrder(ctx context.Context, orderID uuid.UUID) error
}

// OrderStore reuses or creates the treatment order backing a request.
// Implemented by the treatment service.
type OrderStore interface {
	FindOrCreate(ctx context.Context, o *treatment.TreatmentOrder) (*treatment.TreatmentOrder, error)
}
