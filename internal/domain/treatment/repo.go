package treatment

import (
	"context"

	"github.com/google/uuid"

	"github.com/ayurcare/hms/internal/domain/encounter"
)

// Repository persists treatment orders. Find honours the scope window when
// one is given; a nil window returns every order for the encounter.
type Repository interface {
	Find(ctx context.Context, ref encounter.Ref, kind OrderKind, window *encounter.DateWindow) ([]*TreatmentOrder, error)
	Insert(ctx context.Context, o *TreatmentOrder) error
	Update(ctx context.Context, o *TreatmentOrder) error
	Delete(ctx context.Context, kind OrderKind, id uuid.UUID) error

	// FindMatching locates an order by its clinical identity, used to avoid
	// duplicating a medication order when fulfillment is requested twice.
	// Returns nil when no order matches.
	FindMatching(ctx context.Context, ref encounter.Ref, kind OrderKind, catalogName string, quantity, frequency *string) (*TreatmentOrder, error)
}

// RequestCleaner removes fulfillment requests that reference an order about
// to be deleted. Implemented by the fulfillment repository and wired in at
// startup to keep the packages decoupled.
type RequestCleaner interface {
	DeleteRequestsForOrder(ctx context.Context, orderID uuid.UUID) error
}

// ScopeResolver derives the editing scope for an encounter. Implemented by
// the encounter service.
type ScopeResolver interface {
	ScopeFor(ctx context.Context, ref encounter.Ref) (encounter.Scope, error)
}
