package treatment

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ayurcare/hms/internal/domain/encounter"
)

// OrderKind separates therapy procedures from internally dispensed medicines.
// The two kinds live in separate tables but share the editing workflow.
type OrderKind string

const (
	KindProcedure  OrderKind = "procedure"
	KindMedication OrderKind = "medication"
)

func (k OrderKind) Valid() bool {
	return k == KindProcedure || k == KindMedication
}

// TreatmentOrder is a single line of a case sheet: one procedure entry or
// one internal medication. A Nil ID marks an order that has not been
// persisted yet. CreatedAt is server-assigned and anchors the order to the
// case sheet day it was recorded under.
type TreatmentOrder struct {
	ID              uuid.UUID     `json:"id"`
	Encounter       encounter.Ref `json:"encounter"`
	Kind            OrderKind     `json:"kind"`
	CatalogName     string        `json:"catalog_name"`
	SupportingItems string        `json:"supporting_items,omitempty"`
	Quantity        *string       `json:"quantity,omitempty"`
	Frequency       *string       `json:"frequency,omitempty"`
	StartDate       *time.Time    `json:"start_date,omitempty"`
	EndDate         *time.Time    `json:"end_date,omitempty"`
	OrderedBy       *string       `json:"ordered_by,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// Blank reports whether the order carries no catalog item. Blank rows come
// from empty form lines and are never persisted, even when they carry an ID.
func (o *TreatmentOrder) Blank() bool {
	return o.CatalogName == ""
}

func (o *TreatmentOrder) validateDates() error {
	if o.StartDate != nil && o.EndDate != nil && o.EndDate.Before(*o.StartDate) {
		return fmt.Errorf("end date precedes start date")
	}
	return nil
}

// Session is one reconciliation pass over an encounter's orders of one kind.
// Items is the full edited state; persisted orders inside the scope window
// that are missing from Items are deleted.
type Session struct {
	Encounter encounter.Ref     `json:"encounter"`
	Kind      OrderKind         `json:"kind"`
	Scope     encounter.Scope   `json:"-"`
	Items     []*TreatmentOrder `json:"items"`
	EditedBy  string            `json:"edited_by"`
}

// ItemFailure records one order that could not be written during a
// reconciliation pass. The rest of the batch is unaffected.
type ItemFailure struct {
	Op          string    `json:"op"`
	OrderID     uuid.UUID `json:"order_id,omitempty"`
	CatalogName string    `json:"catalog_name,omitempty"`
	Reason      string    `json:"reason"`
}

// ReconcileResult summarises a reconciliation pass.
type ReconcileResult struct {
	Inserted int           `json:"inserted"`
	Updated  int           `json:"updated"`
	Deleted  int           `json:"deleted"`
	Failed   []ItemFailure `json:"failed,omitempty"`
}

// Partial reports whether any item in the batch failed. Callers treat a
// partial result as a warning, not an error: re-running the session
// converges on the edited state.
func (r *ReconcileResult) Partial() bool {
	return len(r.Failed) > 0
}
