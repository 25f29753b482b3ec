package fulfillment

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ayurcare/hms/internal/domain/encounter"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusFulfilled Status = "fulfilled"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusFulfilled || s == StatusCancelled
}

// Request asks the pharmacy or store to dispense supplies for a treatment
// order. At most one pending request exists per (encounter, order).
type Request struct {
	ID           uuid.UUID     `db:"id" json:"id"`
	Encounter    encounter.Ref `db:"-" json:"encounter"`
	OrderID      *uuid.UUID    `db:"order_id" json:"order_id,omitempty"`
	Requirements string        `db:"requirements" json:"requirements"`
	Quantity     *string       `db:"quantity" json:"quantity,omitempty"`
	RequestedBy  string        `db:"requested_by" json:"requested_by"`
	Status       Status        `db:"status" json:"status"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
}

// RequestResult reports the outcome of a fulfillment request. AlreadyPending
// marks the benign duplicate case: the existing request is returned and
// nothing new is created.
type RequestResult struct {
	Request        *Request `json:"request"`
	AlreadyPending bool     `json:"already_pending"`
}

// ComposeRequirements flattens the medicine and requirement lists of a
// treatment into the single dispatch string the store works from. Empty
// segments are dropped.
func ComposeRequirements(groups ...[]string) string {
	var parts []string
	for _, group := range groups {
		for _, seg := range group {
			seg = strings.TrimSpace(seg)
			if seg != "" {
				parts = append(parts, seg)
			}
		}
	}
	return strings.Join(parts, ", ")
}
