package fulfillment

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ayurcare/hms/internal/domain/encounter"
	"github.com/ayurcare/hms/internal/domain/treatment"
	"github.com/ayurcare/hms/pkg/apperr"
)

type Service struct {
	repo   Repository
	orders OrderStore
	log    zerolog.Logger
}

func NewService(repo Repository, orders OrderStore, log zerolog.Logger) *Service {
	return &Service{repo: repo, orders: orders, log: log}
}

// RequestInput describes one dispensing request. Order may be unsaved; a
// matching persisted order is reused before a new one is created.
type RequestInput struct {
	Encounter    encounter.Ref            `json:"encounter"`
	Order        *treatment.TreatmentOrder `json:"order"`
	Medicines    []string                 `json:"medicines,omitempty"`
	Requirements []string                 `json:"requirements,omitempty"`
	Quantity     *string                  `json:"quantity,omitempty"`
	RequestedBy  string                   `json:"requested_by"`
}

// RequestFulfillment asks the store to dispense for a treatment order.
// Requesting the same order again while a request is still pending is a
// no-op that returns the existing request flagged AlreadyPending.
//
// The order insert in step one is not rolled back if the request insert
// fails; the next attempt reuses the order.
func (s *Service) RequestFulfillment(ctx context.Context, in *RequestInput) (*RequestResult, error) {
	if in.RequestedBy == "" {
		return nil, apperr.Invalid("requested_by is required")
	}
	if err := in.Encounter.Validate(); err != nil {
		return nil, apperr.Invalid("%v", err)
	}
	if in.Order == nil || in.Order.Blank() {
		return nil, apperr.Invalid("order with catalog_name is required")
	}

	order := in.Order
	order.Encounter = in.Encounter
	if !order.Kind.Valid() {
		order.Kind = treatment.KindMedication
	}
	if order.ID == uuid.Nil {
		resolved, err := s.orders.FindOrCreate(ctx, order)
		if err != nil {
			return nil, err
		}
		order = resolved
	}

	existing, err := s.repo.FindPending(ctx, in.Encounter, order.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.log.Info().
			Str("encounter", in.Encounter.String()).
			Str("order_id", order.ID.String()).
			Msg("fulfillment request already pending")
		return &RequestResult{Request: existing, AlreadyPending: true}, nil
	}

	requirements := ComposeRequirements(in.Medicines, in.Requirements)
	if requirements == "" {
		requirements = order.SupportingItems
	}

	req := &Request{
		Encounter:    in.Encounter,
		OrderID:      &order.ID,
		Requirements: requirements,
		Quantity:     in.Quantity,
		RequestedBy:  in.RequestedBy,
		Status:       StatusPending,
	}
	if err := s.repo.Insert(ctx, req); err != nil {
		return nil, err
	}
	return &RequestResult{Request: req}, nil
}

// ListRequests returns the dispensing queue for one status.
func (s *Service) ListRequests(ctx context.Context, status Status, limit, offset int) ([]*Request, int, error) {
	if !status.Valid() {
		return nil, 0, apperr.Invalid("status must be pending, fulfilled or cancelled")
	}
	return s.repo.List(ctx, status, limit, offset)
}

// UpdateStatus moves a pending request to fulfilled or cancelled. Settled
// requests are immutable.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Request, error) {
	if status != StatusFulfilled && status != StatusCancelled {
		return nil, apperr.Invalid("status must be fulfilled or cancelled")
	}
	req, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != StatusPending {
		return nil, apperr.Conflict("request %s is already %s", id, req.Status)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	req.Status = status
	return req, nil
}
