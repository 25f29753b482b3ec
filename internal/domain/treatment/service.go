package treatment

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ayurcare/hms/internal/domain/encounter"
	"github.com/ayurcare/hms/pkg/apperr"
)

type Service struct {
	repo    Repository
	scopes  ScopeResolver
	cleaner RequestCleaner
	log     zerolog.Logger
}

func NewService(repo Repository, scopes ScopeResolver, log zerolog.Logger) *Service {
	return &Service{repo: repo, scopes: scopes, log: log}
}

// SetRequestCleaner attaches the fulfillment-side cleanup used when a
// procedure order is deleted. Wired at startup.
func (s *Service) SetRequestCleaner(c RequestCleaner) {
	s.cleaner = c
}

// NewSession resolves the editing scope for an encounter and returns a
// session ready for Reconcile.
func (s *Service) NewSession(ctx context.Context, ref encounter.Ref, kind OrderKind, editedBy string) (*Session, error) {
	if err := ref.Validate(); err != nil {
		return nil, apperr.Invalid("%v", err)
	}
	if !kind.Valid() {
		return nil, apperr.Invalid("kind must be %q or %q", KindProcedure, KindMedication)
	}
	scope, err := s.scopes.ScopeFor(ctx, ref)
	if err != nil {
		return nil, err
	}
	return &Session{Encounter: ref, Kind: kind, Scope: scope, EditedBy: editedBy}, nil
}

// Reconcile makes the store match the session's edited item list. Items
// without an ID are inserted, items with an ID are updated, and persisted
// orders inside the scope window that are absent from the list are deleted.
// Blank items are skipped. Each write is isolated: a failure is recorded in
// the result and the pass moves on, so re-running the same session converges.
func (s *Service) Reconcile(ctx context.Context, session *Session) (*ReconcileResult, error) {
	if err := session.Encounter.Validate(); err != nil {
		return nil, apperr.Invalid("%v", err)
	}
	if !session.Kind.Valid() {
		return nil, apperr.Invalid("kind must be %q or %q", KindProcedure, KindMedication)
	}
	for _, item := range session.Items {
		if item.Blank() {
			continue
		}
		if err := item.validateDates(); err != nil {
			return nil, apperr.Invalid("%s: %v", item.CatalogName, err)
		}
	}

	// An unscoped session sees no persisted records: everything local is an
	// insert and nothing is deleted.
	var persisted []*TreatmentOrder
	if session.Scope.Window != nil {
		var err error
		persisted, err = s.repo.Find(ctx, session.Encounter, session.Kind, session.Scope.Window)
		if err != nil {
			return nil, err
		}
	}

	var inserts, updates []*TreatmentOrder
	localByID := make(map[uuid.UUID]bool)
	for _, item := range session.Items {
		if item.Blank() {
			continue
		}
		item.Encounter = session.Encounter
		item.Kind = session.Kind
		if item.ID == uuid.Nil {
			inserts = append(inserts, item)
		} else {
			localByID[item.ID] = true
			updates = append(updates, item)
		}
	}

	var deletes []*TreatmentOrder
	for _, p := range persisted {
		if !localByID[p.ID] {
			deletes = append(deletes, p)
		}
	}

	result := &ReconcileResult{}

	for _, item := range inserts {
		if err := s.repo.Insert(ctx, item); err != nil {
			s.log.Warn().Err(err).
				Str("encounter", session.Encounter.String()).
				Str("catalog_name", item.CatalogName).
				Msg("treatment order insert failed")
			result.Failed = append(result.Failed, ItemFailure{
				Op: "insert", CatalogName: item.CatalogName, Reason: err.Error(),
			})
			continue
		}
		result.Inserted++
	}

	for _, item := range updates {
		if err := s.repo.Update(ctx, item); err != nil {
			s.log.Warn().Err(err).
				Str("encounter", session.Encounter.String()).
				Str("order_id", item.ID.String()).
				Msg("treatment order update failed")
			result.Failed = append(result.Failed, ItemFailure{
				Op: "update", OrderID: item.ID, CatalogName: item.CatalogName, Reason: err.Error(),
			})
			continue
		}
		result.Updated++
	}

	for _, p := range deletes {
		// Fulfillment requests referencing the order must go first so no
		// request is left pointing at a missing order.
		if s.cleaner != nil {
			if err := s.cleaner.DeleteRequestsForOrder(ctx, p.ID); err != nil {
				s.log.Warn().Err(err).
					Str("order_id", p.ID.String()).
					Msg("fulfillment request cleanup failed, keeping order")
				result.Failed = append(result.Failed, ItemFailure{
					Op: "delete", OrderID: p.ID, CatalogName: p.CatalogName, Reason: err.Error(),
				})
				continue
			}
		}
		if err := s.repo.Delete(ctx, session.Kind, p.ID); err != nil {
			s.log.Warn().Err(err).
				Str("order_id", p.ID.String()).
				Msg("treatment order delete failed")
			result.Failed = append(result.Failed, ItemFailure{
				Op: "delete", OrderID: p.ID, CatalogName: p.CatalogName, Reason: err.Error(),
			})
			continue
		}
		result.Deleted++
	}

	return result, nil
}

// ListOrders returns the persisted orders visible to an editing session for
// the encounter.
func (s *Service) ListOrders(ctx context.Context, ref encounter.Ref, kind OrderKind) ([]*TreatmentOrder, error) {
	if err := ref.Validate(); err != nil {
		return nil, apperr.Invalid("%v", err)
	}
	if !kind.Valid() {
		return nil, apperr.Invalid("kind must be %q or %q", KindProcedure, KindMedication)
	}
	scope, err := s.scopes.ScopeFor(ctx, ref)
	if err != nil {
		return nil, err
	}
	if scope.Window == nil {
		return nil, nil
	}
	return s.repo.Find(ctx, ref, kind, scope.Window)
}

// FindOrCreate reuses an order matching the given one's clinical identity
// or inserts it. Used by fulfillment so that requesting the same medicine
// twice does not duplicate the order.
func (s *Service) FindOrCreate(ctx context.Context, o *TreatmentOrder) (*TreatmentOrder, error) {
	if err := o.Encounter.Validate(); err != nil {
		return nil, apperr.Invalid("%v", err)
	}
	if o.Blank() {
		return nil, apperr.Invalid("catalog_name is required")
	}
	existing, err := s.repo.FindMatching(ctx, o.Encounter, o.Kind, o.CatalogName, o.Quantity, o.Frequency)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	if err := s.repo.Insert(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}
