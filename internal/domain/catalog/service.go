package catalog

import (
	"context"

	"github.com/ayurcare/hms/pkg/apperr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateProcedure(ctx context.Context, p *Procedure) error {
	if p.Name == "" {
		return apperr.Invalid("name is required")
	}
	if p.ChargesPerDayPaise != nil && *p.ChargesPerDayPaise < 0 {
		return apperr.Invalid("charges_per_day must not be negative")
	}
	return s.repo.CreateProcedure(ctx, p)
}

func (s *Service) CreateMedication(ctx context.Context, m *Medication) error {
	if m.Name == "" {
		return apperr.Invalid("name is required")
	}
	return s.repo.CreateMedication(ctx, m)
}

func (s *Service) SearchProcedures(ctx context.Context, q string, limit, offset int) ([]*Procedure, int, error) {
	return s.repo.SearchProcedures(ctx, q, limit, offset)
}

func (s *Service) SearchMedications(ctx context.Context, q string, limit, offset int) ([]*Medication, int, error) {
	return s.repo.SearchMedications(ctx, q, limit, offset)
}

// ProcedureRatePaise returns the daily tariff for a named procedure. A
// procedure missing from the catalog, or listed without a tariff, yields
// zero so that billing can still close the account.
func (s *Service) ProcedureRatePaise(ctx context.Context, name string) (int64, error) {
	p, err := s.repo.GetProcedureByName(ctx, name)
	if err != nil {
		if apperr.IsNotFound(err) {
			return 0, nil
		}
		return 0, err
	}
	if p.ChargesPerDayPaise == nil {
		return 0, nil
	}
	return *p.ChargesPerDayPaise, nil
}
