package encounter

import (
	"context"
	"time"

	"github.com/ayurcare/hms/pkg/apperr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateOPDVisit(ctx context.Context, v *OPDVisit) error {
	if v.OPDNo == "" {
		return apperr.Invalid("opd_no is required")
	}
	if v.PatientUHID == "" {
		return apperr.Invalid("patient_uhid is required")
	}
	if v.VisitDate.IsZero() {
		v.VisitDate = time.Now().UTC()
	}
	return s.repo.CreateOPDVisit(ctx, v)
}

func (s *Service) GetOPDVisit(ctx context.Context, opdNo string) (*OPDVisit, error) {
	return s.repo.GetOPDVisit(ctx, opdNo)
}

func (s *Service) ListOPDVisits(ctx context.Context, limit, offset int) ([]*OPDVisit, int, error) {
	return s.repo.ListOPDVisits(ctx, limit, offset)
}

func (s *Service) CreateIPDAdmission(ctx context.Context, a *IPDAdmission) error {
	if a.IPDNo == "" {
		return apperr.Invalid("ipd_no is required")
	}
	if a.PatientUHID == "" {
		return apperr.Invalid("patient_uhid is required")
	}
	if a.AdmissionDate.IsZero() {
		return apperr.Invalid("admission_date is required")
	}
	if a.RoomType == "" {
		a.RoomType = RoomTypeNonAC
	}
	if a.RoomType != RoomTypeAC && a.RoomType != RoomTypeNonAC {
		return apperr.Invalid("room_type must be %q or %q", RoomTypeAC, RoomTypeNonAC)
	}
	if a.DepositPaise < 0 {
		return apperr.Invalid("deposit must not be negative")
	}
	return s.repo.CreateIPDAdmission(ctx, a)
}

func (s *Service) GetIPDAdmission(ctx context.Context, ipdNo string) (*IPDAdmission, error) {
	return s.repo.GetIPDAdmission(ctx, ipdNo)
}

func (s *Service) ListIPDAdmissions(ctx context.Context, limit, offset int) ([]*IPDAdmission, int, error) {
	return s.repo.ListIPDAdmissions(ctx, limit, offset)
}

// Discharge stamps the discharge date on an admission. The date is left
// editable until billing, so re-discharging just overwrites it.
func (s *Service) Discharge(ctx context.Context, ipdNo string, date time.Time) (*IPDAdmission, error) {
	a, err := s.repo.GetIPDAdmission(ctx, ipdNo)
	if err != nil {
		return nil, err
	}
	if date.IsZero() {
		return nil, apperr.Invalid("discharge date is required")
	}
	if date.Before(a.AdmissionDate) {
		return nil, apperr.Invalid("discharge date precedes admission date")
	}
	a.DischargeDate = &date
	if err := s.repo.UpdateIPDAdmission(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ScopeFor resolves the editing scope for an encounter from its parent
// record's creation timestamp. An encounter with no parent record yields an
// unscoped session so that every local item is treated as new.
func (s *Service) ScopeFor(ctx context.Context, ref Ref) (Scope, error) {
	if err := ref.Validate(); err != nil {
		return Scope{}, apperr.Invalid("%v", err)
	}

	var anchor *time.Time
	switch ref.Kind() {
	case KindOutpatient:
		v, err := s.repo.GetOPDVisit(ctx, ref.OPDNo)
		if err != nil {
			if apperr.IsNotFound(err) {
				return ResolveScope(nil), nil
			}
			return Scope{}, err
		}
		anchor = &v.CreatedAt
	case KindInpatient:
		a, err := s.repo.GetIPDAdmission(ctx, ref.IPDNo)
		if err != nil {
			if apperr.IsNotFound(err) {
				return ResolveScope(nil), nil
			}
			return Scope{}, err
		}
		anchor = &a.CreatedAt
	}
	return ResolveScope(anchor), nil
}
