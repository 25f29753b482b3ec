package billing

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayurcare/hms/internal/domain/encounter"
	"github.com/ayurcare/hms/internal/domain/treatment"
	"github.com/ayurcare/hms/pkg/apperr"
)

// AdmissionStore loads the stay being billed. Implemented by the
// encounter service.
type AdmissionStore interface {
	GetIPDAdmission(ctx context.Context, ipdNo string) (*encounter.IPDAdmission, error)
}

// OrderSource reads the procedure orders recorded during the stay.
// Implemented by the treatment repository; a nil window spans the whole
// admission.
type OrderSource interface {
	Find(ctx context.Context, ref encounter.Ref, kind treatment.OrderKind, window *encounter.DateWindow) ([]*treatment.TreatmentOrder, error)
}

// RateLookup resolves the per-day charge for a procedure by catalog name.
// Implemented by the catalog service; unknown or unpriced procedures
// resolve to zero.
type RateLookup interface {
	ProcedureRatePaise(ctx context.Context, name string) (int64, error)
}

type Service struct {
	admissions AdmissionStore
	orders     OrderSource
	rates      RateLookup
	cfg        Rates
	log        zerolog.Logger
}

func NewService(admissions AdmissionStore, orders OrderSource, rates RateLookup, cfg Rates, log zerolog.Logger) *Service {
	return &Service{admissions: admissions, orders: orders, rates: rates, cfg: cfg, log: log}
}

// ComputeBill derives the discharge bill for an inpatient stay. Day counts
// are inclusive of both the admission and discharge day and partial days
// round up, so a same-day stay bills one day. Procedures without a catalog
// rate or without both dates contribute zero instead of failing the bill.
func (s *Service) ComputeBill(ctx context.Context, ipdNo string) (*Bill, error) {
	if ipdNo == "" {
		return nil, apperr.Invalid("ipd_no is required")
	}
	adm, err := s.admissions.GetIPDAdmission(ctx, ipdNo)
	if err != nil {
		return nil, err
	}
	if adm.AdmissionDate.IsZero() || adm.DischargeDate == nil {
		return nil, apperr.Invalid("admission and discharge dates are required to compute a bill")
	}
	totalDays := inclusiveDays(adm.AdmissionDate, *adm.DischargeDate)
	if totalDays < 1 {
		return nil, apperr.Invalid("discharge date %s is before admission date %s",
			adm.DischargeDate.Format(time.DateOnly), adm.AdmissionDate.Format(time.DateOnly))
	}

	bedRate := s.cfg.BedNonAC
	if adm.RoomType == encounter.RoomTypeAC {
		bedRate = s.cfg.BedAC
	}

	ref := encounter.InpatientRef(ipdNo)
	procedures, err := s.orders.Find(ctx, ref, treatment.KindProcedure, nil)
	if err != nil {
		return nil, err
	}

	var details []ProcedureCharge
	var procedureTotal int64
	for _, p := range procedures {
		if p.StartDate == nil || p.EndDate == nil {
			continue
		}
		days := inclusiveDays(*p.StartDate, *p.EndDate)
		if days < 1 {
			continue
		}
		rate, err := s.rates.ProcedureRatePaise(ctx, p.CatalogName)
		if err != nil {
			// Per-procedure failures never abort the bill.
			s.log.Warn().Err(err).
				Str("ipd_no", ipdNo).
				Str("procedure", p.CatalogName).
				Msg("rate lookup failed, billing procedure at zero")
			rate = 0
		}
		details = append(details, ProcedureCharge{
			Name:        p.CatalogName,
			Days:        days,
			RatePaise:   rate,
			AmountPaise: days * rate,
		})
		procedureTotal += days * rate
	}

	lines := []BillLineItem{
		{Description: "Bed Charges", UnitCount: totalDays, RatePaise: bedRate, AmountPaise: totalDays * bedRate},
		{Description: "Procedure Charges", UnitCount: int64(len(details)), AmountPaise: procedureTotal},
		{Description: "Diet Charges", UnitCount: totalDays, RatePaise: s.cfg.Diet, AmountPaise: totalDays * s.cfg.Diet},
		{Description: "Doctor Charges", UnitCount: totalDays, RatePaise: s.cfg.Doctor, AmountPaise: totalDays * s.cfg.Doctor},
		{Description: "Nursing Charges", UnitCount: totalDays, RatePaise: s.cfg.Nursing, AmountPaise: totalDays * s.cfg.Nursing},
	}
	var total int64
	for _, l := range lines {
		total += l.AmountPaise
	}

	bill := &Bill{
		Encounter:     ref,
		PatientUHID:   adm.PatientUHID,
		PatientName:   adm.PatientName,
		AdmissionDate: adm.AdmissionDate,
		DischargeDate: *adm.DischargeDate,
		RoomType:      adm.RoomType,
		TotalDays:     totalDays,
		Lines:         lines,
		Procedures:    details,
		TotalPaise:    total,
		DepositPaise:  adm.DepositPaise,
		GeneratedAt:   time.Now().UTC(),
	}
	if adm.DepositPaise > total {
		bill.ReturnablePaise = adm.DepositPaise - total
	} else {
		bill.AdditionalDuePaise = total - adm.DepositPaise
	}
	return bill, nil
}

// inclusiveDays counts calendar days between start and end, both ends
// included. A partial trailing day counts as a whole day. Returns 0 when
// end precedes start.
func inclusiveDays(start, end time.Time) int64 {
	diff := end.Sub(start)
	if diff < 0 {
		return 0
	}
	days := int64(diff / (24 * time.Hour))
	if diff%(24*time.Hour) != 0 {
		days++
	}
	return days + 1
}
