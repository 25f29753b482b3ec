package billing

import (
	"time"

	"github.com/ayurcare/hms/internal/domain/encounter"
)

// BillLineItem is one charge category on a discharge bill. Amounts are in
// paise; AmountPaise = UnitCount * RatePaise except for the aggregated
// procedure line, where the detail rows carry the per-procedure rates.
type BillLineItem struct {
	Description string `json:"description"`
	UnitCount   int64  `json:"unit_count"`
	RatePaise   int64  `json:"rate_paise"`
	AmountPaise int64  `json:"amount_paise"`
}

// ProcedureCharge is the per-procedure detail behind the aggregated
// procedure line item.
type ProcedureCharge struct {
	Name        string `json:"name"`
	Days        int64  `json:"days"`
	RatePaise   int64  `json:"rate_paise"`
	AmountPaise int64  `json:"amount_paise"`
}

// Bill is computed fresh on every request and never persisted.
type Bill struct {
	Encounter          encounter.Ref     `json:"encounter"`
	PatientUHID        string            `json:"patient_uhid"`
	PatientName        string            `json:"patient_name"`
	AdmissionDate      time.Time         `json:"admission_date"`
	DischargeDate      time.Time         `json:"discharge_date"`
	RoomType           string            `json:"room_type"`
	TotalDays          int64             `json:"total_days"`
	Lines              []BillLineItem    `json:"lines"`
	Procedures         []ProcedureCharge `json:"procedures"`
	TotalPaise         int64             `json:"total_paise"`
	DepositPaise       int64             `json:"deposit_paise"`
	ReturnablePaise    int64             `json:"returnable_paise"`
	AdditionalDuePaise int64             `json:"additional_due_paise"`
	GeneratedAt        time.Time         `json:"generated_at"`
}

// Rates carries the flat per-day charges in paise.
type Rates struct {
	BedAC    int64
	BedNonAC int64
	Diet     int64
	Doctor   int64
	Nursing  int64
}
