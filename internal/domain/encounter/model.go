package encounter

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind discriminates outpatient visits from inpatient admissions.
type Kind string

const (
	KindOutpatient Kind = "outpatient"
	KindInpatient  Kind = "inpatient"
)

// Ref identifies the encounter a clinical record belongs to. Exactly one of
// OPDNo and IPDNo is set.
type Ref struct {
	OPDNo string `json:"opd_no,omitempty"`
	IPDNo string `json:"ipd_no,omitempty"`
}

func OutpatientRef(opdNo string) Ref {
	return Ref{OPDNo: opdNo}
}

func InpatientRef(ipdNo string) Ref {
	return Ref{IPDNo: ipdNo}
}

func (r Ref) Kind() Kind {
	if r.IPDNo != "" {
		return KindInpatient
	}
	return KindOutpatient
}

func (r Ref) Validate() error {
	if r.OPDNo == "" && r.IPDNo == "" {
		return fmt.Errorf("encounter reference requires opd_no or ipd_no")
	}
	if r.OPDNo != "" && r.IPDNo != "" {
		return fmt.Errorf("encounter reference must not carry both opd_no and ipd_no")
	}
	return nil
}

func (r Ref) String() string {
	if r.IPDNo != "" {
		return "ipd:" + r.IPDNo
	}
	return "opd:" + r.OPDNo
}

// DateWindow is a closed timestamp range used to scope record lookups.
type DateWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (w DateWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Scope bounds which persisted records an editing session sees. A nil Window
// means the session is unscoped and no persisted records are visible.
type Scope struct {
	Window *DateWindow
}

// OPDVisit is an outpatient consultation record. Its creation timestamp
// anchors the scope window for case sheet edits made the same day.
type OPDVisit struct {
	ID          uuid.UUID `db:"id" json:"id"`
	OPDNo       string    `db:"opd_no" json:"opd_no"`
	PatientUHID string    `db:"patient_uhid" json:"patient_uhid"`
	PatientName string    `db:"patient_name" json:"patient_name"`
	DoctorName  *string   `db:"doctor_name" json:"doctor_name,omitempty"`
	VisitDate   time.Time `db:"visit_date" json:"visit_date"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Room types recognised by the billing tariff.
const (
	RoomTypeAC    = "AC"
	RoomTypeNonAC = "Non-AC"
)

// IPDAdmission is an inpatient admission record. Admission and discharge
// dates drive the discharge bill; the deposit is settled against the total.
type IPDAdmission struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	IPDNo         string     `db:"ipd_no" json:"ipd_no"`
	PatientUHID   string     `db:"patient_uhid" json:"patient_uhid"`
	PatientName   string     `db:"patient_name" json:"patient_name"`
	AdmissionDate time.Time  `db:"admission_date" json:"admission_date"`
	DischargeDate *time.Time `db:"discharge_date" json:"discharge_date,omitempty"`
	RoomType      string     `db:"room_type" json:"room_type"`
	DepositPaise  int64      `db:"deposit_paise" json:"deposit_paise"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}
