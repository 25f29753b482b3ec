package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Procedure is a catalog entry for a therapy offered by the hospital.
// ChargesPerDayPaise is nil for procedures without a published tariff;
// billing treats those as zero-rated.
type Procedure struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	Name               string    `db:"name" json:"name"`
	ChargesPerDayPaise *int64    `db:"charges_per_day_paise" json:"charges_per_day_paise,omitempty"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// Medication is a catalog entry for an internally dispensed medicine.
type Medication struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
