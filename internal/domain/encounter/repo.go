package encounter

import (
	"context"
)

// Repository persists outpatient visits and inpatient admissions.
type Repository interface {
	CreateOPDVisit(ctx context.Context, v *OPDVisit) error
	GetOPDVisit(ctx context.Context, opdNo string) (*OPDVisit, error)
	ListOPDVisits(ctx context.Context, limit, offset int) ([]*OPDVisit, int, error)

	CreateIPDAdmission(ctx context.Context, a *IPDAdmission) error
	GetIPDAdmission(ctx context.Context, ipdNo string) (*IPDAdmission, error)
	ListIPDAdmissions(ctx context.Context, limit, offset int) ([]*IPDAdmission, int, error)
	UpdateIPDAdmission(ctx context.Context, a *IPDAdmission) error
}
