package catalog

import "context"

// Repository persists the procedure and medication catalogs.
type Repository interface {
	CreateProcedure(ctx context.Context, p *Procedure) error
	GetProcedureByName(ctx context.Context, name string) (*Procedure, error)
	SearchProcedures(ctx context.Context, q string, limit, offset int) ([]*Procedure, int, error)

	CreateMedication(ctx context.Context, m *Medication) error
	SearchMedications(ctx context.Context, q string, limit, offset int) ([]*Medication, int, error)
}
