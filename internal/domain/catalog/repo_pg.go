package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayurcare/hms/internal/platform/db"
	"github.com/ayurcare/hms/pkg/apperr"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *repoPG) CreateProcedure(ctx context.Context, p *Procedure) error {
	p.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO procedures (id, name, charges_per_day_paise)
		VALUES ($1,$2,$3)
		RETURNING created_at`,
		p.ID, p.Name, p.ChargesPerDayPaise,
	).Scan(&p.CreatedAt)
	if err != nil {
		return apperr.Unavailable("insert procedure", err)
	}
	return nil
}

func (r *repoPG) GetProcedureByName(ctx context.Context, name string) (*Procedure, error) {
	var p Procedure
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, name, charges_per_day_paise, created_at
		FROM procedures WHERE name = $1`, name,
	).Scan(&p.ID, &p.Name, &p.ChargesPerDayPaise, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("procedure %s", name)
	}
	if err != nil {
		return nil, apperr.Unavailable("get procedure", err)
	}
	return &p, nil
}

func (r *repoPG) SearchProcedures(ctx context.Context, q string, limit, offset int) ([]*Procedure, int, error) {
	pattern := "%" + q + "%"
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM procedures WHERE name ILIKE $1`, pattern).Scan(&total); err != nil {
		return nil, 0, apperr.Unavailable("count procedures", err)
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, name, charges_per_day_paise, created_at
		FROM procedures WHERE name ILIKE $1
		ORDER BY name LIMIT $2 OFFSET $3`, pattern, limit, offset)
	if err != nil {
		return nil, 0, apperr.Unavailable("search procedures", err)
	}
	defer rows.Close()

	var procedures []*Procedure
	for rows.Next() {
		var p Procedure
		if err := rows.Scan(&p.ID, &p.Name, &p.ChargesPerDayPaise, &p.CreatedAt); err != nil {
			return nil, 0, apperr.Unavailable("scan procedure", err)
		}
		procedures = append(procedures, &p)
	}
	return procedures, total, nil
}

func (r *repoPG) CreateMedication(ctx context.Context, m *Medication) error {
	m.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO medications (id, name)
		VALUES ($1,$2)
		RETURNING created_at`,
		m.ID, m.Name,
	).Scan(&m.CreatedAt)
	if err != nil {
		return apperr.Unavailable("insert medication", err)
	}
	return nil
}

func (r *repoPG) SearchMedications(ctx context.Context, q string, limit, offset int) ([]*Medication, int, error) {
	pattern := "%" + q + "%"
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM medications WHERE name ILIKE $1`, pattern).Scan(&total); err != nil {
		return nil, 0, apperr.Unavailable("count medications", err)
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, name, created_at
		FROM medications WHERE name ILIKE $1
		ORDER BY name LIMIT $2 OFFSET $3`, pattern, limit, offset)
	if err != nil {
		return nil, 0, apperr.Unavailable("search medications", err)
	}
	defer rows.Close()

	var medications []*Medication
	for rows.Next() {
		var m Medication
		if err := rows.Scan(&m.ID, &m.Name, &m.CreatedAt); err != nil {
			return nil, 0, apperr.Unavailable("scan medication", err)
		}
		medications = append(medications, &m)
	}
	return medications, total, nil
}
