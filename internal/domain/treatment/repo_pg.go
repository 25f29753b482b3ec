package treatment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayurcare/hms/internal/domain/encounter"
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

// Procedure entries and internal medications live in separate tables with
// per-kind column names. The repository maps both onto TreatmentOrder.
func tableFor(kind OrderKind) (table, nameCol, itemsCol, qtyCol, byCol string) {
	if kind == KindMedication {
		return "internal_medications", "medication_name", "notes", "dosage", "prescribed_by"
	}
	return "procedure_entries", "procedure_name", "requirements", "quantity", "therapist"
}

func refWhere(ref encounter.Ref) (col, val string) {
	if ref.Kind() == encounter.KindInpatient {
		return "ipd_no", ref.IPDNo
	}
	return "opd_no", ref.OPDNo
}

func selectCols(kind OrderKind) string {
	_, nameCol, itemsCol, qtyCol, byCol := tableFor(kind)
	return fmt.Sprintf(`id, opd_no, ipd_no, %s, COALESCE(%s, ''), %s, frequency, start_date, end_date, %s, created_at`,
		nameCol, itemsCol, qtyCol, byCol)
}

func (r *repoPG) Find(ctx context.Context, ref encounter.Ref, kind OrderKind, window *encounter.DateWindow) ([]*TreatmentOrder, error) {
	table, _, _, _, _ := tableFor(kind)
	refCol, refVal := refWhere(ref)

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectCols(kind), table, refCol)
	args := []interface{}{refVal}
	if window != nil {
		query += ` AND created_at >= $2 AND created_at <= $3`
		args = append(args, window.Start, window.End)
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Unavailable("find treatment orders", err)
	}
	defer rows.Close()

	var orders []*TreatmentOrder
	for rows.Next() {
		o, err := scanOrder(rows, kind)
		if err != nil {
			return nil, apperr.Unavailable("scan treatment order", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Unavailable("iterate treatment orders", err)
	}
	return orders, nil
}

func (r *repoPG) Insert(ctx context.Context, o *TreatmentOrder) error {
	table, nameCol, itemsCol, qtyCol, byCol := tableFor(o.Kind)
	o.ID = uuid.New()

	query := fmt.Sprintf(`
		INSERT INTO %s (id, opd_no, ipd_no, %s, %s, %s, frequency, start_date, end_date, %s)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at`,
		table, nameCol, itemsCol, qtyCol, byCol)

	err := r.conn(ctx).QueryRow(ctx, query,
		o.ID, nullable(o.Encounter.OPDNo), nullable(o.Encounter.IPDNo),
		o.CatalogName, o.SupportingItems, o.Quantity, o.Frequency,
		o.StartDate, o.EndDate, o.OrderedBy,
	).Scan(&o.CreatedAt)
	if err != nil {
		return apperr.Unavailable("insert treatment order", err)
	}
	return nil
}

func (r *repoPG) Update(ctx context.Context, o *TreatmentOrder) error {
	table, nameCol, itemsCol, qtyCol, byCol := tableFor(o.Kind)

	query := fmt.Sprintf(`
		UPDATE %s SET %s=$2, %s=$3, %s=$4, frequency=$5, start_date=$6, end_date=$7, %s=$8
		WHERE id = $1`,
		table, nameCol, itemsCol, qtyCol, byCol)

	tag, err := r.conn(ctx).Exec(ctx, query,
		o.ID, o.CatalogName, o.SupportingItems, o.Quantity, o.Frequency,
		o.StartDate, o.EndDate, o.OrderedBy,
	)
	if err != nil {
		return apperr.Unavailable("update treatment order", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("treatment order %s", o.ID)
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, kind OrderKind, id uuid.UUID) error {
	table, _, _, _, _ := tableFor(kind)
	_, err := r.conn(ctx).Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return apperr.Unavailable("delete treatment order", err)
	}
	return nil
}

func (r *repoPG) FindMatching(ctx context.Context, ref encounter.Ref, kind OrderKind, catalogName string, quantity, frequency *string) (*TreatmentOrder, error) {
	table, nameCol, _, qtyCol, _ := tableFor(kind)
	refCol, refVal := refWhere(ref)

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = $1 AND %s = $2
		AND %s IS NOT DISTINCT FROM $3 AND frequency IS NOT DISTINCT FROM $4
		ORDER BY created_at DESC LIMIT 1`,
		selectCols(kind), table, refCol, nameCol, qtyCol)

	row := r.conn(ctx).QueryRow(ctx, query, refVal, catalogName, quantity, frequency)
	o, err := scanOrder(row, kind)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Unavailable("find matching treatment order", err)
	}
	return o, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func scanOrder(row pgx.Row, kind OrderKind) (*TreatmentOrder, error) {
	var o TreatmentOrder
	var opdNo, ipdNo *string
	err := row.Scan(&o.ID, &opdNo, &ipdNo, &o.CatalogName, &o.SupportingItems,
		&o.Quantity, &o.Frequency, &o.StartDate, &o.EndDate, &o.OrderedBy, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	o.Kind = kind
	if opdNo != nil {
		o.Encounter.OPDNo = *opdNo
	}
	if ipdNo != nil {
		o.Encounter.IPDNo = *ipdNo
	}
	return &o, nil
}
