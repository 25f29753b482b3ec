package fulfillment

import (
	"context"
	"errors"

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

const reqCols = `id, opd_no, ipd_no, order_id, requirements, quantity, requested_by, status, created_at`

func (r *repoPG) Insert(ctx context.Context, req *Request) error {
	req.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO medication_dispense_requests
			(id, opd_no, ipd_no, order_id, requirements, quantity, requested_by, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at`,
		req.ID, nullable(req.Encounter.OPDNo), nullable(req.Encounter.IPDNo),
		req.OrderID, req.Requirements, req.Quantity, req.RequestedBy, req.Status,
	).Scan(&req.CreatedAt)
	if err != nil {
		return apperr.Unavailable("insert fulfillment request", err)
	}
	return nil
}

func (r *repoPG) Get(ctx context.Context, id uuid.UUID) (*Request, error) {
	row := r.conn(ctx).QueryRow(ctx,
		`SELECT `+reqCols+` FROM medication_dispense_requests WHERE id = $1`, id)
	req, err := scanRequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("fulfillment request %s", id)
	}
	if err != nil {
		return nil, apperr.Unavailable("get fulfillment request", err)
	}
	return req, nil
}

func (r *repoPG) FindPending(ctx context.Context, ref encounter.Ref, orderID uuid.UUID) (*Request, error) {
	refCol := "opd_no"
	refVal := ref.OPDNo
	if ref.Kind() == encounter.KindInpatient {
		refCol = "ipd_no"
		refVal = ref.IPDNo
	}
	row := r.conn(ctx).QueryRow(ctx, `
		SELECT `+reqCols+` FROM medication_dispense_requests
		WHERE `+refCol+` = $1 AND order_id = $2 AND status = $3
		ORDER BY created_at LIMIT 1`,
		refVal, orderID, StatusPending)
	req, err := scanRequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Unavailable("find pending fulfillment request", err)
	}
	return req, nil
}

func (r *repoPG) List(ctx context.Context, status Status, limit, offset int) ([]*Request, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM medication_dispense_requests WHERE status = $1`, status).Scan(&total); err != nil {
		return nil, 0, apperr.Unavailable("count fulfillment requests", err)
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+reqCols+` FROM medication_dispense_requests
		WHERE status = $1 ORDER BY created_at LIMIT $2 OFFSET $3`,
		status, limit, offset)
	if err != nil {
		return nil, 0, apperr.Unavailable("list fulfillment requests", err)
	}
	defer rows.Close()

	var requests []*Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, 0, apperr.Unavailable("scan fulfillment request", err)
		}
		requests = append(requests, req)
	}
	return requests, total, nil
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE medication_dispense_requests SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return apperr.Unavailable("update fulfillment request status", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("fulfillment request %s", id)
	}
	return nil
}

func (r *repoPG) DeleteRequestsForOrder(ctx context.Context, orderID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM medication_dispense_requests WHERE order_id = $1`, orderID)
	if err != nil {
		return apperr.Unavailable("delete fulfillment requests for order", err)
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func scanRequest(row pgx.Row) (*Request, error) {
	var req Request
	var opdNo, ipdNo *string
	err := row.Scan(&req.ID, &opdNo, &ipdNo, &req.OrderID, &req.Requirements,
		&req.Quantity, &req.RequestedBy, &req.Status, &req.CreatedAt)
	if err != nil {
		return nil, err
	}
	if opdNo != nil {
		req.Encounter.OPDNo = *opdNo
	}
	if ipdNo != nil {
		req.Encounter.IPDNo = *ipdNo
	}
	return &req, nil
}
