package encounter

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

const opdCols = `id, opd_no, patient_uhid, patient_name, doctor_name, visit_date, created_at`

func (r *repoPG) CreateOPDVisit(ctx context.Context, v *OPDVisit) error {
	v.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO opd_visits (id, opd_no, patient_uhid, patient_name, doctor_name, visit_date)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at`,
		v.ID, v.OPDNo, v.PatientUHID, v.PatientName, v.DoctorName, v.VisitDate,
	).Scan(&v.CreatedAt)
	if err != nil {
		return apperr.Unavailable("insert opd visit", err)
	}
	return nil
}

func (r *repoPG) GetOPDVisit(ctx context.Context, opdNo string) (*OPDVisit, error) {
	row := r.conn(ctx).QueryRow(ctx, `SELECT `+opdCols+` FROM opd_visits WHERE opd_no = $1`, opdNo)
	v, err := scanOPDVisit(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("opd visit %s", opdNo)
	}
	if err != nil {
		return nil, apperr.Unavailable("get opd visit", err)
	}
	return v, nil
}

func (r *repoPG) ListOPDVisits(ctx context.Context, limit, offset int) ([]*OPDVisit, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM opd_visits`).Scan(&total); err != nil {
		return nil, 0, apperr.Unavailable("count opd visits", err)
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+opdCols+` FROM opd_visits ORDER BY visit_date DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, apperr.Unavailable("list opd visits", err)
	}
	defer rows.Close()

	var visits []*OPDVisit
	for rows.Next() {
		v, err := scanOPDVisit(rows)
		if err != nil {
			return nil, 0, apperr.Unavailable("scan opd visit", err)
		}
		visits = append(visits, v)
	}
	return visits, total, nil
}

const ipdCols = `id, ipd_no, patient_uhid, patient_name, admission_date, discharge_date,
	room_type, deposit_paise, created_at`

func (r *repoPG) CreateIPDAdmission(ctx context.Context, a *IPDAdmission) error {
	a.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO ipd_admissions (id, ipd_no, patient_uhid, patient_name, admission_date,
			discharge_date, room_type, deposit_paise)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at`,
		a.ID, a.IPDNo, a.PatientUHID, a.PatientName, a.AdmissionDate,
		a.DischargeDate, a.RoomType, a.DepositPaise,
	).Scan(&a.CreatedAt)
	if err != nil {
		return apperr.Unavailable("insert ipd admission", err)
	}
	return nil
}

func (r *repoPG) GetIPDAdmission(ctx context.Context, ipdNo string) (*IPDAdmission, error) {
	row := r.conn(ctx).QueryRow(ctx, `SELECT `+ipdCols+` FROM ipd_admissions WHERE ipd_no = $1`, ipdNo)
	a, err := scanIPDAdmission(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("ipd admission %s", ipdNo)
	}
	if err != nil {
		return nil, apperr.Unavailable("get ipd admission", err)
	}
	return a, nil
}

func (r *repoPG) ListIPDAdmissions(ctx context.Context, limit, offset int) ([]*IPDAdmission, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM ipd_admissions`).Scan(&total); err != nil {
		return nil, 0, apperr.Unavailable("count ipd admissions", err)
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+ipdCols+` FROM ipd_admissions ORDER BY admission_date DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, apperr.Unavailable("list ipd admissions", err)
	}
	defer rows.Close()

	var admissions []*IPDAdmission
	for rows.Next() {
		a, err := scanIPDAdmission(rows)
		if err != nil {
			return nil, 0, apperr.Unavailable("scan ipd admission", err)
		}
		admissions = append(admissions, a)
	}
	return admissions, total, nil
}

func (r *repoPG) UpdateIPDAdmission(ctx context.Context, a *IPDAdmission) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE ipd_admissions SET
			patient_uhid=$2, patient_name=$3, admission_date=$4, discharge_date=$5,
			room_type=$6, deposit_paise=$7
		WHERE ipd_no = $1`,
		a.IPDNo, a.PatientUHID, a.PatientName, a.AdmissionDate, a.DischargeDate,
		a.RoomType, a.DepositPaise,
	)
	if err != nil {
		return apperr.Unavailable("update ipd admission", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("ipd admission %s", a.IPDNo)
	}
	return nil
}

func scanOPDVisit(row pgx.Row) (*OPDVisit, error) {
	var v OPDVisit
	err := row.Scan(&v.ID, &v.OPDNo, &v.PatientUHID, &v.PatientName, &v.DoctorName,
		&v.VisitDate, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func scanIPDAdmission(row pgx.Row) (*IPDAdmission, error) {
	var a IPDAdmission
	err := row.Scan(&a.ID, &a.IPDNo, &a.PatientUHID, &a.PatientName, &a.AdmissionDate,
		&a.DischargeDate, &a.RoomType, &a.DepositPaise, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
