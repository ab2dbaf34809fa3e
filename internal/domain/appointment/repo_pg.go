package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sirena/sirena/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const apptCols = `id, client_id, client_name, provider_id, provider_name, session_type,
	start_at, end_at, location, cpt_code, units, authorization_id, notes, status,
	created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.ClientID, &a.ClientName, &a.ProviderID, &a.ProviderName,
		&a.SessionType, &a.Start, &a.End, &a.Location, &a.CPTCode, &a.Units,
		&a.AuthorizationID, &a.Notes, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO appointment (client_id, client_name, provider_id, provider_name,
			session_type, start_at, end_at, location, cpt_code, units, authorization_id, notes, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING id, created_at, updated_at`,
		a.ClientID, a.ClientName, a.ProviderID, a.ProviderName, a.SessionType,
		a.Start, a.End, a.Location, a.CPTCode, a.Units, a.AuthorizationID, a.Notes, a.Status,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Appointment, error) {
	a, err := scanAppointment(r.pool.QueryRow(ctx, `SELECT `+apptCols+` FROM appointment WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointment SET client_id=$2, client_name=$3, provider_id=$4, provider_name=$5,
			session_type=$6, start_at=$7, end_at=$8, location=$9, cpt_code=$10, units=$11,
			authorization_id=$12, notes=$13, status=$14, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.ClientID, a.ClientName, a.ProviderID, a.ProviderName, a.SessionType,
		a.Start, a.End, a.Location, a.CPTCode, a.Units, a.AuthorizationID, a.Notes, a.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointment WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var apptSortCols = map[string]string{
	"start":    "start_at",
	"client":   "client_name",
	"provider": "provider_name",
	"status":   "status",
}

func (r *repoPG) Search(ctx context.Context, q Query, limit, offset int) ([]*Appointment, int, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	idx := 1

	if q.Search != "" {
		where += fmt.Sprintf(` AND (client_name ILIKE $%d OR provider_name ILIKE $%d OR location ILIKE $%d OR cpt_code ILIKE $%d)`, idx, idx, idx, idx)
		args = append(args, "%"+q.Search+"%")
		idx++
	}
	for col, v := range map[string]string{"status": q.Status, "session_type": q.SessionType,
		"provider_id": q.ProviderID, "client_id": q.ClientID} {
		if v != "" && v != "all" {
			where += fmt.Sprintf(` AND %s = $%d`, col, idx)
			args = append(args, v)
			idx++
		}
	}
	if q.From != nil {
		where += fmt.Sprintf(` AND start_at >= $%d`, idx)
		args = append(args, *q.From)
		idx++
	}
	if q.To != nil {
		where += fmt.Sprintf(` AND start_at <= $%d`, idx)
		args = append(args, *q.To)
		idx++
	}

	var storeTotal int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointment`).Scan(&storeTotal); err != nil {
		return nil, 0, 0, err
	}
	var matched int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointment`+where, args...).Scan(&matched); err != nil {
		return nil, 0, 0, err
	}

	orderBy := "start_at"
	if col, ok := apptSortCols[q.Sort.Field]; ok {
		orderBy = col
	}
	dir := " ASC"
	if q.Sort.Dir == "desc" {
		dir = " DESC"
	}

	window, winArgs := db.LimitOffset(idx, limit, offset)
	query := `SELECT ` + apptCols + ` FROM appointment` + where +
		` ORDER BY ` + orderBy + dir + window
	args = append(args, winArgs...)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, 0, err
		}
		items = append(items, a)
	}
	return items, matched, storeTotal, nil
}
