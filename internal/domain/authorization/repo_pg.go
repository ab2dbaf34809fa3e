package authorization

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

const authCols = `id, client_id, client_name, payer_name, auth_number, cpt_code,
	total_units, used_units, start_date, end_date, status, created_at, updated_at`

func scanAuthorization(row pgx.Row) (*Authorization, error) {
	var a Authorization
	err := row.Scan(&a.ID, &a.ClientID, &a.ClientName, &a.PayerName, &a.AuthNumber,
		&a.CPTCode, &a.TotalUnits, &a.UsedUnits, &a.StartDate, &a.EndDate, &a.Status,
		&a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Authorization) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO authorization_grant (client_id, client_name, payer_name, auth_number,
			cpt_code, total_units, used_units, start_date, end_date, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id, created_at, updated_at`,
		a.ClientID, a.ClientName, a.PayerName, a.AuthNumber, a.CPTCode,
		a.TotalUnits, a.UsedUnits, a.StartDate, a.EndDate, a.Status,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Authorization, error) {
	a, err := scanAuthorization(r.pool.QueryRow(ctx, `SELECT `+authCols+` FROM authorization_grant WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

func (r *repoPG) Update(ctx context.Context, a *Authorization) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE authorization_grant SET client_id=$2, client_name=$3, payer_name=$4,
			auth_number=$5, cpt_code=$6, total_units=$7, used_units=$8, start_date=$9,
			end_date=$10, status=$11, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.ClientID, a.ClientName, a.PayerName, a.AuthNumber, a.CPTCode,
		a.TotalUnits, a.UsedUnits, a.StartDate, a.EndDate, a.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM authorization_grant WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var authSortCols = map[string]string{
	"end_date":     "end_date",
	"client":       "client_name",
	"percent_used": "(used_units * 100 / GREATEST(total_units, 1))",
	"status":       "status",
}

func (r *repoPG) Search(ctx context.Context, q Query, limit, offset int) ([]*Authorization, int, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	idx := 1

	if q.Search != "" {
		where += fmt.Sprintf(` AND (client_name ILIKE $%d OR payer_name ILIKE $%d OR auth_number ILIKE $%d OR cpt_code ILIKE $%d)`, idx, idx, idx, idx)
		args = append(args, "%"+q.Search+"%")
		idx++
	}
	if q.Status != "" && q.Status != "all" {
		where += fmt.Sprintf(` AND status = $%d`, idx)
		args = append(args, q.Status)
		idx++
	}
	if q.ClientID != "" && q.ClientID != "all" {
		where += fmt.Sprintf(` AND client_id = $%d`, idx)
		args = append(args, q.ClientID)
		idx++
	}

	var storeTotal int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM authorization_grant`).Scan(&storeTotal); err != nil {
		return nil, 0, 0, err
	}
	var matched int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM authorization_grant`+where, args...).Scan(&matched); err != nil {
		return nil, 0, 0, err
	}

	orderBy := "end_date"
	if col, ok := authSortCols[q.Sort.Field]; ok {
		orderBy = col
	}
	dir := " ASC"
	if q.Sort.Dir == "desc" {
		dir = " DESC"
	}

	window, winArgs := db.LimitOffset(idx, limit, offset)
	query := `SELECT ` + authCols + ` FROM authorization_grant` + where +
		` ORDER BY ` + orderBy + dir + window
	args = append(args, winArgs...)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()
	var items []*Authorization
	for rows.Next() {
		a, err := scanAuthorization(rows)
		if err != nil {
			return nil, 0, 0, err
		}
		items = append(items, a)
	}
	return items, matched, storeTotal, nil
}
