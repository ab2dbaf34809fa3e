package auditevent

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

const eventCols = `id, user_id, user_name, resource, action, method, path,
	ip_address, user_agent, request_id, status_code, occurred_at`

func scanEvent(row pgx.Row) (*Event, error) {
	var e Event
	err := row.Scan(&e.ID, &e.UserID, &e.UserName, &e.Resource, &e.Action, &e.Method,
		&e.Path, &e.IPAddress, &e.UserAgent, &e.RequestID, &e.StatusCode, &e.OccurredAt)
	return &e, err
}

func (r *repoPG) Append(ctx context.Context, e *Event) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO audit_event (user_id, user_name, resource, action, method, path,
			ip_address, user_agent, request_id, status_code, occurred_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10, COALESCE(NULLIF($11, TIMESTAMPTZ 'epoch'), NOW()))
		RETURNING id, occurred_at`,
		e.UserID, e.UserName, e.Resource, e.Action, e.Method, e.Path,
		e.IPAddress, e.UserAgent, e.RequestID, e.StatusCode, e.OccurredAt,
	).Scan(&e.ID, &e.OccurredAt)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Event, error) {
	e, err := scanEvent(r.pool.QueryRow(ctx, `SELECT `+eventCols+` FROM audit_event WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

var eventSortCols = map[string]string{
	"occurred_at": "occurred_at",
	"user":        "user_name",
	"resource":    "resource",
}

func (r *repoPG) Search(ctx context.Context, q Query, limit, offset int) ([]*Event, int, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	idx := 1

	if q.Search != "" {
		where += fmt.Sprintf(` AND (user_name ILIKE $%d OR resource ILIKE $%d OR path ILIKE $%d)`, idx, idx, idx)
		args = append(args, "%"+q.Search+"%")
		idx++
	}
	for col, v := range map[string]string{"action": q.Action, "resource": q.Resource, "user_id": q.UserID} {
		if v != "" && v != "all" {
			where += fmt.Sprintf(` AND %s = $%d`, col, idx)
			args = append(args, v)
			idx++
		}
	}
	if q.From != nil {
		where += fmt.Sprintf(` AND occurred_at >= $%d`, idx)
		args = append(args, *q.From)
		idx++
	}
	if q.To != nil {
		where += fmt.Sprintf(` AND occurred_at <= $%d`, idx)
		args = append(args, *q.To)
		idx++
	}

	var storeTotal int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM audit_event`).Scan(&storeTotal); err != nil {
		return nil, 0, 0, err
	}
	var matched int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM audit_event`+where, args...).Scan(&matched); err != nil {
		return nil, 0, 0, err
	}

	orderBy := "occurred_at"
	if col, ok := eventSortCols[q.Sort.Field]; ok {
		orderBy = col
	}
	dir := " ASC"
	if q.Sort.Dir == "desc" {
		dir = " DESC"
	}

	window, winArgs := db.LimitOffset(idx, limit, offset)
	query := `SELECT ` + eventCols + ` FROM audit_event` + where +
		` ORDER BY ` + orderBy + dir + window
	args = append(args, winArgs...)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()
	var items []*Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, 0, err
		}
		items = append(items, e)
	}
	return items, matched, storeTotal, nil
}
