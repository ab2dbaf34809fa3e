package note

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

const noteCols = `id, appointment_id, client_id, client_name, provider_id, provider_name,
	session_date, session_type, objectives, interventions, client_response, progress,
	additional_notes, status, signed_by, signed_at, cosign_requested_by, cosign_requested_at,
	cosigner, created_at, updated_at`

func scanNote(row pgx.Row) (*Note, error) {
	var n Note
	err := row.Scan(&n.ID, &n.AppointmentID, &n.ClientID, &n.ClientName, &n.ProviderID,
		&n.ProviderName, &n.SessionDate, &n.SessionType, &n.Objectives, &n.Interventions,
		&n.ClientResponse, &n.Progress, &n.AdditionalNotes, &n.Status, &n.SignedBy,
		&n.SignedAt, &n.CosignRequestedBy, &n.CosignRequestedAt, &n.Cosigner,
		&n.CreatedAt, &n.UpdatedAt)
	return &n, err
}

func (r *repoPG) Create(ctx context.Context, n *Note) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO session_note (appointment_id, client_id, client_name, provider_id,
			provider_name, session_date, session_type, objectives, interventions,
			client_response, progress, additional_notes, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING id, created_at, updated_at`,
		n.AppointmentID, n.ClientID, n.ClientName, n.ProviderID, n.ProviderName,
		n.SessionDate, n.SessionType, n.Objectives, n.Interventions, n.ClientResponse,
		n.Progress, n.AdditionalNotes, n.Status,
	).Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Note, error) {
	n, err := scanNote(r.pool.QueryRow(ctx, `SELECT `+noteCols+` FROM session_note WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return n, err
}

func (r *repoPG) Update(ctx context.Context, n *Note) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE session_note SET appointment_id=$2, client_id=$3, client_name=$4,
			provider_id=$5, provider_name=$6, session_date=$7, session_type=$8,
			objectives=$9, interventions=$10, client_response=$11, progress=$12,
			additional_notes=$13, status=$14, signed_by=$15, signed_at=$16,
			cosign_requested_by=$17, cosign_requested_at=$18, cosigner=$19, updated_at=NOW()
		WHERE id = $1`,
		n.ID, n.AppointmentID, n.ClientID, n.ClientName, n.ProviderID, n.ProviderName,
		n.SessionDate, n.SessionType, n.Objectives, n.Interventions, n.ClientResponse,
		n.Progress, n.AdditionalNotes, n.Status, n.SignedBy, n.SignedAt,
		n.CosignRequestedBy, n.CosignRequestedAt, n.Cosigner)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM session_note WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var noteSortCols = map[string]string{
	"session_date": "session_date",
	"client":       "client_name",
	"provider":     "provider_name",
	"status":       "status",
}

func (r *repoPG) Search(ctx context.Context, q Query, limit, offset int) ([]*Note, int, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	idx := 1

	if q.Search != "" {
		where += fmt.Sprintf(` AND (client_name ILIKE $%d OR provider_name ILIKE $%d OR objectives ILIKE $%d OR progress ILIKE $%d)`, idx, idx, idx, idx)
		args = append(args, "%"+q.Search+"%")
		idx++
	}
	for col, v := range map[string]string{"status": q.Status, "provider_id": q.ProviderID, "client_id": q.ClientID} {
		if v != "" && v != "all" {
			where += fmt.Sprintf(` AND %s = $%d`, col, idx)
			args = append(args, v)
			idx++
		}
	}
	if q.From != nil {
		where += fmt.Sprintf(` AND session_date >= $%d`, idx)
		args = append(args, *q.From)
		idx++
	}
	if q.To != nil {
		where += fmt.Sprintf(` AND session_date <= $%d`, idx)
		args = append(args, *q.To)
		idx++
	}

	var storeTotal int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM session_note`).Scan(&storeTotal); err != nil {
		return nil, 0, 0, err
	}
	var matched int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM session_note`+where, args...).Scan(&matched); err != nil {
		return nil, 0, 0, err
	}

	orderBy := "session_date"
	if col, ok := noteSortCols[q.Sort.Field]; ok {
		orderBy = col
	}
	dir := " ASC"
	if q.Sort.Dir == "desc" {
		dir = " DESC"
	}

	window, winArgs := db.LimitOffset(idx, limit, offset)
	query := `SELECT ` + noteCols + ` FROM session_note` + where +
		` ORDER BY ` + orderBy + dir + window
	args = append(args, winArgs...)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()
	var items []*Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, 0, 0, err
		}
		items = append(items, n)
	}
	return items, matched, storeTotal, nil
}
