package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sirena/sirena/internal/platform/db"
)

type claimRepoPG struct{ pool *pgxpool.Pool }

func NewClaimRepoPG(pool *pgxpool.Pool) ClaimRepository {
	return &claimRepoPG{pool: pool}
}

const claimCols = `id, invoice_id, client_id, client_name, payer_name, claim_number,
	cpt_code, units, amount_cents, status, submitted_at, created_at, updated_at`

func scanClaim(row pgx.Row) (*Claim, error) {
	var cl Claim
	err := row.Scan(&cl.ID, &cl.InvoiceID, &cl.ClientID, &cl.ClientName, &cl.PayerName,
		&cl.ClaimNumber, &cl.CPTCode, &cl.Units, &cl.AmountCents, &cl.Status,
		&cl.SubmittedAt, &cl.CreatedAt, &cl.UpdatedAt)
	return &cl, err
}

func (r *claimRepoPG) Create(ctx context.Context, cl *Claim) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO claim (invoice_id, client_id, client_name, payer_name, claim_number,
			cpt_code, units, amount_cents, status, submitted_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id, created_at, updated_at`,
		cl.InvoiceID, cl.ClientID, cl.ClientName, cl.PayerName, cl.ClaimNumber,
		cl.CPTCode, cl.Units, cl.AmountCents, cl.Status, cl.SubmittedAt,
	).Scan(&cl.ID, &cl.CreatedAt, &cl.UpdatedAt)
}

func (r *claimRepoPG) GetByID(ctx context.Context, id int64) (*Claim, error) {
	cl, err := scanClaim(r.pool.QueryRow(ctx, `SELECT `+claimCols+` FROM claim WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrClaimNotFound
	}
	return cl, err
}

func (r *claimRepoPG) Update(ctx context.Context, cl *Claim) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE claim SET invoice_id=$2, client_id=$3, client_name=$4, payer_name=$5,
			claim_number=$6, cpt_code=$7, units=$8, amount_cents=$9, status=$10,
			submitted_at=$11, updated_at=NOW()
		WHERE id = $1`,
		cl.ID, cl.InvoiceID, cl.ClientID, cl.ClientName, cl.PayerName, cl.ClaimNumber,
		cl.CPTCode, cl.Units, cl.AmountCents, cl.Status, cl.SubmittedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrClaimNotFound
	}
	return nil
}

func (r *claimRepoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM claim WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrClaimNotFound
	}
	return nil
}

var claimSortCols = map[string]string{
	"claim_number": "claim_number",
	"client":       "client_name",
	"payer":        "payer_name",
	"amount":       "amount_cents",
	"status":       "status",
}

func (r *claimRepoPG) Search(ctx context.Context, q ClaimQuery, limit, offset int) ([]*Claim, int, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	idx := 1

	if q.Search != "" {
		where += fmt.Sprintf(` AND (client_name ILIKE $%d OR payer_name ILIKE $%d OR claim_number ILIKE $%d OR cpt_code ILIKE $%d)`, idx, idx, idx, idx)
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
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM claim`).Scan(&storeTotal); err != nil {
		return nil, 0, 0, err
	}
	var matched int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM claim`+where, args...).Scan(&matched); err != nil {
		return nil, 0, 0, err
	}

	orderBy := "claim_number"
	if col, ok := claimSortCols[q.Sort.Field]; ok {
		orderBy = col
	}
	dir := " ASC"
	if q.Sort.Dir == "desc" {
		dir = " DESC"
	}

	window, winArgs := db.LimitOffset(idx, limit, offset)
	query := `SELECT ` + claimCols + ` FROM claim` + where +
		` ORDER BY ` + orderBy + dir + window
	args = append(args, winArgs...)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()
	var items []*Claim
	for rows.Next() {
		cl, err := scanClaim(rows)
		if err != nil {
			return nil, 0, 0, err
		}
		items = append(items, cl)
	}
	return items, matched, storeTotal, nil
}
