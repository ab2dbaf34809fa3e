package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sirena/sirena/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const invoiceCols = `id, client_id, client_name, appointment_id, service_date, cpt_code,
	units, payer_name, claim_number, total_cents, paid_cents, status, created_at, updated_at`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var i Invoice
	err := row.Scan(&i.ID, &i.ClientID, &i.ClientName, &i.AppointmentID, &i.ServiceDate,
		&i.CPTCode, &i.Units, &i.PayerName, &i.ClaimNumber, &i.TotalCents, &i.PaidCents,
		&i.Status, &i.CreatedAt, &i.UpdatedAt)
	return &i, err
}

func (r *repoPG) Create(ctx context.Context, i *Invoice) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO invoice (client_id, client_name, appointment_id, service_date, cpt_code,
			units, payer_name, claim_number, total_cents, paid_cents, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, created_at, updated_at`,
		i.ClientID, i.ClientName, i.AppointmentID, i.ServiceDate, i.CPTCode, i.Units,
		i.PayerName, i.ClaimNumber, i.TotalCents, i.PaidCents, i.Status,
	).Scan(&i.ID, &i.CreatedAt, &i.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Invoice, error) {
	i, err := scanInvoice(r.pool.QueryRow(ctx, `SELECT `+invoiceCols+` FROM invoice WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return i, err
}

func (r *repoPG) Update(ctx context.Context, i *Invoice) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE invoice SET client_id=$2, client_name=$3, appointment_id=$4, service_date=$5,
			cpt_code=$6, units=$7, payer_name=$8, claim_number=$9, total_cents=$10,
			paid_cents=$11, status=$12, updated_at=NOW()
		WHERE id = $1`,
		i.ID, i.ClientID, i.ClientName, i.AppointmentID, i.ServiceDate, i.CPTCode, i.Units,
		i.PayerName, i.ClaimNumber, i.TotalCents, i.PaidCents, i.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM invoice WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var invoiceSortCols = map[string]string{
	"service_date": "service_date",
	"client":       "client_name",
	"total":        "total_cents",
	"balance":      "(total_cents - paid_cents)",
	"status":       "status",
}

func (r *repoPG) Search(ctx context.Context, q Query, limit, offset int) ([]*Invoice, int, int, error) {
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
	if q.From != nil {
		where += fmt.Sprintf(` AND service_date >= $%d`, idx)
		args = append(args, *q.From)
		idx++
	}
	if q.To != nil {
		where += fmt.Sprintf(` AND service_date <= $%d`, idx)
		args = append(args, *q.To)
		idx++
	}

	var storeTotal int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM invoice`).Scan(&storeTotal); err != nil {
		return nil, 0, 0, err
	}
	var matched int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM invoice`+where, args...).Scan(&matched); err != nil {
		return nil, 0, 0, err
	}

	orderBy := "service_date"
	if col, ok := invoiceSortCols[q.Sort.Field]; ok {
		orderBy = col
	}
	dir := " ASC"
	if q.Sort.Dir == "desc" {
		dir = " DESC"
	}

	window, winArgs := db.LimitOffset(idx, limit, offset)
	query := `SELECT ` + invoiceCols + ` FROM invoice` + where +
		` ORDER BY ` + orderBy + dir + window
	args = append(args, winArgs...)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()
	var items []*Invoice
	for rows.Next() {
		i, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, 0, err
		}
		items = append(items, i)
	}
	return items, matched, storeTotal, nil
}

func (r *repoPG) AddPayment(ctx context.Context, p *Payment) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO payment (invoice_id, amount_cents, method, reference, received_at)
		VALUES ($1,$2,$3,$4, COALESCE($5, NOW()))
		RETURNING id, received_at`,
		p.InvoiceID, p.AmountCents, p.Method, p.Reference, nullableTime(p.ReceivedAt),
	).Scan(&p.ID, &p.ReceivedAt)
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func (r *repoPG) PaymentsForInvoice(ctx context.Context, invoiceID int64) ([]*Payment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, invoice_id, amount_cents, method, reference, received_at
		FROM payment WHERE invoice_id = $1 ORDER BY received_at`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.InvoiceID, &p.AmountCents, &p.Method, &p.Reference, &p.ReceivedAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, nil
}
