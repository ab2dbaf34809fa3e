package client

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

const clientCols = `id, first_name, last_name, dob, gender, phone, email, address,
	status, insurance_payer, insurance_member_id, provider_id, provider_name,
	last_visit, created_at, updated_at`

func scanClient(row pgx.Row) (*Client, error) {
	var c Client
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.DOB, &c.Gender, &c.Phone,
		&c.Email, &c.Address, &c.Status, &c.InsurancePayer, &c.InsuranceMemberID,
		&c.ProviderID, &c.ProviderName, &c.LastVisit, &c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

func (r *repoPG) Create(ctx context.Context, c *Client) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO client (first_name, last_name, dob, gender, phone, email, address,
			status, insurance_payer, insurance_member_id, provider_id, provider_name, last_visit)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING id, created_at, updated_at`,
		c.FirstName, c.LastName, c.DOB, c.Gender, c.Phone, c.Email, c.Address,
		c.Status, c.InsurancePayer, c.InsuranceMemberID, c.ProviderID, c.ProviderName, c.LastVisit,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Client, error) {
	c, err := scanClient(r.pool.QueryRow(ctx, `SELECT `+clientCols+` FROM client WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

func (r *repoPG) Update(ctx context.Context, c *Client) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE client SET first_name=$2, last_name=$3, dob=$4, gender=$5, phone=$6,
			email=$7, address=$8, status=$9, insurance_payer=$10, insurance_member_id=$11,
			provider_id=$12, provider_name=$13, last_visit=$14, updated_at=NOW()
		WHERE id = $1`,
		c.ID, c.FirstName, c.LastName, c.DOB, c.Gender, c.Phone, c.Email, c.Address,
		c.Status, c.InsurancePayer, c.InsuranceMemberID, c.ProviderID, c.ProviderName, c.LastVisit)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM client WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var clientSortCols = map[string]string{
	"name":       "last_name, first_name",
	"dob":        "dob",
	"last_visit": "last_visit",
	"status":     "status",
}

func (r *repoPG) Search(ctx context.Context, q Query, limit, offset int) ([]*Client, int, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	idx := 1

	if q.Search != "" {
		where += fmt.Sprintf(` AND (first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d)`, idx, idx, idx, idx)
		args = append(args, "%"+q.Search+"%")
		idx++
	}
	if q.Status != "" && q.Status != "all" {
		where += fmt.Sprintf(` AND status = $%d`, idx)
		args = append(args, q.Status)
		idx++
	}
	if q.ProviderID != "" && q.ProviderID != "all" {
		where += fmt.Sprintf(` AND provider_id = $%d`, idx)
		args = append(args, q.ProviderID)
		idx++
	}

	var storeTotal int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM client`).Scan(&storeTotal); err != nil {
		return nil, 0, 0, err
	}
	var matched int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM client`+where, args...).Scan(&matched); err != nil {
		return nil, 0, 0, err
	}

	orderBy := `last_name, first_name`
	if col, ok := clientSortCols[q.Sort.Field]; ok {
		orderBy = col
	}
	dir := " ASC"
	if q.Sort.Dir == "desc" {
		dir = " DESC"
	}

	window, winArgs := db.LimitOffset(idx, limit, offset)
	query := `SELECT ` + clientCols + ` FROM client` + where +
		` ORDER BY ` + orderBy + dir + window
	args = append(args, winArgs...)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()
	var items []*Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, 0, err
		}
		items = append(items, c)
	}
	return items, matched, storeTotal, nil
}
