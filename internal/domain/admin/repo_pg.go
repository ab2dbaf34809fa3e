package admin

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

const userCols = `id, email, name, role, credentials, password_hash, active, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.Credentials, &u.PasswordHash,
		&u.Active, &u.CreatedAt, &u.UpdatedAt)
	return &u, err
}

func (r *repoPG) Create(ctx context.Context, u *User) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO app_user (email, name, role, credentials, password_hash, active)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at, updated_at`,
		u.Email, u.Name, u.Role, u.Credentials, u.PasswordHash, u.Active,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userCols+` FROM app_user WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userCols+` FROM app_user WHERE LOWER(email) = LOWER($1)`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

func (r *repoPG) Update(ctx context.Context, u *User) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE app_user SET email=$2, name=$3, role=$4, credentials=$5, password_hash=$6,
			active=$7, updated_at=NOW()
		WHERE id = $1`,
		u.ID, u.Email, u.Name, u.Role, u.Credentials, u.PasswordHash, u.Active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM app_user WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var userSortCols = map[string]string{
	"name":  "name",
	"email": "email",
	"role":  "role",
}

func (r *repoPG) Search(ctx context.Context, q Query, limit, offset int) ([]*User, int, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	idx := 1

	if q.Search != "" {
		where += fmt.Sprintf(` AND (name ILIKE $%d OR email ILIKE $%d OR credentials ILIKE $%d)`, idx, idx, idx)
		args = append(args, "%"+q.Search+"%")
		idx++
	}
	if q.Role != "" && q.Role != "all" {
		where += fmt.Sprintf(` AND role = $%d`, idx)
		args = append(args, q.Role)
		idx++
	}

	var storeTotal int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM app_user`).Scan(&storeTotal); err != nil {
		return nil, 0, 0, err
	}
	var matched int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM app_user`+where, args...).Scan(&matched); err != nil {
		return nil, 0, 0, err
	}

	orderBy := "name"
	if col, ok := userSortCols[q.Sort.Field]; ok {
		orderBy = col
	}
	dir := " ASC"
	if q.Sort.Dir == "desc" {
		dir = " DESC"
	}

	window, winArgs := db.LimitOffset(idx, limit, offset)
	query := `SELECT ` + userCols + ` FROM app_user` + where +
		` ORDER BY ` + orderBy + dir + window
	args = append(args, winArgs...)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()
	var items []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, 0, err
		}
		items = append(items, u)
	}
	return items, matched, storeTotal, nil
}
