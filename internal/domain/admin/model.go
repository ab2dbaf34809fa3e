package admin

import (
	"time"

	"github.com/sirena/sirena/pkg/listquery"
)

// User is a staff account. The password hash never leaves the server.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Name         string    `db:"name" json:"name"`
	Role         string    `db:"role" json:"role"`
	Credentials  string    `db:"credentials" json:"credentials,omitempty"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Query holds the list-view filters for users.
type Query struct {
	Search string
	Role   string
	Sort   listquery.Sort
}
