package admin

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirena/sirena/pkg/listquery"
)

type repoMem struct {
	mu      sync.RWMutex
	records []*User
}

func NewRepoMem(seed []*User) Repository {
	records := make([]*User, len(seed))
	for i, u := range seed {
		cp := *u
		records[i] = &cp
	}
	return &repoMem{records: records}
}

func (r *repoMem) nextID() int64 {
	var max int64
	for _, u := range r.records {
		if u.ID > max {
			max = u.ID
		}
	}
	return max + 1
}

func (r *repoMem) Create(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = r.nextID()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.records = append(r.records, &cp)
	return nil
}

func (r *repoMem) GetByID(_ context.Context, id int64) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.records {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *repoMem) GetByEmail(_ context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.records {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *repoMem) Update(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, cur := range r.records {
		if cur.ID == u.ID {
			u.CreatedAt = cur.CreatedAt
			u.UpdatedAt = time.Now()
			cp := *u
			r.records[i] = &cp
			return nil
		}
	}
	return ErrNotFound
}

func (r *repoMem) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, cur := range r.records {
		if cur.ID == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *repoMem) Search(_ context.Context, q Query, limit, offset int) ([]*User, int, int, error) {
	r.mu.RLock()
	all := make([]*User, len(r.records))
	copy(all, r.records)
	r.mu.RUnlock()

	filtered := listquery.Filter(all,
		listquery.Text(q.Search, func(u *User) []string {
			return []string{u.Name, u.Email, u.Credentials}
		}),
		listquery.Equals(q.Role, func(u *User) string { return u.Role }),
	)
	listquery.SortStable(filtered, q.Sort.Dir, lessFor(q.Sort.Field))

	matched := len(filtered)
	if limit > 0 {
		filtered = window(filtered, limit, offset)
	}
	return filtered, matched, len(all), nil
}

func window(items []*User, limit, offset int) []*User {
	if offset >= len(items) {
		return []*User{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func lessFor(field string) func(a, b *User) bool {
	switch field {
	case "", "name":
		return func(a, b *User) bool { return listquery.CompareStrings(a.Name, b.Name) }
	case "email":
		return func(a, b *User) bool { return listquery.CompareStrings(a.Email, b.Email) }
	case "role":
		return func(a, b *User) bool { return a.Role < b.Role }
	default:
		return nil
	}
}
