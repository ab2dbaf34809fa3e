package authorization

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/sirena/sirena/pkg/listquery"
)

type repoMem struct {
	mu      sync.RWMutex
	records []*Authorization
}

func NewRepoMem(seed []*Authorization) Repository {
	records := make([]*Authorization, len(seed))
	for i, a := range seed {
		cp := *a
		records[i] = &cp
	}
	return &repoMem{records: records}
}

func (r *repoMem) nextID() int64 {
	var max int64
	for _, a := range r.records {
		if a.ID > max {
			max = a.ID
		}
	}
	return max + 1
}

func (r *repoMem) Create(_ context.Context, a *Authorization) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = r.nextID()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	r.records = append(r.records, &cp)
	return nil
}

func (r *repoMem) GetByID(_ context.Context, id int64) (*Authorization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.records {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *repoMem) Update(_ context.Context, a *Authorization) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, cur := range r.records {
		if cur.ID == a.ID {
			a.CreatedAt = cur.CreatedAt
			a.UpdatedAt = time.Now()
			cp := *a
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

func (r *repoMem) Search(_ context.Context, q Query, limit, offset int) ([]*Authorization, int, int, error) {
	r.mu.RLock()
	all := make([]*Authorization, len(r.records))
	copy(all, r.records)
	r.mu.RUnlock()

	filtered := listquery.Filter(all,
		listquery.Text(q.Search, func(a *Authorization) []string {
			return []string{a.ClientName, a.PayerName, a.AuthNumber, a.CPTCode}
		}),
		listquery.Equals(q.Status, func(a *Authorization) string { return a.Status }),
		listquery.Equals(q.ClientID, func(a *Authorization) string { return formatID(a.ClientID) }),
	)
	listquery.SortStable(filtered, q.Sort.Dir, lessFor(q.Sort.Field))

	matched := len(filtered)
	if limit > 0 {
		filtered = window(filtered, limit, offset)
	}
	return filtered, matched, len(all), nil
}

func formatID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

func window(items []*Authorization, limit, offset int) []*Authorization {
	if offset >= len(items) {
		return []*Authorization{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func lessFor(field string) func(a, b *Authorization) bool {
	switch field {
	case "", "end_date":
		return func(a, b *Authorization) bool { return a.EndDate.Before(b.EndDate) }
	case "client":
		return func(a, b *Authorization) bool { return listquery.CompareStrings(a.ClientName, b.ClientName) }
	case "percent_used":
		return func(a, b *Authorization) bool { return a.PercentUsed() < b.PercentUsed() }
	case "status":
		return func(a, b *Authorization) bool { return a.Status < b.Status }
	default:
		return nil
	}
}
