package note

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/sirena/sirena/pkg/listquery"
)

type repoMem struct {
	mu      sync.RWMutex
	records []*Note
}

func NewRepoMem(seed []*Note) Repository {
	records := make([]*Note, len(seed))
	for i, n := range seed {
		cp := *n
		records[i] = &cp
	}
	return &repoMem{records: records}
}

func (r *repoMem) nextID() int64 {
	var max int64
	for _, n := range r.records {
		if n.ID > max {
			max = n.ID
		}
	}
	return max + 1
}

func (r *repoMem) Create(_ context.Context, n *Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = r.nextID()
	n.CreatedAt = time.Now()
	n.UpdatedAt = n.CreatedAt
	cp := *n
	r.records = append(r.records, &cp)
	return nil
}

func (r *repoMem) GetByID(_ context.Context, id int64) (*Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, n := range r.records {
		if n.ID == id {
			cp := *n
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *repoMem) Update(_ context.Context, n *Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, cur := range r.records {
		if cur.ID == n.ID {
			n.CreatedAt = cur.CreatedAt
			n.UpdatedAt = time.Now()
			cp := *n
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

func (r *repoMem) Search(_ context.Context, q Query, limit, offset int) ([]*Note, int, int, error) {
	r.mu.RLock()
	all := make([]*Note, len(r.records))
	copy(all, r.records)
	r.mu.RUnlock()

	filtered := listquery.Filter(all,
		listquery.Text(q.Search, func(n *Note) []string {
			return []string{n.ClientName, n.ProviderName, n.Objectives, n.Progress}
		}),
		listquery.Equals(q.Status, func(n *Note) string { return n.Status }),
		listquery.Equals(q.ProviderID, func(n *Note) string { return formatID(n.ProviderID) }),
		listquery.Equals(q.ClientID, func(n *Note) string { return formatID(n.ClientID) }),
		listquery.DateRange(q.From, q.To, func(n *Note) time.Time { return n.SessionDate }),
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

func window(items []*Note, limit, offset int) []*Note {
	if offset >= len(items) {
		return []*Note{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func lessFor(field string) func(a, b *Note) bool {
	switch field {
	case "", "session_date":
		return func(a, b *Note) bool { return a.SessionDate.Before(b.SessionDate) }
	case "client":
		return func(a, b *Note) bool { return listquery.CompareStrings(a.ClientName, b.ClientName) }
	case "provider":
		return func(a, b *Note) bool { return listquery.CompareStrings(a.ProviderName, b.ProviderName) }
	case "status":
		return func(a, b *Note) bool { return a.Status < b.Status }
	default:
		return nil
	}
}
