package appointment

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/sirena/sirena/pkg/listquery"
)

type repoMem struct {
	mu      sync.RWMutex
	records []*Appointment
}

func NewRepoMem(seed []*Appointment) Repository {
	records := make([]*Appointment, len(seed))
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

func (r *repoMem) Create(_ context.Context, a *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = r.nextID()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	r.records = append(r.records, &cp)
	return nil
}

func (r *repoMem) GetByID(_ context.Context, id int64) (*Appointment, error) {
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

func (r *repoMem) Update(_ context.Context, a *Appointment) error {
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

func (r *repoMem) Search(_ context.Context, q Query, limit, offset int) ([]*Appointment, int, int, error) {
	r.mu.RLock()
	all := make([]*Appointment, len(r.records))
	copy(all, r.records)
	r.mu.RUnlock()

	filtered := listquery.Filter(all,
		listquery.Text(q.Search, func(a *Appointment) []string {
			return []string{a.ClientName, a.ProviderName, a.Location, a.CPTCode}
		}),
		listquery.Equals(q.Status, func(a *Appointment) string { return a.Status }),
		listquery.Equals(q.SessionType, func(a *Appointment) string { return a.SessionType }),
		listquery.Equals(q.ProviderID, func(a *Appointment) string { return formatID(a.ProviderID) }),
		listquery.Equals(q.ClientID, func(a *Appointment) string { return formatID(a.ClientID) }),
		listquery.DateRange(q.From, q.To, func(a *Appointment) time.Time { return a.Start }),
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

func window(items []*Appointment, limit, offset int) []*Appointment {
	if offset >= len(items) {
		return []*Appointment{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func lessFor(field string) func(a, b *Appointment) bool {
	switch field {
	case "", "start":
		return func(a, b *Appointment) bool { return a.Start.Before(b.Start) }
	case "client":
		return func(a, b *Appointment) bool { return listquery.CompareStrings(a.ClientName, b.ClientName) }
	case "provider":
		return func(a, b *Appointment) bool { return listquery.CompareStrings(a.ProviderName, b.ProviderName) }
	case "status":
		return func(a, b *Appointment) bool { return a.Status < b.Status }
	default:
		return nil
	}
}
