package auditevent

import (
	"context"
	"sync"
	"time"

	"github.com/sirena/sirena/pkg/listquery"
)

type repoMem struct {
	mu      sync.RWMutex
	records []*Event
}

func NewRepoMem() Repository {
	return &repoMem{}
}

func (r *repoMem) Append(_ context.Context, e *Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var max int64
	for _, cur := range r.records {
		if cur.ID > max {
			max = cur.ID
		}
	}
	e.ID = max + 1
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	cp := *e
	r.records = append(r.records, &cp)
	return nil
}

func (r *repoMem) GetByID(_ context.Context, id int64) (*Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.records {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *repoMem) Search(_ context.Context, q Query, limit, offset int) ([]*Event, int, int, error) {
	r.mu.RLock()
	all := make([]*Event, len(r.records))
	copy(all, r.records)
	r.mu.RUnlock()

	filtered := listquery.Filter(all,
		listquery.Text(q.Search, func(e *Event) []string {
			return []string{e.UserName, e.Resource, e.Path}
		}),
		listquery.Equals(q.Action, func(e *Event) string { return e.Action }),
		listquery.Equals(q.Resource, func(e *Event) string { return e.Resource }),
		listquery.Equals(q.UserID, func(e *Event) string { return e.UserID }),
		listquery.DateRange(q.From, q.To, func(e *Event) time.Time { return e.OccurredAt }),
	)
	listquery.SortStable(filtered, q.Sort.Dir, lessFor(q.Sort.Field))

	matched := len(filtered)
	if limit > 0 {
		filtered = window(filtered, limit, offset)
	}
	return filtered, matched, len(all), nil
}

func window(items []*Event, limit, offset int) []*Event {
	if offset >= len(items) {
		return []*Event{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func lessFor(field string) func(a, b *Event) bool {
	switch field {
	case "", "occurred_at":
		return func(a, b *Event) bool { return a.OccurredAt.Before(b.OccurredAt) }
	case "user":
		return func(a, b *Event) bool { return listquery.CompareStrings(a.UserName, b.UserName) }
	case "resource":
		return func(a, b *Event) bool { return a.Resource < b.Resource }
	default:
		return nil
	}
}
