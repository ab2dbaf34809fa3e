package client

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/sirena/sirena/pkg/listquery"
)

// repoMem is the in-memory repository. It preserves the product's local
// single-writer store semantics: sequential max(id)+1 identifiers,
// whole-record last-write-wins updates, unconditional deletes. The mutex only
// guards against concurrent HTTP handlers; there is no cross-process state.
type repoMem struct {
	mu      sync.RWMutex
	records []*Client
}

func NewRepoMem(seed []*Client) Repository {
	records := make([]*Client, len(seed))
	for i, c := range seed {
		cp := *c
		records[i] = &cp
	}
	return &repoMem{records: records}
}

func (r *repoMem) nextID() int64 {
	var max int64
	for _, c := range r.records {
		if c.ID > max {
			max = c.ID
		}
	}
	return max + 1
}

func (r *repoMem) Create(_ context.Context, c *Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = r.nextID()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	r.records = append(r.records, &cp)
	return nil
}

func (r *repoMem) GetByID(_ context.Context, id int64) (*Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.records {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *repoMem) Update(_ context.Context, c *Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, cur := range r.records {
		if cur.ID == c.ID {
			c.CreatedAt = cur.CreatedAt
			c.UpdatedAt = time.Now()
			cp := *c
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

func (r *repoMem) Search(_ context.Context, q Query, limit, offset int) ([]*Client, int, int, error) {
	r.mu.RLock()
	all := make([]*Client, len(r.records))
	copy(all, r.records)
	r.mu.RUnlock()

	filtered := listquery.Filter(all,
		listquery.Text(q.Search, func(c *Client) []string {
			return []string{c.FirstName, c.LastName, c.Email, c.Phone}
		}),
		listquery.Equals(q.Status, func(c *Client) string { return c.Status }),
		listquery.Equals(q.ProviderID, func(c *Client) string { return formatID(c.ProviderID) }),
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

func window(items []*Client, limit, offset int) []*Client {
	if offset >= len(items) {
		return []*Client{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func lessFor(field string) func(a, b *Client) bool {
	switch field {
	case "name":
		return func(a, b *Client) bool {
			if a.LastName != b.LastName {
				return listquery.CompareStrings(a.LastName, b.LastName)
			}
			return listquery.CompareStrings(a.FirstName, b.FirstName)
		}
	case "dob":
		return func(a, b *Client) bool { return a.DOB < b.DOB }
	case "last_visit":
		return func(a, b *Client) bool {
			// nil sorts first so never-seen clients surface on ascending sort
			if a.LastVisit == nil || b.LastVisit == nil {
				return a.LastVisit == nil && b.LastVisit != nil
			}
			return a.LastVisit.Before(*b.LastVisit)
		}
	case "status":
		return func(a, b *Client) bool { return a.Status < b.Status }
	default:
		return nil
	}
}
