package billing

import (
	"context"
	"sync"
	"time"

	"github.com/sirena/sirena/pkg/listquery"
)

type claimRepoMem struct {
	mu      sync.RWMutex
	records []*Claim
}

func NewClaimRepoMem(seed []*Claim) ClaimRepository {
	records := make([]*Claim, len(seed))
	for i, cl := range seed {
		cp := *cl
		records[i] = &cp
	}
	return &claimRepoMem{records: records}
}

func (r *claimRepoMem) nextID() int64 {
	var max int64
	for _, cl := range r.records {
		if cl.ID > max {
			max = cl.ID
		}
	}
	return max + 1
}

func (r *claimRepoMem) Create(_ context.Context, cl *Claim) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cl.ID = r.nextID()
	cl.CreatedAt = time.Now()
	cl.UpdatedAt = cl.CreatedAt
	cp := *cl
	r.records = append(r.records, &cp)
	return nil
}

func (r *claimRepoMem) GetByID(_ context.Context, id int64) (*Claim, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, cl := range r.records {
		if cl.ID == id {
			cp := *cl
			return &cp, nil
		}
	}
	return nil, ErrClaimNotFound
}

func (r *claimRepoMem) Update(_ context.Context, cl *Claim) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for idx, cur := range r.records {
		if cur.ID == cl.ID {
			cl.CreatedAt = cur.CreatedAt
			cl.UpdatedAt = time.Now()
			cp := *cl
			r.records[idx] = &cp
			return nil
		}
	}
	return ErrClaimNotFound
}

func (r *claimRepoMem) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for idx, cur := range r.records {
		if cur.ID == id {
			r.records = append(r.records[:idx], r.records[idx+1:]...)
			return nil
		}
	}
	return ErrClaimNotFound
}

func (r *claimRepoMem) Search(_ context.Context, q ClaimQuery, limit, offset int) ([]*Claim, int, int, error) {
	r.mu.RLock()
	all := make([]*Claim, len(r.records))
	copy(all, r.records)
	r.mu.RUnlock()

	filtered := listquery.Filter(all,
		listquery.Text(q.Search, func(cl *Claim) []string {
			return []string{cl.ClientName, cl.PayerName, cl.ClaimNumber, cl.CPTCode}
		}),
		listquery.Equals(q.Status, func(cl *Claim) string { return cl.Status }),
		listquery.Equals(q.ClientID, func(cl *Claim) string { return formatID(cl.ClientID) }),
	)
	listquery.SortStable(filtered, q.Sort.Dir, claimLessFor(q.Sort.Field))

	matched := len(filtered)
	if limit > 0 {
		filtered = claimWindow(filtered, limit, offset)
	}
	return filtered, matched, len(all), nil
}

func claimWindow(items []*Claim, limit, offset int) []*Claim {
	if offset >= len(items) {
		return []*Claim{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func claimLessFor(field string) func(a, b *Claim) bool {
	switch field {
	case "", "claim_number":
		return func(a, b *Claim) bool { return a.ClaimNumber < b.ClaimNumber }
	case "client":
		return func(a, b *Claim) bool { return listquery.CompareStrings(a.ClientName, b.ClientName) }
	case "payer":
		return func(a, b *Claim) bool { return listquery.CompareStrings(a.PayerName, b.PayerName) }
	case "amount":
		return func(a, b *Claim) bool { return a.AmountCents < b.AmountCents }
	case "status":
		return func(a, b *Claim) bool { return a.Status < b.Status }
	default:
		return nil
	}
}
