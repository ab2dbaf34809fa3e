package billing

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/sirena/sirena/pkg/listquery"
)

type repoMem struct {
	mu       sync.RWMutex
	records  []*Invoice
	payments []*Payment
}

func NewRepoMem(seed []*Invoice) Repository {
	records := make([]*Invoice, len(seed))
	for i, inv := range seed {
		cp := *inv
		records[i] = &cp
	}
	return &repoMem{records: records}
}

func (r *repoMem) nextID() int64 {
	var max int64
	for _, i := range r.records {
		if i.ID > max {
			max = i.ID
		}
	}
	return max + 1
}

func (r *repoMem) nextPaymentID() int64 {
	var max int64
	for _, p := range r.payments {
		if p.ID > max {
			max = p.ID
		}
	}
	return max + 1
}

func (r *repoMem) Create(_ context.Context, i *Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i.ID = r.nextID()
	i.CreatedAt = time.Now()
	i.UpdatedAt = i.CreatedAt
	cp := *i
	r.records = append(r.records, &cp)
	return nil
}

func (r *repoMem) GetByID(_ context.Context, id int64) (*Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, i := range r.records {
		if i.ID == id {
			cp := *i
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *repoMem) Update(_ context.Context, i *Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for idx, cur := range r.records {
		if cur.ID == i.ID {
			i.CreatedAt = cur.CreatedAt
			i.UpdatedAt = time.Now()
			cp := *i
			r.records[idx] = &cp
			return nil
		}
	}
	return ErrNotFound
}

func (r *repoMem) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for idx, cur := range r.records {
		if cur.ID == id {
			r.records = append(r.records[:idx], r.records[idx+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *repoMem) Search(_ context.Context, q Query, limit, offset int) ([]*Invoice, int, int, error) {
	r.mu.RLock()
	all := make([]*Invoice, len(r.records))
	copy(all, r.records)
	r.mu.RUnlock()

	filtered := listquery.Filter(all,
		listquery.Text(q.Search, func(i *Invoice) []string {
			return []string{i.ClientName, i.PayerName, i.ClaimNumber, i.CPTCode}
		}),
		listquery.Equals(q.Status, func(i *Invoice) string { return i.Status }),
		listquery.Equals(q.ClientID, func(i *Invoice) string { return formatID(i.ClientID) }),
		listquery.DateRange(q.From, q.To, func(i *Invoice) time.Time { return i.ServiceDate }),
	)
	listquery.SortStable(filtered, q.Sort.Dir, lessFor(q.Sort.Field))

	matched := len(filtered)
	if limit > 0 {
		filtered = window(filtered, limit, offset)
	}
	return filtered, matched, len(all), nil
}

func (r *repoMem) AddPayment(_ context.Context, p *Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.nextPaymentID()
	if p.ReceivedAt.IsZero() {
		p.ReceivedAt = time.Now()
	}
	cp := *p
	r.payments = append(r.payments, &cp)
	return nil
}

func (r *repoMem) PaymentsForInvoice(_ context.Context, invoiceID int64) ([]*Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Payment
	for _, p := range r.payments {
		if p.InvoiceID == invoiceID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func formatID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

func window(items []*Invoice, limit, offset int) []*Invoice {
	if offset >= len(items) {
		return []*Invoice{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func lessFor(field string) func(a, b *Invoice) bool {
	switch field {
	case "", "service_date":
		return func(a, b *Invoice) bool { return a.ServiceDate.Before(b.ServiceDate) }
	case "client":
		return func(a, b *Invoice) bool { return listquery.CompareStrings(a.ClientName, b.ClientName) }
	case "total":
		return func(a, b *Invoice) bool { return a.TotalCents < b.TotalCents }
	case "balance":
		return func(a, b *Invoice) bool { return a.BalanceCents() < b.BalanceCents() }
	case "status":
		return func(a, b *Invoice) bool { return a.Status < b.Status }
	default:
		return nil
	}
}
