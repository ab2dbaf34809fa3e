package notification

import (
	"context"
	"sort"
	"sync"
	"time"
)

type repoMem struct {
	mu      sync.RWMutex
	records []*Notification
}

func NewRepoMem(seed []*Notification) Repository {
	records := make([]*Notification, len(seed))
	for i, n := range seed {
		cp := *n
		records[i] = &cp
	}
	return &repoMem{records: records}
}

func (r *repoMem) Create(_ context.Context, n *Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var max int64
	for _, cur := range r.records {
		if cur.ID > max {
			max = cur.ID
		}
	}
	n.ID = max + 1
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	cp := *n
	r.records = append(r.records, &cp)
	return nil
}

func (r *repoMem) ListForUser(_ context.Context, userID string) ([]*Notification, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Notification
	unread := 0
	for _, n := range r.records {
		if n.UserID != userID {
			continue
		}
		cp := *n
		out = append(out, &cp)
		if !n.Read {
			unread++
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, unread, nil
}

func (r *repoMem) MarkRead(_ context.Context, userID string, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.records {
		if n.ID == id && n.UserID == userID {
			n.Read = true
			return nil
		}
	}
	return ErrNotFound
}

func (r *repoMem) MarkAllRead(_ context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.records {
		if n.UserID == userID && !n.Read {
			n.Read = true
			count++
		}
	}
	return count, nil
}

func (r *repoMem) Delete(_ context.Context, userID string, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.records {
		if n.ID == id && n.UserID == userID {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *repoMem) ClearAll(_ context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.records[:0]
	removed := 0
	for _, n := range r.records {
		if n.UserID == userID {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	r.records = kept
	return removed, nil
}
