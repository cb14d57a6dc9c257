package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// memoryRepository is an in-memory Repository that evaluates State.Matches
// where the pgx implementation evaluates statePredicate.
type memoryRepository struct {
	mu       sync.Mutex
	bookings map[string]*Booking
	seq      int
	writes   int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{bookings: make(map[string]*Booking)}
}

func (r *memoryRepository) put(b *Booking) *Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == "" {
		r.seq++
		b.ID = fmt.Sprintf("booking-%03d", r.seq)
	}
	cp := *b
	r.bookings[b.ID] = &cp
	return b
}

func (r *memoryRepository) Create(_ context.Context, b *Booking) error {
	r.put(b)
	r.mu.Lock()
	r.writes++
	r.mu.Unlock()
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *memoryRepository) List(_ context.Context, q Query) ([]*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*Booking
	for _, b := range r.bookings {
		subject := b.BookerID
		if q.Role == RoleOwner {
			subject = b.ItemOwnerID
		}
		if subject != q.SubjectID || !q.State.Matches(b, q.Now) {
			continue
		}
		cp := *b
		matched = append(matched, &cp)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].StartTime.Equal(matched[j].StartTime) {
			return matched[i].StartTime.After(matched[j].StartTime)
		}
		return matched[i].ID > matched[j].ID
	})

	limit := q.Page.Limit
	if limit < 1 {
		limit = defaultPageSize
	}
	if q.Page.Offset >= len(matched) {
		return nil, nil
	}
	end := q.Page.Offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[q.Page.Offset:end], nil
}

func (r *memoryRepository) UpdateStatus(_ context.Context, id string, from, to Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.Status != from {
		return ErrAlreadyDecided
	}
	b.Status = to
	r.writes++
	return nil
}

func (r *memoryRepository) ListApprovedByItems(_ context.Context, itemIDs []string) ([]*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		want[id] = true
	}

	var result []*Booking
	for _, b := range r.bookings {
		if want[b.ItemID] && b.Status == StatusApproved {
			cp := *b
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime.Before(result[j].StartTime) })
	return result, nil
}

func (r *memoryRepository) HasFinished(_ context.Context, bookerID, itemID string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.BookerID == bookerID && b.ItemID == itemID && b.Status == StatusApproved && StatePast.Matches(b, now) {
			return true, nil
		}
	}
	return false, nil
}

type fakeUsers map[string]*user.User

func (f fakeUsers) GetByID(_ context.Context, id string) (*user.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

type fakeItems map[string]*Bookable

// errItemMissing mirrors the NotFound kind the item service returns.
var errItemMissing = fmt.Errorf("lookup: %w", ErrItemNotFound)

func (f fakeItems) GetBookable(_ context.Context, id string) (*Bookable, error) {
	it, ok := f[id]
	if !ok {
		return nil, errItemMissing
	}
	return it, nil
}
