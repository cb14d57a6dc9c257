package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

var testNow = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	repo  *memoryRepository
	svc   Service
	owner *user.User
	other *user.User
	drill *Bookable
}

func newFixture() *fixture {
	owner := &user.User{ID: "owner", Name: "Olga"}
	booker := &user.User{ID: "booker", Name: "Boris"}
	other := &user.User{ID: "other", Name: "Oleg"}

	drill := &Bookable{ID: "drill", Name: "Drill", OwnerID: owner.ID, Available: true}
	items := fakeItems{
		drill.ID: drill,
		"saw":    {ID: "saw", Name: "Saw", OwnerID: owner.ID, Available: false},
	}

	repo := newMemoryRepository()
	svc := NewService(repo, fakeUsers{owner.ID: owner, booker.ID: booker, other.ID: other}, items, clock.Fixed(testNow))

	return &fixture{repo: repo, svc: svc, owner: owner, other: other, drill: drill}
}

func (f *fixture) seed(id, bookerID string, start, end time.Time, status Status) *Booking {
	return f.repo.put(&Booking{
		ID:          id,
		ItemID:      f.drill.ID,
		ItemName:    f.drill.Name,
		ItemOwnerID: f.drill.OwnerID,
		BookerID:    bookerID,
		StartTime:   start,
		EndTime:     end,
		Status:      status,
	})
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	day := 24 * time.Hour

	t.Run("success starts waiting", func(t *testing.T) {
		f := newFixture()
		b, err := f.svc.Create(ctx, CreateRequest{
			BookerID:  "booker",
			ItemID:    "drill",
			StartTime: testNow.Add(day),
			EndTime:   testNow.Add(2 * day),
		})
		require.NoError(t, err)
		assert.NotEmpty(t, b.ID)
		assert.Equal(t, StatusWaiting, b.Status)
		assert.Equal(t, "Boris", b.BookerName)
		assert.Equal(t, "owner", b.ItemOwnerID)
	})

	tests := []struct {
		name    string
		req     CreateRequest
		wantErr error
		kind    error
	}{
		{
			name:    "unknown booker",
			req:     CreateRequest{BookerID: "ghost", ItemID: "drill", StartTime: testNow.Add(day), EndTime: testNow.Add(2 * day)},
			wantErr: user.ErrNotFound,
			kind:    apperror.ErrNotFound,
		},
		{
			name:    "unknown item",
			req:     CreateRequest{BookerID: "booker", ItemID: "ghost", StartTime: testNow.Add(day), EndTime: testNow.Add(2 * day)},
			wantErr: ErrItemNotFound,
			kind:    apperror.ErrNotFound,
		},
		{
			name:    "item unavailable",
			req:     CreateRequest{BookerID: "booker", ItemID: "saw", StartTime: testNow.Add(day), EndTime: testNow.Add(2 * day)},
			wantErr: ErrItemUnavailable,
			kind:    apperror.ErrValidation,
		},
		{
			name:    "owner books own item",
			req:     CreateRequest{BookerID: "owner", ItemID: "drill", StartTime: testNow.Add(day), EndTime: testNow.Add(2 * day)},
			wantErr: ErrItemNotFound,
			kind:    apperror.ErrNotFound,
		},
		{
			name: "end before start",
			req: CreateRequest{
				BookerID:  "booker",
				ItemID:    "drill",
				StartTime: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC),
				EndTime:   time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
			},
			wantErr: ErrInvalidTimeRange,
			kind:    apperror.ErrValidation,
		},
		{
			name:    "end equals start",
			req:     CreateRequest{BookerID: "booker", ItemID: "drill", StartTime: testNow.Add(day), EndTime: testNow.Add(day)},
			wantErr: ErrInvalidTimeRange,
			kind:    apperror.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.svc.Create(ctx, tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, tt.kind)
			assert.Zero(t, f.repo.writes)
		})
	}

	t.Run("owner message reads item not found", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Create(ctx, CreateRequest{BookerID: "owner", ItemID: "drill", StartTime: testNow.Add(day), EndTime: testNow.Add(2 * day)})
		assert.EqualError(t, err, "item not found")
	})
}

func TestDecide(t *testing.T) {
	ctx := context.Background()
	day := 24 * time.Hour

	t.Run("approve and reject", func(t *testing.T) {
		f := newFixture()
		f.seed("b1", "booker", testNow.Add(day), testNow.Add(2*day), StatusWaiting)
		f.seed("b2", "booker", testNow.Add(3*day), testNow.Add(4*day), StatusWaiting)

		b, err := f.svc.Decide(ctx, "b1", "owner", true)
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, b.Status)

		b, err = f.svc.Decide(ctx, "b2", "owner", false)
		require.NoError(t, err)
		assert.Equal(t, StatusRejected, b.Status)

		stored, _ := f.repo.GetByID(ctx, "b1")
		assert.Equal(t, StatusApproved, stored.Status)
		assert.Equal(t, 2, f.repo.writes, "one write per decision")
	})

	t.Run("decided booking cannot be re-decided by anyone", func(t *testing.T) {
		for _, status := range []Status{StatusApproved, StatusRejected, StatusCanceled} {
			f := newFixture()
			f.seed("b1", "booker", testNow.Add(day), testNow.Add(2*day), status)

			for _, approve := range []bool{true, false} {
				_, err := f.svc.Decide(ctx, "b1", "owner", approve)
				assert.ErrorIs(t, err, ErrAlreadyDecided)
				assert.ErrorIs(t, err, apperror.ErrInvalidState)
			}

			stored, _ := f.repo.GetByID(ctx, "b1")
			assert.Equal(t, status, stored.Status, "status never changes after the decision")
		}
	})

	t.Run("non owner gets not found", func(t *testing.T) {
		f := newFixture()
		f.seed("b1", "booker", testNow.Add(day), testNow.Add(2*day), StatusWaiting)

		for _, actor := range []string{"other", "booker"} {
			_, err := f.svc.Decide(ctx, "b1", actor, true)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, err, apperror.ErrNotFound)
		}

		stored, _ := f.repo.GetByID(ctx, "b1")
		assert.Equal(t, StatusWaiting, stored.Status)
	})

	t.Run("missing booking", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Decide(ctx, "nope", "owner", true)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown acting user", func(t *testing.T) {
		f := newFixture()
		f.seed("b1", "booker", testNow.Add(day), testNow.Add(2*day), StatusWaiting)
		_, err := f.svc.Decide(ctx, "b1", "ghost", true)
		assert.ErrorIs(t, err, user.ErrNotFound)
	})

	t.Run("concurrent decisions succeed once", func(t *testing.T) {
		f := newFixture()
		f.seed("b1", "booker", testNow.Add(day), testNow.Add(2*day), StatusWaiting)

		const n = 8
		var wg sync.WaitGroup
		errs := make([]error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = f.svc.Decide(ctx, "b1", "owner", i%2 == 0)
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, apperror.ErrInvalidState)
		}
		assert.Equal(t, 1, succeeded)
	})
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.seed("b1", "booker", testNow.Add(time.Hour), testNow.Add(2*time.Hour), StatusWaiting)

	for _, viewer := range []string{"booker", "owner"} {
		b, err := f.svc.GetByID(ctx, "b1", viewer)
		require.NoError(t, err)
		assert.Equal(t, "b1", b.ID)
	}

	_, err := f.svc.GetByID(ctx, "b1", "other")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.GetByID(ctx, "missing", "booker")
	assert.ErrorIs(t, err, ErrNotFound)
}

func ids(bookings []*Booking) []string {
	out := make([]string, len(bookings))
	for i, b := range bookings {
		out[i] = b.ID
	}
	return out
}

func seedTimeline(f *fixture) {
	day := 24 * time.Hour
	f.seed("past", "booker", testNow.Add(-3*day), testNow.Add(-2*day), StatusApproved)
	f.seed("ended-now", "booker", testNow.Add(-day), testNow, StatusApproved)
	f.seed("current", "booker", testNow.Add(-time.Hour), testNow.Add(time.Hour), StatusApproved)
	f.seed("future-waiting", "booker", testNow.Add(day), testNow.Add(2*day), StatusWaiting)
	f.seed("future-rejected", "booker", testNow.Add(3*day), testNow.Add(4*day), StatusRejected)
	f.seed("someone-else", "other", testNow.Add(5*day), testNow.Add(6*day), StatusWaiting)
}

func TestFindForBooker(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	seedTimeline(f)
	page := Page{Offset: 0, Limit: 10}

	tests := []struct {
		state string
		want  []string
	}{
		{"ALL", []string{"future-rejected", "future-waiting", "current", "ended-now", "past"}},
		{"CURRENT", []string{"current"}},
		{"PAST", []string{"ended-now", "past"}},
		{"FUTURE", []string{"future-rejected", "future-waiting"}},
		{"WAITING", []string{"future-waiting"}},
		{"REJECTED", []string{"future-rejected"}},
	}

	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			got, err := f.svc.FindForBooker(ctx, "booker", tt.state, page)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFindForOwner(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	seedTimeline(f)

	got, err := f.svc.FindForOwner(ctx, "owner", "ALL", Page{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, got, 6, "owner sees bookings of every booker")

	got, err = f.svc.FindForOwner(ctx, "owner", "WAITING", Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"someone-else", "future-waiting"}, ids(got))

	got, err = f.svc.FindForOwner(ctx, "booker", "ALL", Page{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, got, "bookers own no items")
}

func TestFindAllIsSupersetOfOtherStates(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	seedTimeline(f)
	page := Page{Limit: 100}

	all, err := f.svc.FindForOwner(ctx, "owner", "ALL", page)
	require.NoError(t, err)
	allIDs := map[string]bool{}
	for _, b := range all {
		allIDs[b.ID] = true
	}

	timeBuckets := map[string]string{}
	for _, st := range []string{"CURRENT", "PAST", "FUTURE", "WAITING", "REJECTED"} {
		got, err := f.svc.FindForOwner(ctx, "owner", st, page)
		require.NoError(t, err)
		for _, b := range got {
			assert.True(t, allIDs[b.ID], "%s returned %s which ALL did not", st, b.ID)
			if st == "CURRENT" || st == "PAST" || st == "FUTURE" {
				prev, dup := timeBuckets[b.ID]
				assert.False(t, dup, "%s classified as both %s and %s", b.ID, prev, st)
				timeBuckets[b.ID] = st
			}
		}
	}
	assert.Len(t, timeBuckets, len(allIDs), "every booking lands in one time bucket")
}

func TestFindPagination(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	seedTimeline(f)

	first, err := f.svc.FindForBooker(ctx, "booker", "ALL", Page{Offset: 0, Limit: 2})
	require.NoError(t, err)
	second, err := f.svc.FindForBooker(ctx, "booker", "ALL", Page{Offset: 2, Limit: 2})
	require.NoError(t, err)
	third, err := f.svc.FindForBooker(ctx, "booker", "ALL", Page{Offset: 4, Limit: 2})
	require.NoError(t, err)

	assert.Equal(t, []string{"future-rejected", "future-waiting"}, ids(first))
	assert.Equal(t, []string{"current", "ended-now"}, ids(second))
	assert.Equal(t, []string{"past"}, ids(third))
}

func TestFindErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.svc.FindForOwner(ctx, "owner", "ERROR", Page{Offset: 0, Limit: 10})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrInvalidArgument))
	assert.EqualError(t, err, "Unknown state: ERROR")

	_, err = f.svc.FindForBooker(ctx, "ghost", "ALL", Page{Limit: 10})
	assert.ErrorIs(t, err, user.ErrNotFound)

	_, err = f.svc.FindForOwner(ctx, "ghost", "CURRENT", Page{Limit: 10})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
