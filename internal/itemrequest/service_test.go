package itemrequest

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

var base = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

type memoryRepository struct {
	requests []*ItemRequest
}

func (r *memoryRepository) Create(_ context.Context, req *ItemRequest) error {
	req.ID = fmt.Sprintf("request-%d", len(r.requests)+1)
	req.CreatedAt = base.Add(time.Duration(len(r.requests)) * time.Minute)
	cp := *req
	r.requests = append(r.requests, &cp)
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id string) (*ItemRequest, error) {
	for _, req := range r.requests {
		if req.ID == id {
			return req, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryRepository) newest(keep func(*ItemRequest) bool) []*ItemRequest {
	var out []*ItemRequest
	for _, req := range r.requests {
		if keep(req) {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *memoryRepository) ListByRequester(_ context.Context, requesterID string) ([]*ItemRequest, error) {
	return r.newest(func(req *ItemRequest) bool { return req.RequesterID == requesterID }), nil
}

func (r *memoryRepository) ListOthers(_ context.Context, userID string, offset, limit int) ([]*ItemRequest, error) {
	all := r.newest(func(req *ItemRequest) bool { return req.RequesterID != userID })
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

type fakeUsers map[string]*user.User

func (f fakeUsers) GetByID(_ context.Context, id string) (*user.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, user.ErrNotFound
}

type fakeItems struct {
	byRequest map[string][]*item.Item
	calls     int
}

func (f *fakeItems) ListByRequests(_ context.Context, ids []string) (map[string][]*item.Item, error) {
	f.calls++
	out := map[string][]*item.Item{}
	for _, id := range ids {
		if its, ok := f.byRequest[id]; ok {
			out[id] = its
		}
	}
	return out, nil
}

func newService() (Service, *fakeItems) {
	items := &fakeItems{byRequest: map[string][]*item.Item{}}
	users := fakeUsers{"alice": {ID: "alice"}, "bob": {ID: "bob"}}
	return NewService(&memoryRepository{}, users, items), items
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	r, err := svc.Create(ctx, "alice", "  need a tent ")
	require.NoError(t, err)
	assert.Equal(t, "need a tent", r.Request.Description)
	assert.NotNil(t, r.Items)
	assert.Empty(t, r.Items)

	_, err = svc.Create(ctx, "alice", " ")
	assert.ErrorIs(t, err, ErrDescriptionRequired)

	_, err = svc.Create(ctx, "ghost", "need a tent")
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestListOwnAndOthers(t *testing.T) {
	ctx := context.Background()
	svc, items := newService()

	first, err := svc.Create(ctx, "alice", "tent")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "alice", "stove")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "bob", "kayak")
	require.NoError(t, err)

	items.byRequest[first.Request.ID] = []*item.Item{{ID: "item-1", Name: "Tent", OwnerID: "bob"}}

	own, err := svc.ListOwn(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Equal(t, "stove", own[0].Request.Description, "newest first")
	assert.Empty(t, own[0].Items)
	assert.Len(t, own[1].Items, 1)
	assert.Equal(t, 1, items.calls, "items are loaded in one grouped query")

	others, err := svc.ListOthers(ctx, "bob", 0, 10)
	require.NoError(t, err)
	assert.Len(t, others, 2)

	others, err = svc.ListOthers(ctx, "bob", 1, 10)
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.Equal(t, "tent", others[0].Request.Description)

	others, err = svc.ListOthers(ctx, "alice", 0, 0)
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.Equal(t, "kayak", others[0].Request.Description)
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	created, err := svc.Create(ctx, "alice", "tent")
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, created.Request.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, "tent", got.Request.Description)

	_, err = svc.GetByID(ctx, "missing", "bob")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetByID(ctx, created.Request.ID, "ghost")
	assert.ErrorIs(t, err, user.ErrNotFound)
}
