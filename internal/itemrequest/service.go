package itemrequest

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

const defaultPageSize = 10

type UserLookup interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// ItemLister finds items created in answer to requests.
type ItemLister interface {
	ListByRequests(ctx context.Context, requestIDs []string) (map[string][]*item.Item, error)
}

type Service interface {
	Create(ctx context.Context, requesterID, description string) (*WithItems, error)
	GetByID(ctx context.Context, requestID, userID string) (*WithItems, error)
	ListOwn(ctx context.Context, requesterID string) ([]*WithItems, error)
	ListOthers(ctx context.Context, userID string, offset, limit int) ([]*WithItems, error)
}

type service struct {
	repo  Repository
	users UserLookup
	items ItemLister
}

func NewService(repo Repository, users UserLookup, items ItemLister) Service {
	return &service{
		repo:  repo,
		users: users,
		items: items,
	}
}

func (s *service) Create(ctx context.Context, requesterID, description string) (*WithItems, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}
	if _, err := s.users.GetByID(ctx, requesterID); err != nil {
		return nil, err
	}

	req := &ItemRequest{
		Description: description,
		RequesterID: requesterID,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().Str("request_id", req.ID).Str("requester_id", requesterID).Msg("item request created")
	return &WithItems{Request: req, Items: []*item.Item{}}, nil
}

func (s *service) GetByID(ctx context.Context, requestID, userID string) (*WithItems, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	result, err := s.attachItems(ctx, []*ItemRequest{req})
	if err != nil {
		return nil, err
	}
	return result[0], nil
}

func (s *service) ListOwn(ctx context.Context, requesterID string) ([]*WithItems, error) {
	if _, err := s.users.GetByID(ctx, requesterID); err != nil {
		return nil, err
	}

	reqs, err := s.repo.ListByRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, reqs)
}

func (s *service) ListOthers(ctx context.Context, userID string, offset, limit int) ([]*WithItems, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	reqs, err := s.repo.ListOthers(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, reqs)
}

// attachItems loads the answering items of all requests in one query.
func (s *service) attachItems(ctx context.Context, reqs []*ItemRequest) ([]*WithItems, error) {
	ids := make([]string, len(reqs))
	for i, r := range reqs {
		ids[i] = r.ID
	}

	grouped, err := s.items.ListByRequests(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]*WithItems, len(reqs))
	for i, r := range reqs {
		items := grouped[r.ID]
		if items == nil {
			items = []*item.Item{}
		}
		result[i] = &WithItems{Request: r, Items: items}
	}
	return result, nil
}
