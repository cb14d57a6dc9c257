package item

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type CreateRequest struct {
	OwnerID     string
	Name        string
	Description string
	Available   bool
	RequestID   *string
}

type UpdateRequest struct {
	Name        *string
	Description *string
	Available   *bool
}

type CommentRequest struct {
	ItemID   string
	AuthorID string
	Text     string
}

type UserLookup interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// BookingHistory is the read side of the booking store items depend on.
type BookingHistory interface {
	ListApprovedByItems(ctx context.Context, itemIDs []string) ([]*booking.Booking, error)
	HasFinished(ctx context.Context, bookerID, itemID string, now time.Time) (bool, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Item, error)
	// Update changes an item on behalf of its owner; other users get ErrNotFound.
	Update(ctx context.Context, itemID, userID string, req UpdateRequest) (*Item, error)
	// GetByID returns the item with comments. Adjacent bookings are filled only for the owner.
	GetByID(ctx context.Context, itemID, userID string) (*Details, error)
	ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]*Details, error)
	Search(ctx context.Context, text string, offset, limit int) ([]*Item, error)
	// ListByRequests groups items created in answer to the given requests by request ID.
	ListByRequests(ctx context.Context, requestIDs []string) (map[string][]*Item, error)
	AddComment(ctx context.Context, req CommentRequest) (*Comment, error)

	// GetBookable satisfies booking.ItemLookup.
	GetBookable(ctx context.Context, itemID string) (*booking.Bookable, error)
}

type service struct {
	repo     Repository
	users    UserLookup
	bookings BookingHistory
	clock    clock.Clock
}

func NewService(repo Repository, users UserLookup, bookings BookingHistory, clk clock.Clock) Service {
	return &service{
		repo:     repo,
		users:    users,
		bookings: bookings,
		clock:    clk,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Item, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}

	if _, err := s.users.GetByID(ctx, req.OwnerID); err != nil {
		return nil, err
	}

	it := &Item{
		Name:        name,
		Description: description,
		Available:   req.Available,
		OwnerID:     req.OwnerID,
		RequestID:   req.RequestID,
	}
	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().Str("item_id", it.ID).Str("owner_id", it.OwnerID).Msg("item created")
	return it, nil
}

func (s *service) Update(ctx context.Context, itemID, userID string, req UpdateRequest) (*Item, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it.OwnerID != userID {
		return nil, ErrNotFound
	}

	// Blank strings are treated as "not sent".
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		it.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil && strings.TrimSpace(*req.Description) != "" {
		it.Description = strings.TrimSpace(*req.Description)
	}
	if req.Available != nil {
		it.Available = *req.Available
	}

	if err := s.repo.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) GetByID(ctx context.Context, itemID, userID string) (*Details, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	details, err := s.annotate(ctx, []*Item{it}, it.OwnerID == userID)
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

func (s *service) ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]*Details, error) {
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	items, err := s.repo.ListByOwner(ctx, ownerID, offset, limit)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, items, true)
}

// annotate attaches comments and, when withBookings is set, adjacent bookings
// to every item using one grouped query per relation.
func (s *service) annotate(ctx context.Context, items []*Item, withBookings bool) ([]*Details, error) {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}

	comments, err := s.repo.ListCommentsByItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	byItem := make(map[string][]*Comment, len(items))
	for _, c := range comments {
		byItem[c.ItemID] = append(byItem[c.ItemID], c)
	}

	var adjacent map[string]booking.Adjacent
	if withBookings {
		approved, err := s.bookings.ListApprovedByItems(ctx, ids)
		if err != nil {
			return nil, err
		}
		adjacent = booking.ResolveByItem(approved, s.clock.Now())
	}

	details := make([]*Details, len(items))
	for i, it := range items {
		details[i] = &Details{
			Item:     it,
			Adjacent: adjacent[it.ID],
			Comments: byItem[it.ID],
		}
	}
	return details, nil
}

func (s *service) Search(ctx context.Context, text string, offset, limit int) ([]*Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []*Item{}, nil
	}
	return s.repo.Search(ctx, text, offset, limit)
}

func (s *service) ListByRequests(ctx context.Context, requestIDs []string) (map[string][]*Item, error) {
	items, err := s.repo.ListByRequestIDs(ctx, requestIDs)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]*Item, len(requestIDs))
	for _, it := range items {
		if it.RequestID != nil {
			grouped[*it.RequestID] = append(grouped[*it.RequestID], it)
		}
	}
	return grouped, nil
}

func (s *service) AddComment(ctx context.Context, req CommentRequest) (*Comment, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrCommentTextRequired
	}

	author, err := s.users.GetByID(ctx, req.AuthorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByID(ctx, req.ItemID); err != nil {
		return nil, err
	}

	finished, err := s.bookings.HasFinished(ctx, author.ID, req.ItemID, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if !finished {
		return nil, ErrCommentNotAllowed
	}

	c := &Comment{
		Text:       text,
		ItemID:     req.ItemID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
	}
	if err := s.repo.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) GetBookable(ctx context.Context, itemID string) (*booking.Bookable, error) {
	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return &booking.Bookable{
		ID:        it.ID,
		Name:      it.Name,
		OwnerID:   it.OwnerID,
		Available: it.Available,
	}, nil
}
