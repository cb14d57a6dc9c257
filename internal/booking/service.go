package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nekogravitycat/shareit-backend/internal/metrics"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type CreateRequest struct {
	BookerID  string
	ItemID    string
	StartTime time.Time
	EndTime   time.Time
}

// Bookable is the view of an item the booking flow needs.
type Bookable struct {
	ID        string
	Name      string
	OwnerID   string
	Available bool
}

// ItemLookup resolves items for booking creation.
type ItemLookup interface {
	GetBookable(ctx context.Context, itemID string) (*Bookable, error)
}

// UserLookup resolves users; a missing user is reported as a NotFound AppError.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	// Decide approves or rejects a waiting booking on behalf of the item owner.
	Decide(ctx context.Context, bookingID, actingUserID string, approve bool) (*Booking, error)
	// GetByID returns a booking visible to its booker or the item owner.
	GetByID(ctx context.Context, bookingID, userID string) (*Booking, error)
	FindForBooker(ctx context.Context, bookerID, state string, page Page) ([]*Booking, error)
	FindForOwner(ctx context.Context, ownerID, state string, page Page) ([]*Booking, error)
}

type service struct {
	repo  Repository
	users UserLookup
	items ItemLookup
	clock clock.Clock
}

func NewService(repo Repository, users UserLookup, items ItemLookup, clk clock.Clock) Service {
	return &service{
		repo:  repo,
		users: users,
		items: items,
		clock: clk,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	booker, err := s.users.GetByID(ctx, req.BookerID)
	if err != nil {
		return nil, err
	}

	item, err := s.items.GetBookable(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	if !item.Available {
		return nil, ErrItemUnavailable
	}
	// Owners cannot book their own items; report it the same way as a missing item.
	if item.OwnerID == booker.ID {
		return nil, ErrItemNotFound
	}
	if !req.StartTime.Before(req.EndTime) {
		return nil, ErrInvalidTimeRange
	}

	b := &Booking{
		ItemID:      item.ID,
		ItemName:    item.Name,
		ItemOwnerID: item.OwnerID,
		BookerID:    booker.ID,
		BookerName:  booker.Name,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Status:      StatusWaiting,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().
		Str("booking_id", b.ID).
		Str("item_id", b.ItemID).
		Str("booker_id", b.BookerID).
		Msg("booking created")
	return b, nil
}

func (s *service) Decide(ctx context.Context, bookingID, actingUserID string, approve bool) (*Booking, error) {
	if _, err := s.users.GetByID(ctx, actingUserID); err != nil {
		return nil, err
	}

	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if b.ItemOwnerID != actingUserID {
		return nil, ErrNotFound
	}
	if b.Status != StatusWaiting {
		return nil, ErrAlreadyDecided
	}

	next := StatusRejected
	if approve {
		next = StatusApproved
	}

	// The write is conditional on the status still being WAITING,
	// so a concurrent decision on the same booking fails here.
	if err := s.repo.UpdateStatus(ctx, b.ID, StatusWaiting, next); err != nil {
		return nil, err
	}
	b.Status = next

	metrics.IncBookingDecision(strings.ToLower(string(next)))
	log.Ctx(ctx).Info().
		Str("booking_id", b.ID).
		Str("status", string(next)).
		Msg("booking decided")
	return b, nil
}

func (s *service) GetByID(ctx context.Context, bookingID, userID string) (*Booking, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if b.BookerID != userID && b.ItemOwnerID != userID {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *service) FindForBooker(ctx context.Context, bookerID, state string, page Page) ([]*Booking, error) {
	return s.find(ctx, RoleBooker, bookerID, state, page)
}

func (s *service) FindForOwner(ctx context.Context, ownerID, state string, page Page) ([]*Booking, error) {
	return s.find(ctx, RoleOwner, ownerID, state, page)
}

// find answers both booker and owner queries. The reference instant is taken
// once so every row of the page is classified against the same now.
func (s *service) find(ctx context.Context, role Role, subjectID, rawState string, page Page) ([]*Booking, error) {
	st, err := ParseState(rawState)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.GetByID(ctx, subjectID); err != nil {
		return nil, err
	}

	return s.repo.List(ctx, Query{
		Role:      role,
		SubjectID: subjectID,
		State:     st,
		Now:       s.clock.Now(),
		Page:      page,
	})
}
