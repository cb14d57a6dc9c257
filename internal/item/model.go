package item

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.NotFound("item not found")
	ErrRequestNotFound     = apperror.NotFound("request not found")
	ErrNameRequired        = apperror.Validation("name is required")
	ErrDescriptionRequired = apperror.Validation("description is required")
	ErrCommentTextRequired = apperror.Validation("comment text is required")
	ErrCommentNotAllowed   = apperror.Validation("user has no finished booking of this item")
)

// Item is a thing a user offers for sharing.
type Item struct {
	ID          string
	Name        string
	Description string
	Available   bool
	OwnerID     string
	RequestID   *string // set when the item was added in answer to a request
	CreatedAt   time.Time
}

// Comment is feedback left by a user who has finished a booking of the item.
type Comment struct {
	ID         string
	Text       string
	ItemID     string
	AuthorID   string
	AuthorName string
	CreatedAt  time.Time
}

// Details is an item together with its comments and, for the owner, the
// adjacent approved bookings.
type Details struct {
	Item     *Item
	Adjacent booking.Adjacent
	Comments []*Comment
}
