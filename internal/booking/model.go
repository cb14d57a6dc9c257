package booking

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.NotFound("booking not found")
	ErrItemNotFound     = apperror.NotFound("item not found")
	ErrItemUnavailable  = apperror.Validation("item is not available for booking")
	ErrInvalidTimeRange = apperror.Validation("start time must be before end time")
	ErrAlreadyDecided   = apperror.InvalidState("booking is not waiting for approval")
)

// Status is the persisted lifecycle field of a booking.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	// StatusCanceled is accepted by the schema but no operation sets it.
	StatusCanceled Status = "CANCELED"
)

// Booking is a reservation of an item by a user for [StartTime, EndTime).
// ItemName, ItemOwnerID and BookerName are read through joins and never written.
type Booking struct {
	ID          string
	ItemID      string
	ItemName    string
	ItemOwnerID string
	BookerID    string
	BookerName  string
	StartTime   time.Time
	EndTime     time.Time
	Status      Status
	CreatedAt   time.Time
}

// Role selects which relation to a booking a query subject has.
type Role int

const (
	RoleBooker Role = iota
	RoleOwner
)

func (r Role) String() string {
	if r == RoleOwner {
		return "owner"
	}
	return "booker"
}

// Page is an offset/limit window over a result set.
type Page struct {
	Offset int
	Limit  int
}

// Query selects the bookings a subject sees in a given state at a fixed instant.
type Query struct {
	Role      Role
	SubjectID string
	State     State
	Now       time.Time
	Page      Page
}
