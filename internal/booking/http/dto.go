package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	userHttp "github.com/nekogravitycat/shareit-backend/internal/user/http"
)

var (
	ErrStartTimePast = apperror.Validation("start time cannot be in the past")
	ErrEndTimePast   = apperror.Validation("end time must be in the future")
)

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	request.PageParams
	State string `form:"state"`
}

// Normalize applies defaults for omitted parameters.
func (r *ListBookingsRequest) Normalize() {
	r.PageParams.Normalize()
	if r.State == "" {
		r.State = string(booking.StateAll)
	}
}

// DecideRequest carries the owner's decision.
type DecideRequest struct {
	Approved *bool `form:"approved" binding:"required"`
}

type CreateBookingRequest struct {
	ItemID    string    `json:"item_id" binding:"required,uuid"`
	StartTime time.Time `json:"start" binding:"required"`
	EndTime   time.Time `json:"end" binding:"required"`
}

// Validate performs custom validation for CreateBookingRequest.
func (r *CreateBookingRequest) Validate(now time.Time) error {
	if r.StartTime.Before(now) {
		return ErrStartTimePast
	}
	if !r.EndTime.After(now) {
		return ErrEndTimePast
	}
	if !r.StartTime.Before(r.EndTime) {
		return booking.ErrInvalidTimeRange
	}
	return nil
}

// ItemTag is a brief representation of the booked item.
type ItemTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type BookingResponse struct {
	ID        string           `json:"id"`
	Item      ItemTag          `json:"item"`
	Booker    userHttp.UserTag `json:"booker"`
	StartTime time.Time        `json:"start"`
	EndTime   time.Time        `json:"end"`
	Status    string           `json:"status"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:        b.ID,
		Item:      ItemTag{ID: b.ItemID, Name: b.ItemName},
		Booker:    userHttp.UserTag{ID: b.BookerID, Name: b.BookerName},
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Status:    string(b.Status),
	}
}

// BookingTag is the short form used for the last/next annotations on items.
type BookingTag struct {
	ID        string    `json:"id"`
	BookerID  string    `json:"booker_id"`
	StartTime time.Time `json:"start"`
	EndTime   time.Time `json:"end"`
}

// NewBookingTag returns nil for a nil booking.
func NewBookingTag(b *booking.Booking) *BookingTag {
	if b == nil {
		return nil
	}
	return &BookingTag{
		ID:        b.ID,
		BookerID:  b.BookerID,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
	}
}
