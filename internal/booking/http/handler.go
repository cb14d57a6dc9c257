package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
	clock   clock.Clock
}

func NewHandler(service booking.Service, clk clock.Clock) *Handler {
	return &Handler{
		service: service,
		clock:   clk,
	}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	if err := body.Validate(h.clock.Now()); err != nil {
		response.Error(c, err)
		return
	}

	b, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		BookerID:  auth.GetUserID(c),
		ItemID:    body.ItemID,
		StartTime: body.StartTime,
		EndTime:   body.EndTime,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

// Decide lets the item owner approve or reject a waiting booking.
func (h *Handler) Decide(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var query DecideRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	b, err := h.service.Decide(c.Request.Context(), uri.ID, auth.GetUserID(c), *query.Approved)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), uri.ID, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// ListForBooker lists the caller's own bookings in the requested state.
func (h *Handler) ListForBooker(c *gin.Context) {
	h.list(c, h.service.FindForBooker)
}

// ListForOwner lists bookings of the caller's items in the requested state.
func (h *Handler) ListForOwner(c *gin.Context) {
	h.list(c, h.service.FindForOwner)
}

type findFunc func(ctx context.Context, subjectID, state string, page booking.Page) ([]*booking.Booking, error)

func (h *Handler) list(c *gin.Context, find findFunc) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	req.Normalize()

	bookings, err := find(c.Request.Context(), auth.GetUserID(c), req.State, booking.Page{
		Offset: req.From,
		Limit:  req.Size,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}
	c.JSON(http.StatusOK, items)
}
