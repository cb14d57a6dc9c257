package http

import (
	"time"

	bookingHttp "github.com/nekogravitycat/shareit-backend/internal/booking/http"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
)

type CreateItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Available   *bool   `json:"available" binding:"required"`
	RequestID   *string `json:"request_id" binding:"omitempty,uuid"`
}

// UpdateItemRequest uses pointers to distinguish "not sent" from a zero value.
type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type SearchItemsRequest struct {
	request.PageParams
	Text string `form:"text"`
}

type ListItemsRequest struct {
	request.PageParams
}

type CommentResponse struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created"`
}

func NewCommentResponse(c *item.Comment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		Text:       c.Text,
		AuthorName: c.AuthorName,
		CreatedAt:  c.CreatedAt,
	}
}

type ItemResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Available   bool    `json:"available"`
	RequestID   *string `json:"request_id"`
}

func NewItemResponse(it *item.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		RequestID:   it.RequestID,
	}
}

// ItemDetailsResponse adds comments and the owner-only booking annotations.
type ItemDetailsResponse struct {
	ItemResponse
	LastBooking *bookingHttp.BookingTag `json:"last_booking"`
	NextBooking *bookingHttp.BookingTag `json:"next_booking"`
	Comments    []CommentResponse       `json:"comments"`
}

func NewItemDetailsResponse(d *item.Details) ItemDetailsResponse {
	comments := make([]CommentResponse, len(d.Comments))
	for i, c := range d.Comments {
		comments[i] = NewCommentResponse(c)
	}
	return ItemDetailsResponse{
		ItemResponse: NewItemResponse(d.Item),
		LastBooking:  bookingHttp.NewBookingTag(d.Adjacent.Last),
		NextBooking:  bookingHttp.NewBookingTag(d.Adjacent.Next),
		Comments:     comments,
	}
}
