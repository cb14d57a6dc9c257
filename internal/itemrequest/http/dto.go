package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
)

type CreateRequest struct {
	Description string `json:"description" binding:"required"`
}

type ListOthersRequest struct {
	request.PageParams
}

// AnswerResponse is an item created in answer to a request.
type AnswerResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	OwnerID string `json:"owner_id"`
}

type ItemRequestResponse struct {
	ID          string           `json:"id"`
	Description string           `json:"description"`
	RequesterID string           `json:"requester_id"`
	CreatedAt   time.Time        `json:"created"`
	Items       []AnswerResponse `json:"items"`
}

func NewItemRequestResponse(r *itemrequest.WithItems) ItemRequestResponse {
	answers := make([]AnswerResponse, len(r.Items))
	for i, it := range r.Items {
		answers[i] = AnswerResponse{ID: it.ID, Name: it.Name, OwnerID: it.OwnerID}
	}
	return ItemRequestResponse{
		ID:          r.Request.ID,
		Description: r.Request.Description,
		RequesterID: r.Request.RequesterID,
		CreatedAt:   r.Request.CreatedAt,
		Items:       answers,
	}
}

func newList(rs []*itemrequest.WithItems) []ItemRequestResponse {
	out := make([]ItemRequestResponse, len(rs))
	for i, r := range rs {
		out[i] = NewItemRequestResponse(r)
	}
	return out
}
