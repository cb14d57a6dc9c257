package itemrequest

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.NotFound("request not found")
	ErrDescriptionRequired = apperror.Validation("description is required")
)

// ItemRequest is a user's ask for an item nobody offers yet.
type ItemRequest struct {
	ID          string
	Description string
	RequesterID string
	CreatedAt   time.Time
}

// WithItems is a request together with the items created in answer to it.
type WithItems struct {
	Request *ItemRequest
	Items   []*item.Item
}
