package request

// ByIDRequest is a common struct for endpoints that require an ID path parameter.
type ByIDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// PageParams holds the offset-based pagination query parameters.
// Size defaults to DefaultPageSize when omitted.
type PageParams struct {
	From int `form:"from" binding:"min=0"`
	Size int `form:"size" binding:"omitempty,min=1,max=100"`
}

const DefaultPageSize = 10

// Normalize fills in the default size.
func (p *PageParams) Normalize() {
	if p.Size == 0 {
		p.Size = DefaultPageSize
	}
}
