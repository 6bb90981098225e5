package api

// PageMeta describes where a page sits in the full result set.
// @Description Pagination metadata
type PageMeta struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int64 `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// PaginatedResponse wraps a page of results with its metadata.
// @Description Paginated collection response
type PaginatedResponse struct {
	Data any      `json:"data"`
	Meta PageMeta `json:"meta"`
}

// ErrorResponse represents all API error responses. Stack is only set in
// development.
// @Description Standard error response
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// NewPageMeta computes page counts for totalItems split into pages of limit.
// A limit below 1 yields zero pages.
func NewPageMeta(page, limit int, totalItems int64) PageMeta {
	var totalPages int64
	if limit > 0 && totalItems > 0 {
		l := int64(limit)
		totalPages = (totalItems + l - 1) / l
	}

	return PageMeta{
		Page:        page,
		Limit:       limit,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		HasNextPage: int64(page) < totalPages,
		HasPrevPage: page > 1,
	}
}

func NewPaginatedResponse(data any, page, limit int, totalItems int64) *PaginatedResponse {
	return &PaginatedResponse{
		Data: data,
		Meta: NewPageMeta(page, limit, totalItems),
	}
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		Error:   true,
		Message: message,
	}
}
