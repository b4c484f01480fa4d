package dto

// Response is the success envelope every JSON endpoint returns
type Response struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
}

// ErrorResponse is the failure envelope
type ErrorResponse struct {
	Status string            `json:"status"`
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// ListResponse is a paginated result
type ListResponse[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

// NewListResponse computes the page count for a result set.
func NewListResponse[T any](items []T, total int64, page, pageSize int) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize > 0 {
			totalPages++
		}
	}
	return ListResponse[T]{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// PageQuery is the shared pagination query string
type PageQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"pageSize" binding:"omitempty,min=1,max=100"`
}

// StatusRequest changes a row's status
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PublishingStatusRequest changes a listing's or project's publishing status
type PublishingStatusRequest struct {
	PublishingStatus string `json:"publishingStatus" binding:"required"`
}
