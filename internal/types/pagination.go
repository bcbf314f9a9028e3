package types

// Pagination describes the slice of a paginated result set.
type Pagination struct {
	Page          int  `json:"page"`
	PageSize      int  `json:"size"`
	TotalElements int  `json:"totalElements"`
	TotalPages    int  `json:"totalPages"`
	Last          bool `json:"last"`
}

type PageResponse[T any] struct {
	Content    []T        `json:"content"`
	Pagination Pagination `json:"pagination"`
}

// NewPageResponse computes pagination metadata for one page of content.
func NewPageResponse[T any](content []T, page, pageSize, total int) *PageResponse[T] {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return &PageResponse[T]{
		Content: content,
		Pagination: Pagination{
			Page:          page,
			PageSize:      pageSize,
			TotalElements: total,
			TotalPages:    totalPages,
			Last:          page >= totalPages,
		},
	}
}
