package types

// Filter - параметры списка из строки запроса.
type Filter struct {
	Search         string            `json:"search,omitempty"`
	Sort           map[string]string `json:"sort,omitempty"`
	Filter         map[string]string `json:"filter,omitempty"`
	DateFrom       string            `json:"date_from,omitempty"`
	DateTo         string            `json:"date_to,omitempty"`
	Limit          int               `json:"limit"`
	Offset         int               `json:"offset"`
	Page           int               `json:"page"`
	WithPagination bool              `json:"with_pagination"`
}

// Pagination - метаданные постраничного ответа.
type Pagination struct {
	TotalCount uint64 `json:"total_count"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"total_pages"`
}

// http://localhost:8080/api/equipment?search=dell&sort[value]=desc&filter[status]=active&date_from=2023-01-01&date_to=2023-12-31&limit=10&offset=0&withPagination=true
