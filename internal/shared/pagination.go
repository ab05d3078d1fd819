// Package shared holds small helpers used across entity modules.
package shared

import (
	"math"
	"net/http"
	"strconv"
)

// DefaultPageSize bounds listings when the client does not ask for a limit.
const DefaultPageSize = 20

// MaxPageSize caps the per-page limit regardless of client input.
const MaxPageSize = 100

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NewPagination computes pagination metadata.
func NewPagination(page, limit, total int) Pagination {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}
	pages := int(math.Ceil(float64(total) / float64(limit)))
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// PageParams reads page/limit query parameters with bounds applied.
func PageParams(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

// Offset converts page/limit into a SQL offset.
func Offset(page, limit int) int {
	return (page - 1) * limit
}
