package shared

// Filter represents query filter options for list endpoints
type Filter struct {
	Page   int
	Limit  int
	SortBy string
	Search string
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Page:  1,
		Limit: 20,
	}
}

// Validate rejects out-of-range pagination parameters.
// Invalid values are an error, not something to clamp silently.
func (f Filter) Validate() error {
	if f.Page < 1 {
		return NewDomainError(ErrCodeValidation, "page must be at least 1")
	}
	if f.Limit <= 0 {
		return NewDomainError(ErrCodeValidation, "limit must be positive")
	}
	if f.Limit > 100 {
		return NewDomainError(ErrCodeValidation, "limit cannot exceed 100")
	}
	return nil
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// NewPaginated slices items for the requested page and computes page counts.
// Pages is at least 1 even for an empty result set.
func NewPaginated[T any](items []T, page, limit int) Paginated[T] {
	total := len(items)
	pages := total / limit
	if total%limit > 0 {
		pages++
	}
	if pages < 1 {
		pages = 1
	}

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return Paginated[T]{
		Items: items[start:end],
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: pages,
	}
}
