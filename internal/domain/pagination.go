package domain

// Page is a 1-based page request
type Page struct {
	Number int
	Limit  int
}

// NewPage normalises raw paging input; non-positive values fall back to
// page 1 and defaultLimit, and the limit is clamped to maxLimit when set.
func NewPage(number, limit, defaultLimit, maxLimit int) Page {
	if number < 1 {
		number = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return Page{Number: number, Limit: limit}
}

// Offset is the number of rows to skip
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// TotalPages is ceil(total / limit)
func (p Page) TotalPages(total int) int {
	if total <= 0 || p.Limit <= 0 {
		return 0
	}
	return (total + p.Limit - 1) / p.Limit
}
