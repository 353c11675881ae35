package domain

// PaginationParams selects one page of a listing. A PageSize of 0 disables paging.
type PaginationParams struct {
	Page     int
	PageSize int
}

func (p PaginationParams) Offset() int {
	if p.Page < 1 || p.PageSize < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// Window returns the offset and row count of the page inside a result set
// capped at limit rows (0 = uncapped). ok is false when the page starts
// past the cap.
func (p PaginationParams) Window(limit int) (offset, count int, ok bool) {
	offset, count = p.Offset(), p.PageSize
	if limit <= 0 {
		return offset, count, true
	}
	if offset >= limit {
		return 0, 0, false
	}
	return offset, min(count, limit-offset), true
}
