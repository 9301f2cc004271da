package pagination

import "math"

// OffsetRequest is a 1-based page request bound from query parameters.
// Sizes above PageMaxSize fail validation instead of being clamped.
type OffsetRequest struct {
	Page int `json:"page" query:"page" validate:"min=1"`
	Size int `json:"size" query:"size" validate:"min=1,max=100"`
}

// Normalize fills in a missing page and size.
func (r *OffsetRequest) Normalize(defaultSize int) {
	if r.Page <= 0 {
		r.Page = 1
	}
	if defaultSize <= 0 {
		defaultSize = PageDefaultSize
	}
	if r.Size <= 0 {
		r.Size = defaultSize
	}
}

// Offset returns the index of the first item of the page, or -1 when it
// does not fit in an int.
func (r OffsetRequest) Offset() int {
	if r.Page <= 1 || r.Size <= 0 {
		return 0
	}
	if r.Page-1 > math.MaxInt/r.Size {
		return -1
	}
	return (r.Page - 1) * r.Size
}

// Slice returns the page of items selected by page and size. Out of range
// pages are empty, never nil.
func Slice[T any](items []T, page, size int) []T {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		return []T{}
	}
	if len(items) == 0 || page-1 > (len(items)-1)/size {
		return []T{}
	}
	from := (page - 1) * size
	return items[from:min(from+size, len(items))]
}
