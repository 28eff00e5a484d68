package page

const (
	defaultSize = 25
	maxSize     = 1000
)

type Page[T any] struct {
	// Records are the records found for the page requested.
	Records []T
	// TotalRecords is the total number of records available.
	TotalRecords int
	// TotalPages is the total number of pages based on Size and TotalRecords.
	TotalPages int
	Pagination
}

type Pagination struct {
	// Number is the page number requested.
	Number int
	// Size is the page size requested.
	Size int
}

// Offset calculates the offset based on the page number and size.
// Subtract 1 from the page number to convert it to a zero-based index.
func (p Pagination) Offset() int {
	return (p.Number - 1) * p.Size
}

func (p Pagination) Limit() int {
	return p.Size
}

// NewPagination builds a pagination from optional query values, falling back
// to the first page and the default size.
func NewPagination(pageNumber *int32, pageSize *int32) Pagination {
	pagination := Pagination{
		Number: 1,
		Size:   defaultSize,
	}

	if pageNumber != nil && *pageNumber > 0 {
		pagination.Number = int(*pageNumber)
	}

	if pageSize != nil && *pageSize > 0 {
		pagination.Size = min(int(*pageSize), maxSize)
	}

	return pagination
}

// New wraps records already limited to the pagination window.
func New[T any](records []T, pagination Pagination, total int) Page[T] {
	return Page[T]{
		Records:      records,
		TotalRecords: total,
		// Adding (pagination.Size - 1) ensures correct rounding up for partial pages.
		TotalPages: (total + pagination.Size - 1) / pagination.Size,
		Pagination: pagination,
	}
}

// All wraps an unpaginated result set as a single page.
func All[T any](records []T) Page[T] {
	p := Page[T]{
		Records:      records,
		TotalRecords: len(records),
		Pagination:   Pagination{Number: 1, Size: len(records)},
	}
	if len(records) > 0 {
		p.TotalPages = 1
	}
	return p
}
