package model

const (
	// DefaultTake is the page size used when the caller does not supply one.
	DefaultTake = 100
	// DefaultSkip is the offset used when the caller does not supply one.
	DefaultSkip = 0
)

// Pagination carries the optional take/skip parameters of a listing request.
type Pagination struct {
	Take *int `json:"take,omitempty" validate:"omitnil,gt=0"`
	Skip *int `json:"skip,omitempty" validate:"omitnil,gte=0"`
}

// Limit returns the effective page size.
func (p Pagination) Limit() int {
	if p.Take == nil {
		return DefaultTake
	}
	return *p.Take
}

// Offset returns the effective offset.
func (p Pagination) Offset() int {
	if p.Skip == nil {
		return DefaultSkip
	}
	return *p.Skip
}

// OrderQuery is a listing request: pagination plus an optional status filter.
type OrderQuery struct {
	Pagination
	Status *OrderStatus `json:"status,omitempty" validate:"omitnil,orderstatus"`
}

// OrderFilter is the resolved filter handed to the persistence layer.
type OrderFilter struct {
	Status *OrderStatus
	Take   int
	Skip   int
}

// PageMeta describes a page of a listing.
type PageMeta struct {
	Total       int          `json:"total"`
	PerPage     int          `json:"perPage"`
	Pages       int          `json:"pages"`
	CurrentPage int          `json:"currentPage"`
	Skip        int          `json:"skip"`
	Status      *OrderStatus `json:"status,omitempty"`
}

// OrderPage is the paginated envelope returned by order listings.
type OrderPage struct {
	Data []Order  `json:"data"`
	Meta PageMeta `json:"meta"`
}

// NewPageMeta derives page counters from the filtered total and the effective filter.
func NewPageMeta(total int, filter OrderFilter) PageMeta {
	pages := 0
	if filter.Take > 0 {
		pages = (total + filter.Take - 1) / filter.Take
	}

	currentPage := 1
	if filter.Take > 0 {
		currentPage = filter.Skip/filter.Take + 1
	}

	return PageMeta{
		Total:       total,
		PerPage:     filter.Take,
		Pages:       pages,
		CurrentPage: currentPage,
		Skip:        filter.Skip,
		Status:      filter.Status,
	}
}
