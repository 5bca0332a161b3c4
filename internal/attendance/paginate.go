package attendance

// DefaultPageSize is used when a caller passes a non-positive page size.
const DefaultPageSize = 10

// Page is a window over an ordered list.
type Page[T any] struct {
	Number     int
	Size       int
	TotalPages int
	TotalItems int
	Items      []T
}

// HasNext reports whether a later page exists.
func (p Page[T]) HasNext() bool {
	return p.Number < p.TotalPages
}

// HasPrev reports whether an earlier page exists.
func (p Page[T]) HasPrev() bool {
	return p.Number > 1
}

// TotalPages returns ceil(count/size), but never less than 1.
func TotalPages(count, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	pages := (count + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// Paginate returns the 1-based page of items. The page number is clamped to
// the valid range, so requests past either end return the first or last page.
func Paginate[T any](items []T, size, number int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := TotalPages(len(items), size)
	if number < 1 {
		number = 1
	}
	if number > total {
		number = total
	}

	start := (number - 1) * size
	end := start + size
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	window := make([]T, end-start)
	copy(window, items[start:end])

	return Page[T]{
		Number:     number,
		Size:       size,
		TotalPages: total,
		TotalItems: len(items),
		Items:      window,
	}
}
