package core

// Page is one window of a larger collection. Count is the size of the
// whole collection after filtering, not the size of Items, so callers
// can derive the total number of pages.
type Page[T any] struct {
	Items []T
	Count int
}

// PageRequest selects a window. A zero (or negative) Page or Size means
// "no pagination": the whole collection is returned. That fallback is
// the established contract for malformed query params, not an error.
type PageRequest struct {
	Page int
	Size int
}

// Paginate slices items into the requested window. An out-of-range page
// yields an empty window, never an error.
func Paginate[T any](items []T, req PageRequest) Page[T] {
	if req.Page <= 0 || req.Size <= 0 {
		return Page[T]{Items: items, Count: len(items)}
	}

	start := (req.Page - 1) * req.Size
	end := start + req.Size
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	return Page[T]{Items: items[start:end], Count: len(items)}
}

// PageCount returns the number of pages needed to show count items.
func PageCount(count, size int) int {
	if size <= 0 {
		return 1
	}
	return (count + size - 1) / size
}

// SkipLeft and SkipRight mark ellipsis gaps in a page-number window.
const (
	SkipLeft  = -1
	SkipRight = -2
)

// PageNumbers produces the pagination strip for the given position:
// a run of page numbers around current with the first and last page
// always present and ellipsis markers for the gaps, e.g.
// [1 SkipLeft 4 5 6 SkipRight 10]. Small page counts are listed whole.
func PageNumbers(current, pageCount int) []int {
	if pageCount <= 0 {
		return nil
	}
	if current < 1 {
		current = 1
	}
	if current > pageCount {
		current = pageCount
	}

	var delta int
	if pageCount <= 7 {
		delta = 7
	} else if current > 4 && current < pageCount-3 {
		delta = 2
	} else {
		delta = 4
	}

	start := current - delta/2
	end := current + delta/2
	if start-1 == 1 || end+1 == pageCount {
		start++
		end++
	}

	var pages []int
	if current > delta {
		pages = pageRange(min(start, pageCount-delta), min(end, pageCount))
	} else {
		pages = pageRange(1, min(pageCount, delta+1))
	}

	if pages[0] != 1 {
		if len(pages)+1 != pageCount {
			pages = append([]int{1, SkipLeft}, pages...)
		} else {
			pages = append([]int{1}, pages...)
		}
	}
	if last := pages[len(pages)-1]; last < pageCount {
		if len(pages)+1 != pageCount {
			pages = append(pages, SkipRight, pageCount)
		} else {
			pages = append(pages, pageCount)
		}
	}

	return pages
}

func pageRange(start, end int) []int {
	if end < start {
		return nil
	}
	out := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		out = append(out, p)
	}
	return out
}
