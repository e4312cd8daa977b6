// ABOUTME: Page-window arithmetic for the product list pagination bar
// ABOUTME: At most five numbered pages centered on the current one, clamped to range

package panel

// windowSize is the number of numbered page buttons shown at most.
const windowSize = 5

// Pagination describes the pagination bar. A zero value renders nothing.
type Pagination struct {
	Current int
	Total   int
	Prev    bool
	Next    bool
	Pages   []int
}

// Empty reports whether there is nothing to render.
func (p Pagination) Empty() bool {
	return len(p.Pages) == 0
}

// PageWindow computes the pagination bar for current out of total pages.
// Nothing is shown when total is 1 or less.
func PageWindow(current, total int) Pagination {
	if total <= 1 {
		return Pagination{}
	}

	start := max(1, current-2)
	end := min(total, start+windowSize-1)
	start = max(1, end-windowSize+1)

	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}

	return Pagination{
		Current: current,
		Total:   total,
		Prev:    current > 1,
		Next:    current < total,
		Pages:   pages,
	}
}
