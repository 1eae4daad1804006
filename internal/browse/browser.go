package browse

import "github.com/certverify-labs/certverify/internal/domain"

// PageSize is the fixed number of certificates per page.
const PageSize = 10

// Page is one slice of a browsed listing.
type Page struct {
	Items      []domain.Certificate `json:"items"`
	Number     int                  `json:"page"`
	TotalPages int                  `json:"total_pages"`
	TotalItems int                  `json:"total_items"`
}

// Browser holds the filter, sort and page state of one listing view.
// Changing the filter snaps back to the first page; changing the sort
// keeps the current page.
type Browser struct {
	sorter *Sorter
	filter Filter
	order  Order
	page   int
}

func NewBrowser(sorter *Sorter) *Browser {
	return &Browser{
		sorter: sorter,
		filter: NewFilter(),
		order:  Order{Key: SortByCreatedAt, Descending: true},
		page:   1,
	}
}

// SetFilter replaces the filter and resets to page 1.
func (b *Browser) SetFilter(f Filter) {
	b.filter = f
	b.page = 1
}

// SetOrder replaces the sort order without touching the page.
func (b *Browser) SetOrder(o Order) {
	b.order = o
}

// SetPage moves to the given page. Out-of-range values are clamped when
// the view is built.
func (b *Browser) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	b.page = page
}

func (b *Browser) Filter() Filter { return b.filter }
func (b *Browser) Order() Order   { return b.order }
func (b *Browser) PageNumber() int {
	return b.page
}

// View filters, sorts and paginates the given certificates. The input
// slice is left untouched; browsing the same data twice yields the same
// page.
func (b *Browser) View(certs []domain.Certificate) Page {
	filtered := b.filter.Apply(certs)
	b.sorter.Sort(filtered, b.order)
	return paginate(filtered, b.page)
}

func paginate(certs []domain.Certificate, page int) Page {
	total := len(certs)
	totalPages := (total + PageSize - 1) / PageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * PageSize
	end := start + PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page{
		Items:      certs[start:end],
		Number:     page,
		TotalPages: totalPages,
		TotalItems: total,
	}
}
