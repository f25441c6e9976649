package catalog

import (
	"canvas-portal/internal/models"
)

const (
	DefaultPageSize   = 100
	DefaultWindowSize = 5
	DefaultStep       = 5
)

/**
 * Zero based pagination cursor
 * @property {int} page - Current page
 * @property {int} pageSize - Items per page
 * @property {int} itemCount - Items across all pages
 * @property {int} lastPage - floor(itemCount / pageSize)
 * @property {int} firstVisible - 1 based index of the first item on the page, 0 when empty
 * @property {int} lastVisible - 1 based index of the last item on the page, 0 when empty
 */
type PageState struct {
	Page         int `json:"page"`
	PageSize     int `json:"page_size"`
	ItemCount    int `json:"total_items"`
	LastPage     int `json:"last_page"`
	FirstVisible int `json:"page_item_first"`
	LastVisible  int `json:"page_item_last"`
}

// TotalPages is ceil(itemCount / pageSize).
func (s PageState) TotalPages() int {
	if s.PageSize <= 0 {
		return 0
	}
	return (s.ItemCount + s.PageSize - 1) / s.PageSize
}

// Pager holds a PageState and the navigation rules over it.
type Pager struct {
	state  PageState
	loaded bool
}

/**
 * Create a pager for locally sliced lists
 * @param {int} pageSize - Items per page, DefaultPageSize when not positive
 * @returns {*Pager} Pager on page 0 with no items
 */
func NewPager(pageSize int) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	p := &Pager{state: PageState{PageSize: pageSize}, loaded: true}
	p.updateVisible()
	return p
}

// NewRemotePager creates a pager that has no pages until Apply is called.
func NewRemotePager(pageSize int) *Pager {
	p := NewPager(pageSize)
	p.loaded = false
	return p
}

func (p *Pager) State() PageState {
	return p.state
}

// HavePages reports whether page information is known.
func (p *Pager) HavePages() bool {
	return p.loaded
}

func (p *Pager) IsFirstPage() bool {
	return p.loaded && p.state.Page == 0
}

func (p *Pager) IsLastPage() bool {
	return p.loaded && p.state.Page == p.state.LastPage
}

func (p *Pager) IsPage(page int) bool {
	return p.loaded && p.state.Page == page
}

/**
 * Adopt page information returned by the catalog API
 * @param {models.PageData} data - Listing page
 * @description
 * - Replaces the whole state, the server is authoritative in remote mode
 */
func (p *Pager) Apply(data models.PageData) {
	size := data.PageSize
	if size <= 0 {
		size = p.state.PageSize
	}
	p.state = PageState{
		Page:      data.Page,
		PageSize:  size,
		ItemCount: data.TotalItems,
		LastPage:  data.LastPage,
	}
	p.loaded = true
	p.updateVisible()
}

/**
 * Update the item count after filtering
 * @param {int} count - Number of items now paged
 * @description
 * - Recomputes lastPage
 * - Resets to page 0 when the current page's first item lies past the new count
 */
func (p *Pager) SetItemCount(count int) {
	if count < 0 {
		count = 0
	}
	p.state.ItemCount = count
	p.state.LastPage = count / p.state.PageSize
	if count < p.state.Page*p.state.PageSize+1 {
		p.state.Page = 0
	}
	p.loaded = true
	p.updateVisible()
}

// SetPage moves to page, clamped to [0, lastPage].
func (p *Pager) SetPage(page int) {
	p.state.Page = p.clamp(page)
	p.updateVisible()
}

func (p *Pager) clamp(page int) int {
	if page > p.state.LastPage {
		page = p.state.LastPage
	}
	if page < 0 {
		page = 0
	}
	return page
}

func (p *Pager) updateVisible() {
	s := &p.state
	if s.ItemCount == 0 {
		s.FirstVisible, s.LastVisible = 0, 0
		return
	}
	s.FirstVisible = s.Page*s.PageSize + 1
	s.LastVisible = min(s.FirstVisible+s.PageSize-1, s.ItemCount)
}

/**
 * Page numbers to display around the current page
 * @param {int} window - Maximum number of page links, DefaultWindowSize when not positive
 * @returns {[]int} Contiguous, ascending page indexes of length min(window, totalPages)
 * @description
 * - All pages when they fit in the window
 * - Otherwise centred on the current page and shifted left near the end
 */
func (p *Pager) PageList(window int) []int {
	if window <= 0 {
		window = DefaultWindowSize
	}
	list := []int{}
	if !p.loaded {
		return list
	}

	total := p.state.TotalPages()
	if window >= total {
		for i := 0; i < total; i++ {
			list = append(list, i)
		}
		return list
	}

	lb := max(0, p.state.Page-window/2)
	ub := min(total, lb+window)
	if ub-lb <= window-1 {
		lb = max(0, ub-window)
	}
	for i := lb; i < ub; i++ {
		list = append(list, i)
	}
	return list
}

// NextTarget returns the page NextPage would move to, false at the last page.
func (p *Pager) NextTarget(step int) (int, bool) {
	if step <= 0 {
		step = DefaultStep
	}
	if !p.loaded || p.IsLastPage() {
		return p.state.Page, false
	}
	return p.clamp(p.state.Page + step), true
}

// PreviousTarget returns the page PreviousPage would move to, false at page 0.
func (p *Pager) PreviousTarget(step int) (int, bool) {
	if step <= 0 {
		step = DefaultStep
	}
	if !p.loaded || p.IsFirstPage() {
		return p.state.Page, false
	}
	return p.clamp(p.state.Page - step), true
}

func (p *Pager) FirstTarget() (int, bool) {
	if !p.loaded || p.IsFirstPage() {
		return p.state.Page, false
	}
	return 0, true
}

func (p *Pager) LastTarget() (int, bool) {
	if !p.loaded || p.IsLastPage() {
		return p.state.Page, false
	}
	return p.state.LastPage, true
}

// NextPage moves forward by step pages; no-op at the last page.
func (p *Pager) NextPage(step int) bool {
	return p.move(p.NextTarget(step))
}

// PreviousPage moves back by step pages; no-op at page 0.
func (p *Pager) PreviousPage(step int) bool {
	return p.move(p.PreviousTarget(step))
}

func (p *Pager) FirstPage() bool {
	return p.move(p.FirstTarget())
}

func (p *Pager) LastPage() bool {
	return p.move(p.LastTarget())
}

func (p *Pager) move(target int, ok bool) bool {
	if ok {
		p.SetPage(target)
	}
	return ok
}

// Slice returns the entries on the current page of a locally paged list.
func (p *Pager) Slice(entries []models.CatalogEntry) []models.CatalogEntry {
	begin := p.state.Page * p.state.PageSize
	if begin >= len(entries) {
		return []models.CatalogEntry{}
	}
	end := min(begin+p.state.PageSize, len(entries))
	return entries[begin:end]
}
