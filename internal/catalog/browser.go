package catalog

import (
	"context"
	"sync"

	"canvas-portal/internal/config"
	"canvas-portal/internal/models"
)

/**
 * Browser options, the parameterisation shared by the package and template browsers
 * @property {int} pageSize - Items per locally sliced page
 * @property {int} windowSize - Page links in the pager
 * @property {int} step - Pages moved by next/previous
 * @property {string} paging - config.PagingRemote or config.PagingLocal
 */
type Options struct {
	PageSize   int
	WindowSize int
	Step       int
	Paging     string
}

// OptionsFromConfig maps the catalog section of the application config.
func OptionsFromConfig(cfg config.CatalogConfig) Options {
	return Options{
		PageSize:   cfg.PageSize,
		WindowSize: cfg.WindowSize,
		Step:       cfg.Step,
		Paging:     cfg.Paging,
	}
}

/**
 * Rendered browser state
 */
type View struct {
	State    PageState             `json:"state"`
	Pages    int                   `json:"total_pages"`
	PageList []int                 `json:"page_list"`
	Entries  []models.CatalogEntry `json:"entries"`
	Filter   string                `json:"filter"`
	Order    string                `json:"order,omitempty"`
	Reverse  bool                  `json:"reverse,omitempty"`
	Paging   string                `json:"paging"`
	Loading  bool                  `json:"loading"`
}

/**
 * Catalog browser: fetch, filter, paginate
 * @description
 * - Remote paging: navigation fetches the target page with "_cp"; the server page is authoritative
 * - Local paging: the whole list is held and sliced client side
 * - A non-empty filter always pages the filtered entries locally
 */
type Browser struct {
	client *Client
	opts   Options

	op sync.Mutex

	mu       sync.Mutex
	pager    *Pager
	data     models.PageData
	entries  []models.CatalogEntry
	filtered []models.CatalogEntry
	needle   string
	order    string
	reverse  bool
}

func normalizeOptions(opts Options) Options {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.WindowSize <= 0 {
		opts.WindowSize = DefaultWindowSize
	}
	if opts.Step <= 0 {
		opts.Step = DefaultStep
	}
	if opts.Paging != config.PagingLocal {
		opts.Paging = config.PagingRemote
	}
	return opts
}

/**
 * Create a browser over the remote catalog listing
 * @param {*Client} client - Catalog client
 * @param {Options} opts - Browser options
 * @returns {*Browser} Browser with no page loaded; call Load
 */
func NewBrowser(client *Client, opts Options) *Browser {
	opts = normalizeOptions(opts)
	b := &Browser{client: client, opts: opts}
	if opts.Paging == config.PagingRemote {
		b.pager = NewRemotePager(opts.PageSize)
	} else {
		b.pager = NewPager(opts.PageSize)
	}
	return b
}

// NewLocalBrowser pages a fixed list, such as a flattened template.
func NewLocalBrowser(entries []models.CatalogEntry, opts Options) *Browser {
	opts.Paging = config.PagingLocal
	b := NewBrowser(nil, opts)
	b.SetEntries(entries)
	return b
}

func (b *Browser) Options() Options {
	return b.opts
}

func (b *Browser) remote() bool {
	return b.opts.Paging == config.PagingRemote
}

/**
 * Load the initial listing
 * @param {context.Context} ctx - Request context
 * @returns {error} Request error; state is left untouched
 * @description
 * - No-op once the client holds a page, concurrent first calls fetch once
 */
func (b *Browser) Load(ctx context.Context) error {
	if b.client == nil {
		return nil
	}
	b.op.Lock()
	defer b.op.Unlock()
	if _, loaded := b.client.Page(); loaded {
		return nil
	}
	return b.fetch(ctx, nil)
}

func (b *Browser) fetch(ctx context.Context, params map[string]interface{}) error {
	data, err := b.client.LoadPage(ctx, params)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = data
	b.entries = data.Packages
	if b.remote() {
		b.pager.Apply(data)
	}
	b.refresh()
	return nil
}

// SetEntries replaces the locally held list.
func (b *Browser) SetEntries(entries []models.CatalogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = entries
	b.refresh()
}

// SetFilter narrows the entries by needle; see Filter.
func (b *Browser) SetFilter(needle string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if needle == b.needle {
		return
	}
	b.needle = needle
	b.refresh()
}

/**
 * Order entries by a column before paging
 * @param {string} field - n, e, v, r, a or template; "" restores input order
 * @param {bool} reverse - Descending order
 * @returns {error} Error for an unknown field; the order is unchanged
 */
func (b *Browser) SetOrder(field string, reverse bool) error {
	if !ValidOrder(field) {
		return orderError(field)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if field == b.order && reverse == b.reverse {
		return nil
	}
	b.order, b.reverse = field, reverse
	b.refresh()
	return nil
}

func (b *Browser) serverPaged() bool {
	return b.remote() && b.needle == ""
}

// refresh must be called with mu held.
func (b *Browser) refresh() {
	b.filtered = SortEntries(Filter(b.entries, b.needle), b.order, b.reverse)
	if b.serverPaged() {
		if b.pager.HavePages() || b.data.PageSize > 0 {
			b.pager.Apply(b.data)
		}
		return
	}
	if b.pager.State().ItemCount != len(b.filtered) || !b.pager.HavePages() {
		b.pager.SetItemCount(len(b.filtered))
	}
}

// Next moves forward by step pages (the configured step when step <= 0).
func (b *Browser) Next(ctx context.Context, step int) error {
	if step <= 0 {
		step = b.opts.Step
	}
	return b.navigate(ctx, func(p *Pager) (int, bool) { return p.NextTarget(step) })
}

func (b *Browser) Previous(ctx context.Context, step int) error {
	if step <= 0 {
		step = b.opts.Step
	}
	return b.navigate(ctx, func(p *Pager) (int, bool) { return p.PreviousTarget(step) })
}

func (b *Browser) First(ctx context.Context) error {
	return b.navigate(ctx, (*Pager).FirstTarget)
}

func (b *Browser) Last(ctx context.Context) error {
	return b.navigate(ctx, (*Pager).LastTarget)
}

// GoTo jumps to page; no-op when already there.
func (b *Browser) GoTo(ctx context.Context, page int) error {
	return b.navigate(ctx, func(p *Pager) (int, bool) {
		if !p.HavePages() || p.IsPage(page) {
			return p.State().Page, false
		}
		return page, true
	})
}

func (b *Browser) navigate(ctx context.Context, target func(*Pager) (int, bool)) error {
	b.op.Lock()
	defer b.op.Unlock()

	b.mu.Lock()
	page, ok := target(b.pager)
	if !ok {
		b.mu.Unlock()
		return nil
	}
	if !b.serverPaged() {
		b.pager.SetPage(page)
		b.mu.Unlock()
		return nil
	}
	b.mu.Unlock()

	return b.fetch(ctx, map[string]interface{}{"_cp": page})
}

/**
 * Snapshot of the browser for rendering
 * @returns {View} Page state, page list and the visible entries
 */
func (b *Browser) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()

	entries := b.filtered
	if !b.serverPaged() {
		entries = b.pager.Slice(b.filtered)
	}
	if entries == nil {
		entries = []models.CatalogEntry{}
	}
	state := b.pager.State()
	return View{
		State:    state,
		Pages:    state.TotalPages(),
		PageList: b.pager.PageList(b.opts.WindowSize),
		Entries:  entries,
		Filter:   b.needle,
		Order:    b.order,
		Reverse:  b.reverse,
		Paging:   b.opts.Paging,
		Loading:  b.client != nil && b.client.IsPageLoading(),
	}
}

// Client returns the catalog client backing the browser, nil for local lists.
func (b *Browser) Client() *Client {
	return b.client
}
