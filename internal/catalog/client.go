package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"canvas-portal/internal/logger"
	"canvas-portal/internal/models"
	"canvas-portal/internal/rpc"

	"github.com/microcosm-cc/bluemonday"
)

const (
	endpointPackages  = "packages"
	endpointPackage   = "package"
	endpointTemplate  = "template"
	endpointIncludes  = "includes"
	endpointTemplates = "templates"
)

// Detail fields that may carry markup from package metadata.
var htmlFields = map[string]bool{
	"description": true,
	"summary":     true,
	"changelog":   true,
}

/**
 * Remote catalog client with per-id detail cache and loading flags
 * @description
 * - LoadPage replaces the current page only on success
 * - LoadDetail keeps at most one outstanding request per id
 * - Safe for concurrent use; state is guarded by a mutex that is never held across requests
 */
type Client struct {
	rpc       rpc.HTTPClient
	sanitizer *bluemonday.Policy

	mu          sync.Mutex
	page        models.PageData
	havePage    bool
	pageLoading bool
	details     map[int64]*models.PackageDetail
}

/**
 * Create catalog client
 * @param {rpc.HTTPClient} client - Transport to the catalog API
 * @returns {*Client} Client with an empty cache
 * @example
 * c := catalog.NewClient(rpc.NewHTTPClient(nil))
 * page, err := c.LoadPage(ctx, map[string]interface{}{"_cp": 2})
 */
func NewClient(client rpc.HTTPClient) *Client {
	return &Client{
		rpc:       client,
		sanitizer: bluemonday.UGCPolicy(),
		details:   make(map[int64]*models.PackageDetail),
	}
}

func (c *Client) get(ctx context.Context, endpoint, path string, params map[string]interface{}, dst interface{}) error {
	err := c.fetch(ctx, endpoint, path, params, dst)
	recordRequest(endpoint, err)
	return err
}

func (c *Client) fetch(ctx context.Context, endpoint, path string, params map[string]interface{}, dst interface{}) error {
	resp, err := c.rpc.Get(ctx, path, params)
	if err != nil {
		return &Error{Kind: ErrRequest, Endpoint: path, Err: err}
	}
	if !resp.OK() {
		return &Error{Kind: ErrStatus, Endpoint: path, Status: resp.StatusCode, Err: errors.New(resp.Error)}
	}
	if err := resp.Decode(dst); err != nil {
		return &Error{Kind: ErrDecode, Endpoint: path, Err: err}
	}
	return nil
}

/**
 * Load one page of the catalog listing
 * @param {context.Context} ctx - Request context
 * @param {map[string]interface{}} params - Query parameters, "_cp" selects the page
 * @returns {models.PageData} The page now held by the client
 * @returns {error} Request error; the previously loaded page is kept
 * @description
 * - Page loading flag is set before the request and cleared on both paths
 * - page_item_first/last are filled in when the server omits them
 */
func (c *Client) LoadPage(ctx context.Context, params map[string]interface{}) (models.PageData, error) {
	c.mu.Lock()
	c.pageLoading = true
	c.mu.Unlock()

	var data models.PageData
	err := c.get(ctx, endpointPackages, "/api/packages", params, &data)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pageLoading = false
	if err != nil {
		logger.Warnf("Load packages page failed: %v", err)
		return c.page, err
	}
	if data.PageSize > 0 && data.TotalItems > 0 {
		if data.PageItemFirst == 0 {
			data.PageItemFirst = data.Page*data.PageSize + 1
		}
		if data.PageItemLast == 0 {
			data.PageItemLast = min(data.PageItemFirst+data.PageSize-1, data.TotalItems)
		}
	}
	c.page = data
	c.havePage = true
	return c.page, nil
}

// Page returns the last successfully loaded page.
func (c *Client) Page() (models.PageData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page, c.havePage
}

func (c *Client) IsPageLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pageLoading
}

/**
 * Load package details into the cache
 * @param {context.Context} ctx - Request context
 * @param {int64} id - Package id
 * @returns {error} Request error; the placeholder entry stays cached with loading cleared
 * @description
 * - No-op when id <= 0 or the id is already cached, including in-flight placeholders
 * - Placeholder is created with loading=true before the request is sent
 * - Server fields are merged into the entry on success
 */
func (c *Client) LoadDetail(ctx context.Context, id int64) error {
	if id <= 0 {
		return nil
	}
	c.mu.Lock()
	if _, ok := c.details[id]; ok {
		c.mu.Unlock()
		return nil
	}
	c.details[id] = &models.PackageDetail{ID: id, Loading: true}
	c.mu.Unlock()

	var fields map[string]interface{}
	err := c.get(ctx, endpointPackage, fmt.Sprintf("/api/package/%d", id), nil, &fields)

	c.mu.Lock()
	defer c.mu.Unlock()
	entry := c.details[id]
	entry.Loading = false
	if err != nil {
		logger.Warnf("Load package %d details failed: %v", id, err)
		return err
	}
	if entry.Fields == nil {
		entry.Fields = make(map[string]interface{}, len(fields))
	}
	for k, v := range fields {
		if s, ok := v.(string); ok && htmlFields[k] {
			v = c.sanitizer.Sanitize(s)
		}
		entry.Fields[k] = v
	}
	return nil
}

// Detail returns a copy of the cached entry for id.
func (c *Client) Detail(id int64) (models.PackageDetail, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.details[id]
	if !ok {
		return models.PackageDetail{}, false
	}
	cp := *entry
	if entry.Fields != nil {
		cp.Fields = make(map[string]interface{}, len(entry.Fields))
		for k, v := range entry.Fields {
			cp.Fields[k] = v
		}
	}
	return cp, true
}

func (c *Client) IsDetailSelected(id int64) bool {
	d, ok := c.Detail(id)
	return ok && d.Selected
}

func (c *Client) IsDetailVisible(id int64) bool {
	d, ok := c.Detail(id)
	return ok && d.Visible
}

/**
 * Toggle the selected flag of a package
 * @param {context.Context} ctx - Request context
 * @param {int64} id - Package id
 * @returns {bool} New value of the flag
 * @returns {error} Detail load error; the flag is still flipped on the placeholder
 */
func (c *Client) ToggleSelected(ctx context.Context, id int64) (bool, error) {
	return c.toggle(ctx, id, func(d *models.PackageDetail) *bool { return &d.Selected })
}

// ToggleVisible flips the detail panel flag, loading details first when needed.
func (c *Client) ToggleVisible(ctx context.Context, id int64) (bool, error) {
	return c.toggle(ctx, id, func(d *models.PackageDetail) *bool { return &d.Visible })
}

func (c *Client) toggle(ctx context.Context, id int64, field func(*models.PackageDetail) *bool) (bool, error) {
	err := c.LoadDetail(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.details[id]
	if !ok {
		return false, err
	}
	flag := field(entry)
	*flag = !*flag
	return *flag, err
}

// LoadTemplate fetches a template document by id.
func (c *Client) LoadTemplate(ctx context.Context, id int64) (*models.Template, error) {
	var tpl models.Template
	if err := c.get(ctx, endpointTemplate, fmt.Sprintf("/api/template/%d", id), nil, &tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// LoadIncludes fetches the nested include tree of a template.
func (c *Client) LoadIncludes(ctx context.Context, id int64) ([]*models.Template, error) {
	var includes []*models.Template
	if err := c.get(ctx, endpointIncludes, fmt.Sprintf("/api/template/%d/includes", id), nil, &includes); err != nil {
		return nil, err
	}
	return includes, nil
}

/**
 * Resolve and flatten a template's includes in place
 * @param {context.Context} ctx - Request context
 * @param {*models.Template} tpl - Template to resolve
 * @returns {error} Request error; the template is left unchanged
 * @description
 * - Replaces tpl.Includes with the fetched tree
 * - Replaces tpl.Packages with the flattened, de-duplicated list
 */
func (c *Client) ResolveIncludes(ctx context.Context, tpl *models.Template) error {
	includes, err := c.LoadIncludes(ctx, tpl.ID)
	if err != nil {
		logger.Warnf("Resolve includes of template %d failed: %v", tpl.ID, err)
		return err
	}
	tpl.Includes = includes
	tpl.Packages = Flatten(tpl)
	return nil
}

type templateSummary struct {
	ID   models.FlexString `json:"id"`
	UUID string            `json:"uuid,omitempty"`
	Name string            `json:"name"`
	User string            `json:"user"`
}

/**
 * Look up a template id by owner and name
 * @param {context.Context} ctx - Request context
 * @param {TemplateRef} ref - Owner and name
 * @returns {int64} Template id
 * @returns {error} ErrNotFound when no template matches
 */
func (c *Client) FindTemplate(ctx context.Context, ref TemplateRef) (int64, error) {
	var summaries []templateSummary
	params := map[string]interface{}{"user": ref.User, "name": ref.Name}
	if err := c.get(ctx, endpointTemplates, "/api/templates", params, &summaries); err != nil {
		return 0, err
	}
	for _, s := range summaries {
		var id int64
		if _, err := fmt.Sscanf(string(s.ID), "%d", &id); err == nil && id > 0 {
			return id, nil
		}
	}
	return 0, fmt.Errorf("template %s: %w", ref, ErrNotFound)
}

/**
 * Resolve a template reference to an id
 * @param {context.Context} ctx - Request context
 * @param {string} ref - Numeric id, "name" or "user:name"
 * @param {string} defaultUser - Owner used when ref has no user part
 * @returns {int64} Template id
 * @returns {error} Reference or lookup error
 */
func (c *Client) TemplateID(ctx context.Context, ref, defaultUser string) (int64, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		if id <= 0 {
			return 0, fmt.Errorf("invalid template id %d", id)
		}
		return id, nil
	}
	parsed, err := ParseTemplateRef(ref, defaultUser)
	if err != nil {
		return 0, err
	}
	return c.FindTemplate(ctx, parsed)
}

// LoadFlattened fetches template id and resolves its includes.
func (c *Client) LoadFlattened(ctx context.Context, id int64) (*models.Template, error) {
	tpl, err := c.LoadTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	if tpl.ID == 0 {
		tpl.ID = id
	}
	if err := c.ResolveIncludes(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}
