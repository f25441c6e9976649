package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"canvas-portal/internal/catalog"
	"canvas-portal/internal/middleware"
	"canvas-portal/internal/models"

	"github.com/gin-gonic/gin"
)

type CatalogController struct{}

func NewCatalogController() *CatalogController {
	return &CatalogController{}
}

/**
 * Register catalog browser routes
 * @param {*gin.Engine} r - Gin router instance, SessionMiddleware must be installed
 * @description
 * - Once the first listing page is held, upstream failures are not reported: the
 *   unchanged view or detail is returned and the client has already logged the failure
 * - Package listing with filter and paging
 * - Pager navigation (first/last/next/previous)
 * - Package details and selection toggles
 * - Flattened template views
 */
func (cc *CatalogController) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1/catalog")
	api.GET("/packages", cc.ListPackages)
	api.POST("/pager/:nav", cc.Navigate)
	api.GET("/packages/:id", cc.GetPackage)
	api.POST("/packages/:id/toggle", cc.TogglePackage)
	api.GET("/templates/:ref", cc.GetTemplate)
}

// catalogError maps a catalog client failure to an HTTP status and error body.
func catalogError(c *gin.Context, code string, err error) {
	status := http.StatusBadGateway
	var ce *catalog.Error
	if errors.Is(err, catalog.ErrNotFound) || (errors.As(err, &ce) && ce.Status == http.StatusNotFound) {
		status = http.StatusNotFound
	}
	c.JSON(status, &models.ErrorResponse{
		Code:  code,
		Error: err.Error(),
	})
}

func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, &models.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

/**
 * Apply the order, filter and page query parameters to a browser
 * @param {*gin.Context} c - Request with optional order, reverse, filter and page
 * @param {*catalog.Browser} b - Browser to update
 * @returns {string} Error code for a malformed parameter, "" when applied
 * @returns {string} Error message
 * @description
 * - A failed page fetch keeps the current page
 */
func applyListQuery(c *gin.Context, b *catalog.Browser) (string, string) {
	if field, ok := c.GetQuery("order"); ok {
		reverse, _ := strconv.ParseBool(c.Query("reverse"))
		if err := b.SetOrder(field, reverse); err != nil {
			return "catalog.invalid_order", err.Error()
		}
	}
	if needle, ok := c.GetQuery("filter"); ok {
		b.SetFilter(needle)
	}
	if raw, ok := c.GetQuery("page"); ok {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 0 {
			return "catalog.invalid_page", "page must be a non-negative integer"
		}
		_ = b.GoTo(c.Request.Context(), page)
	}
	return "", ""
}

// ListPackages returns the session's package browser view
//
//	@Summary		List catalog packages
//	@Description	Current page of the package browser; filter narrows the list, page jumps to a page
//	@Tags			Catalog
//	@Produce		json
//	@Param			filter	query		string	false	"Case sensitive substring over name, epoch, version, release and arch"
//	@Param			page	query		int		false	"Zero based page"
//	@Param			order	query		string	false	"Sort column of the current page: n, e, v, r, a or template"
//	@Param			reverse	query		bool	false	"Descending order"
//	@Success		200		{object}	catalog.View
//	@Failure		400		{object}	models.ErrorResponse
//	@Failure		502		{object}	models.ErrorResponse	"The first listing page could not be loaded"
//	@Router			/api/v1/catalog/packages [get]
func (cc *CatalogController) ListPackages(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	b, err := sess.Packages(c.Request.Context())
	if err != nil {
		catalogError(c, "catalog.load_failed", err)
		return
	}
	if code, msg := applyListQuery(c, b); code != "" {
		badRequest(c, code, msg)
		return
	}
	c.JSON(http.StatusOK, b.View())
}

// Navigate moves the package pager
//
//	@Summary		Move the package pager
//	@Tags			Catalog
//	@Produce		json
//	@Param			nav		path		string	true	"first, last, next or previous"
//	@Param			step	query		int		false	"Pages moved by next/previous"
//	@Success		200		{object}	catalog.View
//	@Failure		400		{object}	models.ErrorResponse
//	@Failure		502		{object}	models.ErrorResponse	"The first listing page could not be loaded"
//	@Router			/api/v1/catalog/pager/{nav} [post]
func (cc *CatalogController) Navigate(c *gin.Context) {
	step := 0
	if raw, ok := c.GetQuery("step"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			badRequest(c, "catalog.invalid_step", "step must be a positive integer")
			return
		}
		step = n
	}

	sess := middleware.CurrentSession(c)
	b, err := sess.Packages(c.Request.Context())
	if err != nil {
		catalogError(c, "catalog.load_failed", err)
		return
	}

	ctx := c.Request.Context()
	// 翻页失败时保留当前页
	switch c.Param("nav") {
	case "first":
		_ = b.First(ctx)
	case "last":
		_ = b.Last(ctx)
	case "next":
		_ = b.Next(ctx, step)
	case "previous":
		_ = b.Previous(ctx, step)
	default:
		badRequest(c, "catalog.invalid_nav", "nav must be first, last, next or previous")
		return
	}
	c.JSON(http.StatusOK, b.View())
}

func packageID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "catalog.invalid_id", "package id must be a positive integer")
		return 0, false
	}
	return id, true
}

// GetPackage loads and returns package details
//
//	@Summary		Package details
//	@Description	A failed detail load returns the cached entry with loading cleared and no fields
//	@Tags			Catalog
//	@Produce		json
//	@Param			id	path		int	true	"Package id"
//	@Success		200	{object}	models.PackageDetail
//	@Failure		400	{object}	models.ErrorResponse
//	@Router			/api/v1/catalog/packages/{id} [get]
func (cc *CatalogController) GetPackage(c *gin.Context) {
	id, ok := packageID(c)
	if !ok {
		return
	}
	client := middleware.CurrentSession(c).Details()
	_ = client.LoadDetail(c.Request.Context(), id)
	detail, _ := client.Detail(id)
	c.JSON(http.StatusOK, detail)
}

// TogglePackage flips the selected or visible flag of a package
//
//	@Summary		Toggle package flag
//	@Tags			Catalog
//	@Produce		json
//	@Param			id		path		int		true	"Package id"
//	@Param			field	query		string	true	"selected or visible"
//	@Success		200		{object}	models.PackageDetail
//	@Failure		400		{object}	models.ErrorResponse
//	@Router			/api/v1/catalog/packages/{id}/toggle [post]
func (cc *CatalogController) TogglePackage(c *gin.Context) {
	id, ok := packageID(c)
	if !ok {
		return
	}
	client := middleware.CurrentSession(c).Details()
	// 详情加载失败时标记仍然翻转
	switch c.Query("field") {
	case "selected":
		_, _ = client.ToggleSelected(c.Request.Context(), id)
	case "visible":
		_, _ = client.ToggleVisible(c.Request.Context(), id)
	default:
		badRequest(c, "catalog.invalid_field", "field must be selected or visible")
		return
	}
	detail, _ := client.Detail(id)
	c.JSON(http.StatusOK, gin.H{"detail": detail})
}

type templateEntry struct {
	models.CatalogEntry
	Inherited bool `json:"inherited"`
}

type templateView struct {
	ID          int64               `json:"id"`
	Name        string              `json:"name"`
	User        string              `json:"user"`
	Description string              `json:"description,omitempty"`
	Repos       []models.Repository `json:"repos,omitempty"`
	View        catalog.View        `json:"view"`
	Entries     []templateEntry     `json:"entries"`
}

// GetTemplate returns a flattened template page
//
//	@Summary		Flattened template
//	@Description	Template packages merged with all includes, paged locally
//	@Tags			Catalog
//	@Produce		json
//	@Param			ref		path		string	true	"Template id, name or user:name"
//	@Param			filter	query		string	false	"Package filter"
//	@Param			page	query		int		false	"Zero based page"
//	@Param			order	query		string	false	"Sort column: n, e, v, r, a or template"
//	@Param			reverse	query		bool	false	"Descending order"
//	@Success		200		{object}	templateView
//	@Failure		400		{object}	models.ErrorResponse
//	@Failure		404		{object}	models.ErrorResponse
//	@Router			/api/v1/catalog/templates/{ref} [get]
func (cc *CatalogController) GetTemplate(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	tb, err := sess.Template(c.Request.Context(), c.Param("ref"))
	if err != nil {
		var ce *catalog.Error
		if !errors.As(err, &ce) && !errors.Is(err, catalog.ErrNotFound) {
			badRequest(c, "catalog.invalid_template", err.Error())
			return
		}
		catalogError(c, "catalog.template_failed", err)
		return
	}
	if code, msg := applyListQuery(c, tb.Browser); code != "" {
		badRequest(c, code, msg)
		return
	}

	view := tb.Browser.View()
	tpl := tb.Template
	resp := templateView{
		ID:          tpl.ID,
		Name:        tpl.Name,
		User:        tpl.User,
		Description: tpl.Description,
		Repos:       tpl.Repos,
		View:        view,
		Entries:     make([]templateEntry, 0, len(view.Entries)),
	}
	for _, e := range view.Entries {
		resp.Entries = append(resp.Entries, templateEntry{CatalogEntry: e, Inherited: catalog.IsInherited(e, tpl)})
	}
	c.JSON(http.StatusOK, resp)
}
