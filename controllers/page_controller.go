package controllers

import (
	"errors"
	"net/http"

	"canvas-portal/internal/middleware"
	"canvas-portal/internal/models"
	"canvas-portal/internal/navigation"

	"github.com/gin-gonic/gin"
)

type PageController struct{}

func NewPageController() *PageController {
	return &PageController{}
}

/**
 * Register site page routes
 * @param {*gin.Engine} r - Gin router instance, SessionMiddleware must be installed
 * @description
 * - Every entry of navigation.Routes is served at its own path
 * - /api/v1/navigation loads an arbitrary path into the session navigator
 */
func (pc *PageController) RegisterRoutes(r *gin.Engine) {
	for _, route := range navigation.Routes {
		r.GET(route.Path, pc.Page(route.Path))
	}
	r.GET("/api/v1/navigation", pc.Navigate)
}

type pageResponse struct {
	Slug     string                `json:"slug"`
	Mode     string                `json:"mode"`
	Template string                `json:"template"`
	Active   string                `json:"active"`
	Slider   bool                  `json:"slider"`
	Menu     []navigation.MenuItem `json:"menu"`
}

func (pc *PageController) load(c *gin.Context, path string) {
	sess := middleware.CurrentSession(c)
	route, err := sess.Navigator.Load(path)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, navigation.ErrUnknownRoute) {
			status = http.StatusNotFound
		}
		c.JSON(status, &models.ErrorResponse{
			Code:  "page.notexist",
			Error: "page [" + path + "] isn't exist",
		})
		return
	}
	c.JSON(http.StatusOK, pageResponse{
		Slug:     route.Slug,
		Mode:     route.Mode,
		Template: route.Template,
		Active:   sess.Navigator.PageActive(route.Slug),
		Slider:   sess.Chrome.Running(),
		Menu:     sess.Navigator.Menu(),
	})
}

// Page serves one site route
//
//	@Summary		Site page
//	@Description	Loads the route into the visitor navigator and returns layout data
//	@Tags			Pages
//	@Produce		json
//	@Success		200	{object}	pageResponse
//	@Router			/ [get]
func (pc *PageController) Page(path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		pc.load(c, path)
	}
}

// Navigate loads a route by path
//
//	@Summary		Navigate
//	@Tags			Pages
//	@Produce		json
//	@Param			path	query		string	true	"Route path"
//	@Success		200		{object}	pageResponse
//	@Failure		404		{object}	models.ErrorResponse
//	@Router			/api/v1/navigation [get]
func (pc *PageController) Navigate(c *gin.Context) {
	pc.load(c, c.Query("path"))
}
