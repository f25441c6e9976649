package controllers

import (
	"errors"
	"net/http"

	"canvas-portal/internal/downloads"
	"canvas-portal/internal/models"
	"canvas-portal/services"

	"github.com/gin-gonic/gin"
)

type DownloadsController struct {
	server *services.Server
}

func NewDownloadsController(server *services.Server) *DownloadsController {
	return &DownloadsController{server: server}
}

func (dc *DownloadsController) RegisterRoutes(r *gin.Engine) {
	r.GET("/api/v1/downloads", dc.GetSelection)
}

// GetSelection picks a release and desktop for the download page
//
//	@Summary		Download selection
//	@Description	v selects a release, d a desktop; defaults to the current stable release and a random desktop
//	@Tags			Downloads
//	@Produce		json
//	@Param			v	query		string	false	"Release version"
//	@Param			d	query		string	false	"Desktop key"
//	@Success		200	{object}	downloads.Selection
//	@Failure		404	{object}	models.ErrorResponse
//	@Router			/api/v1/downloads [get]
func (dc *DownloadsController) GetSelection(c *gin.Context) {
	sel, err := dc.server.Downloads()
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, downloads.ErrNoReleases) {
			status = http.StatusNotFound
		}
		c.JSON(status, &models.ErrorResponse{
			Code:  "downloads.unavailable",
			Error: err.Error(),
		})
		return
	}

	args := map[string]string{}
	for _, key := range []string{"v", "d"} {
		if v, ok := c.GetQuery(key); ok {
			args[key] = v
		}
	}
	sel.PreferredRelease(args)
	c.JSON(http.StatusOK, sel.Selection())
}
