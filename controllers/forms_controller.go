package controllers

import (
	"net/http"

	"canvas-portal/internal/forms"
	"canvas-portal/internal/middleware"
	"canvas-portal/internal/models"

	"github.com/gin-gonic/gin"
)

type FormsController struct{}

func NewFormsController() *FormsController {
	return &FormsController{}
}

// Form names served under /api/v1/forms.
var formNames = []string{"activate", "register", "password-reset", "donate", "sponsor"}

/**
 * Register form validation routes
 * @param {*gin.Engine} r - Gin router instance, SessionMiddleware must be installed
 * @description
 * - One POST route per form returning per-field state and allowed actions
 * - Lookup fills the session availability cache from the profile service
 */
func (fc *FormsController) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1/forms")
	for _, name := range formNames {
		api.POST("/"+name, fc.Evaluate(name))
	}
	api.POST("/lookup", fc.Lookup)
}

// Evaluate validates a form against the session availability cache
//
//	@Summary		Validate form
//	@Description	Per-field validity, messages and styling classes plus the submit actions allowed
//	@Tags			Forms
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	forms.Report
//	@Failure		400	{object}	models.ErrorResponse
//	@Router			/api/v1/forms/{name} [post]
func (fc *FormsController) Evaluate(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		form := forms.New(name)
		if err := c.ShouldBindJSON(form); err != nil {
			badRequest(c, "forms.invalid_body", err.Error())
			return
		}
		sess := middleware.CurrentSession(c)
		c.JSON(http.StatusOK, form.Evaluate(sess.Cache))
	}
}

type lookupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type availability struct {
	Key       string `json:"key"`
	Checked   bool   `json:"checked"`
	Available bool   `json:"available"`
}

type lookupResponse struct {
	Loading  bool          `json:"loading"`
	Username *availability `json:"username,omitempty"`
	Email    *availability `json:"email,omitempty"`
}

// Lookup checks username and email availability
//
//	@Summary		Availability lookup
//	@Description	Username only checks for activation; username and email for registration
//	@Tags			Forms
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	lookupResponse
//	@Failure		502	{object}	models.ErrorResponse
//	@Router			/api/v1/forms/lookup [post]
func (fc *FormsController) Lookup(c *gin.Context) {
	var req lookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "forms.invalid_body", err.Error())
		return
	}

	sess := middleware.CurrentSession(c)
	var err error
	if req.Email == "" {
		err = sess.Lookup.LookupUsername(c.Request.Context(), req.Username)
	} else {
		err = sess.Lookup.LookupAccount(c.Request.Context(), req.Username, req.Email)
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, &models.ErrorResponse{
			Code:  "forms.lookup_failed",
			Error: err.Error(),
		})
		return
	}

	cache := sess.Cache
	resp := lookupResponse{Loading: sess.Lookup.IsLoading()}
	if req.Username != "" {
		available, ok := cache.Username(req.Username)
		resp.Username = &availability{Key: req.Username, Checked: ok, Available: available}
	}
	if req.Email != "" {
		available, ok := cache.Email(req.Email)
		resp.Email = &availability{Key: req.Email, Checked: ok, Available: available}
	}
	c.JSON(http.StatusOK, resp)
}
