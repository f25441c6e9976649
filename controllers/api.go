package controllers

import (
	"canvas-portal/internal/config"
	"canvas-portal/internal/logger"
	"canvas-portal/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type APIController struct {
	server *services.Server
}

/**
 * Create new API controller instance
 * @param {*services.Server} server - Portal server holding sessions and the download map
 * @returns {*APIController} New API controller instance
 * @example
 * controller := controllers.NewAPIController(services.NewServer(config.App, nil))
 */
func NewAPIController(server *services.Server) *APIController {
	return &APIController{
		server: server,
	}
}

/**
 * Register operational routes to Gin engine
 * @param {*gin.Engine} r - Gin router instance
 * @description
 * - Registers routes for:
 *   - Configuration reload
 *   - Health check
 *   - Prometheus scrape endpoint
 */
func (a *APIController) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/v1/reload", a.ReloadConfig)
	r.GET("/healthz", a.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// @Summary 重新加载配置
// @Description 重新加载应用配置文件和下载列表
// @Tags Config
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/reload [post]
func (a *APIController) ReloadConfig(c *gin.Context) {
	if err := config.ReloadConfig(); err != nil {
		c.JSON(500, gin.H{
			"code":    "config.reload_failed",
			"message": "Failed to reload configuration: " + err.Error(),
		})
		return
	}
	a.server.ApplyConfig()
	if err := a.server.LoadDownloads(); err != nil {
		logger.Errorf("Reload download map failed: %v", err)
		c.JSON(500, gin.H{
			"code":    "downloads.reload_failed",
			"message": "Failed to reload download map: " + err.Error(),
		})
		return
	}

	c.JSON(200, gin.H{
		"status":  "success",
		"message": "Configuration reloaded successfully",
	})
}

// @Summary 业务就绪探针
// @Description 返回服务版本、启动时间、健康状态和关键指标统计结果
// @Tags System
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /healthz [get]
func (a *APIController) Healthz(c *gin.Context) {
	response := a.server.GetHealthz()
	c.JSON(200, response)
}
