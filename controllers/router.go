package controllers

import (
	"canvas-portal/internal/config"
	"canvas-portal/internal/middleware"
	"canvas-portal/services"

	"github.com/gin-gonic/gin"
)

/**
 * Build the portal router
 * @param {*services.Server} server - Portal server
 * @param {config.AppConfig} cfg - Application configuration (server mode, session settings)
 * @returns {*gin.Engine} Router with middleware and every controller registered
 */
func NewRouter(server *services.Server, cfg config.AppConfig) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.MetricsMiddleware())

	NewAPIController(server).RegisterRoutes(router)
	NewDownloadsController(server).RegisterRoutes(router)

	// 以下路由需要访客会话
	router.Use(middleware.SessionMiddleware(server.Sessions(), cfg.Session))
	NewPageController().RegisterRoutes(router)
	NewCatalogController().RegisterRoutes(router)
	NewFormsController().RegisterRoutes(router)
	return router
}
