package middleware

import (
	"time"

	"canvas-portal/services"

	"github.com/gin-gonic/gin"
)

/**
 * HTTP请求统计中间件
 * @description
 * - 统计HTTP服务器收到的请求数量
 * - 记录请求处理时间
 * - 区分成功和失败的请求
 * - 为健康检查接口提供请求数据
 */
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 记录请求开始时间
		start := time.Now()

		// 处理请求
		c.Next()

		// 计算请求处理时间
		duration := time.Since(start).Seconds()

		// 获取请求状态码
		statusCode := c.Writer.Status()

		// 使用路由模板作为标签，避免包ID等参数造成标签膨胀
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		services.IncrementRequestCount(route)
		services.RecordRequestDuration(route, duration)

		// 状态码 >= 400 计为错误请求
		if statusCode >= 400 {
			services.IncrementErrorCount(route)
		}
	}
}
