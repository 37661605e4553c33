// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	"huddle_server/internal/handler"
	"huddle_server/internal/infrastructure/metrics"

	"github.com/gin-gonic/gin"
)

// Router 持有注入的 Handler 聚合
type Router struct {
	handlers *handler.Handlers
}

func NewRouter(handlers *handler.Handlers) *Router {
	return &Router{handlers: handlers}
}

// RegisterRoutes 注册所有路由
func (rt *Router) RegisterRoutes(r *gin.Engine) {
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	rt.registerAuthRoutes(api)
	rt.registerUserRoutes(api)
	rt.registerActivityRoutes(api)
}
