// Package https_server 创建 Gin 引擎并配置中间件和路由
package https_server

import (
	"net/http"

	"huddle_server/internal/config"
	"huddle_server/internal/handler"
	"huddle_server/internal/infrastructure/logger"
	"huddle_server/internal/infrastructure/metrics"
	"huddle_server/internal/infrastructure/middleware"
	"huddle_server/internal/router"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Init 初始化 Gin 引擎
// 中间件顺序：日志、恢复、指标、安全头（或 TLS 重定向）、CORS
func Init(conf *config.Config, handlers *handler.Handlers) *gin.Engine {
	if conf.MainConfig.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	engine.Use(logger.GinLogger())
	engine.Use(logger.GinRecovery(true))
	engine.Use(metrics.GinMetrics())

	if conf.MainConfig.EnableTLS {
		engine.Use(middleware.TlsHandler(conf.MainConfig.Host, conf.MainConfig.Port))
	} else {
		engine.Use(middleware.SecureHeaders(conf.MainConfig.Mode != gin.ReleaseMode))
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	engine.Use(cors.New(corsConfig))

	router.NewRouter(handlers).RegisterRoutes(engine)
	return engine
}

// Serve 阻塞监听；enableTls 时使用配置的证书直接提供 HTTPS
func Serve(srv *http.Server, conf config.MainConfig) error {
	if conf.EnableTLS {
		return srv.ListenAndServeTLS(conf.CertFile, conf.KeyFile)
	}
	return srv.ListenAndServe()
}
