package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

// TlsHandler HTTP 请求重定向到 HTTPS，并附带安全响应头
func TlsHandler(host string, port int) gin.HandlerFunc {
	return secureHandler(secure.Options{
		SSLRedirect:          true,
		SSLHost:              host + ":" + strconv.Itoa(port),
		STSSeconds:           31536000,
		STSIncludeSubdomains: true,
		FrameDeny:            true,
		ContentTypeNosniff:   true,
	})
}

// SecureHeaders 只添加安全响应头，不做重定向（TLS 由前置代理终止时使用）
func SecureHeaders(isDevelopment bool) gin.HandlerFunc {
	return secureHandler(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		IsDevelopment:      isDevelopment,
	})
}

func secureHandler(opts secure.Options) gin.HandlerFunc {
	secureMiddleware := secure.New(opts)
	return func(c *gin.Context) {
		if err := secureMiddleware.Process(c.Writer, c.Request); err != nil {
			// 重定向时 Process 已写好响应，这里只需终止
			zap.L().Debug("secure middleware stopped request", zap.Error(err))
			c.Abort()
			return
		}
		c.Next()
	}
}
