package router

import (
	"github.com/gin-gonic/gin"
)

// registerAuthRoutes 公开接口，无需认证
func (rt *Router) registerAuthRoutes(api *gin.RouterGroup) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/signup", rt.handlers.User.Register)
		authGroup.POST("/login", rt.handlers.User.Login)
		authGroup.POST("/refresh", rt.handlers.Auth.RefreshToken)
	}
}
