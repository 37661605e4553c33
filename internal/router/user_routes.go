package router

import (
	"huddle_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

func (rt *Router) registerUserRoutes(api *gin.RouterGroup) {
	authed := api.Group("", middleware.JWTAuth())
	{
		authed.GET("/me", rt.handlers.User.GetMe)
		authed.GET("/me/activities", rt.handlers.Activity.ListMyActivities)
		authed.PATCH("/users/me", rt.handlers.User.UpdateMe)
		authed.GET("/users/:id", rt.handlers.User.GetUser)
	}
}
