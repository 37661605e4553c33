package router

import (
	"huddle_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

func (rt *Router) registerActivityRoutes(api *gin.RouterGroup) {
	h := rt.handlers.Activity
	activityGroup := api.Group("/activities", middleware.JWTAuth())
	{
		activityGroup.POST("", h.CreateActivity)
		activityGroup.GET("", h.ListActivities)
		activityGroup.GET("/:id", h.GetActivity)
		activityGroup.PATCH("/:id", h.UpdateActivity)
		activityGroup.POST("/:id/join", h.JoinActivity)
		activityGroup.POST("/:id/leave", h.LeaveActivity)
		activityGroup.POST("/:id/messages", h.PostMessage)
		activityGroup.GET("/:id/messages", h.ListMessages)
	}
}
