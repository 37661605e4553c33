package handler

import (
	"huddle_server/internal/dto/request"
	"huddle_server/internal/service"

	"github.com/gin-gonic/gin"
)

// ActivityHandler 活动请求处理器
type ActivityHandler struct {
	activitySvc service.ActivityService
}

func NewActivityHandler(activitySvc service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activitySvc: activitySvc}
}

// CreateActivity POST /api/activities
func (h *ActivityHandler) CreateActivity(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	var req request.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.activitySvc.CreateActivity(c.Request.Context(), uid, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleCreated(c, data)
}

// ListActivities GET /api/activities?search=&category=
func (h *ActivityHandler) ListActivities(c *gin.Context) {
	var req request.ListActivitiesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.activitySvc.ListActivities(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ListMyActivities GET /api/me/activities
func (h *ActivityHandler) ListMyActivities(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	data, err := h.activitySvc.ListMyActivities(c.Request.Context(), uid)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetActivity GET /api/activities/:id
func (h *ActivityHandler) GetActivity(c *gin.Context) {
	data, err := h.activitySvc.GetActivity(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// UpdateActivity PATCH /api/activities/:id
func (h *ActivityHandler) UpdateActivity(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	var req request.UpdateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.activitySvc.UpdateActivity(c.Request.Context(), uid, c.Param("id"), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// JoinActivity POST /api/activities/:id/join
func (h *ActivityHandler) JoinActivity(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := h.activitySvc.JoinActivity(c.Request.Context(), uid, c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// LeaveActivity POST /api/activities/:id/leave
func (h *ActivityHandler) LeaveActivity(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := h.activitySvc.LeaveActivity(c.Request.Context(), uid, c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// PostMessage POST /api/activities/:id/messages
func (h *ActivityHandler) PostMessage(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	var req request.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.activitySvc.PostMessage(c.Request.Context(), uid, c.Param("id"), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleCreated(c, data)
}

// ListMessages GET /api/activities/:id/messages?after=
func (h *ActivityHandler) ListMessages(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	var req request.ListMessagesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.activitySvc.ListMessages(c.Request.Context(), uid, c.Param("id"), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
