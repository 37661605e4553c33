package handler

import (
	"huddle_server/internal/dto/request"
	"huddle_server/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler Token 刷新
type AuthHandler struct {
	authSvc service.AuthService
}

func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// RefreshToken POST /api/auth/refresh
// 只接受最近一次登录签发的 Refresh Token，在其他设备登录后旧的会被拒绝
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req request.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.authSvc.RefreshToken(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
