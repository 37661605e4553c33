// Package handler 提供 HTTP 请求处理器
// 通过构造函数注入 Service 依赖
package handler

import (
	"huddle_server/internal/service"
)

// Handlers 聚合所有 Handler 实例，Router 层通过此结构注册路由
type Handlers struct {
	Activity *ActivityHandler
	User     *UserHandler
	Auth     *AuthHandler
}

// NewHandlers 创建并注入所有 Handler 实例
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Activity: NewActivityHandler(svc.Activity),
		User:     NewUserHandler(svc.User),
		Auth:     NewAuthHandler(svc.Auth),
	}
}
