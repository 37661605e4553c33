// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	"huddle_server/internal/config"
	"huddle_server/internal/dao/db/repository"
	myredis "huddle_server/internal/dao/redis"
	"huddle_server/internal/infrastructure/mq"
	"huddle_server/internal/service/activity"
	"huddle_server/internal/service/auth"
	"huddle_server/internal/service/user"
)

// Services 聚合所有 Service 实例
type Services struct {
	Activity ActivityService
	User     UserService
	Auth     AuthService
}

// NewServices 创建并注入所有 Service 实例
func NewServices(repos *repository.Repositories, cache myredis.AsyncCacheService, publisher mq.Publisher, conf config.CommunityConfig) *Services {
	return &Services{
		Activity: activity.NewActivityService(repos, publisher),
		User:     user.NewUserService(repos, cache, conf),
		Auth:     auth.NewAuthService(cache),
	}
}
