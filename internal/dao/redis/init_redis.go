package redis

import (
	"context"
	"net"
	"strconv"
	"time"

	"huddle_server/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Init 按配置创建 Redis 客户端和缓存服务
// 启动时 Ping 失败只告警：缓存与 refresh token 不可用，但活动核心流程仍可工作
func Init() *RedisCache {
	conf := config.GetConfig().RedisConfig
	client := redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(conf.Host, strconv.Itoa(conf.Port)),
		Password:     conf.Password,
		DB:           conf.Db,
		PoolSize:     50,
		MinIdleConns: conf.WorkerNum,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		zap.L().Warn("redis ping failed", zap.String("addr", client.Options().Addr), zap.Error(err))
	}
	return NewRedisCache(client, conf.WorkerNum, conf.TaskBufferSize)
}
