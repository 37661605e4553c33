package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"huddle_server/internal/config"
	"huddle_server/internal/dao/db"
	myredis "huddle_server/internal/dao/redis"
	"huddle_server/internal/handler"
	"huddle_server/internal/https_server"
	"huddle_server/internal/infrastructure/logger"
	"huddle_server/internal/infrastructure/mq"
	"huddle_server/internal/service"
	"huddle_server/pkg/util/idgen"
	"huddle_server/pkg/util/jwt"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()
	if err := conf.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, conf.MainConfig.Mode); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer zap.L().Sync()

	// 3. 数据库与缓存
	repos := db.Init()
	zap.L().Info("database ready", zap.String("driver", conf.Driver))
	cache := myredis.Init()

	// 4. ID 与 Token
	idgen.Init(conf.SnowflakeConfig.MachineID)
	jwt.Init(conf.JWTConfig.Secret, conf.JWTConfig.AccessTokenExpiry, conf.JWTConfig.RefreshTokenExpiry)

	// 5. 事件发布
	publisher := mq.NewPublisher(conf.KafkaConfig)

	// 6. Service / Handler 依赖注入
	if err := handler.InitTrans("en"); err != nil {
		zap.L().Fatal("init validator translator failed", zap.Error(err))
	}
	services := service.NewServices(repos, cache, publisher, conf.CommunityConfig)
	engine := https_server.Init(conf, handler.NewHandlers(services))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port),
		Handler: engine,
	}
	go func() {
		zap.L().Info("server listening", zap.String("addr", srv.Addr), zap.Bool("tls", conf.MainConfig.EnableTLS))
		if err := https_server.Serve(srv, conf.MainConfig); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("server shutdown failed", zap.Error(err))
	}
	// 先停 HTTP，再关闭事件与缓存，保证在途请求的事件能发出
	if err := publisher.Close(); err != nil {
		zap.L().Error("close event publisher failed", zap.Error(err))
	}
	cache.Close()
	zap.L().Info("server exited")
}
