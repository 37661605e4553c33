// Package db 负责建立数据库连接、自动迁移表结构、初始化 Repository 层
// 支持 MySQL（生产）和 SQLite（单机部署）两种存储
package db

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"huddle_server/internal/config"
	"huddle_server/internal/dao/db/repository"
	"huddle_server/internal/model"

	"go.uber.org/zap"
	mysqldriver "gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Init 按配置打开数据库、迁移表结构并返回 Repository 聚合
func Init() *repository.Repositories {
	conf := config.GetConfig()
	gdb, err := Open(conf)
	if err != nil {
		zap.L().Fatal("open database failed", zap.String("driver", conf.Driver), zap.Error(err))
	}
	if err := Migrate(gdb); err != nil {
		zap.L().Fatal("auto migrate failed", zap.Error(err))
	}
	return repository.NewRepositories(gdb)
}

// Open 根据 databaseConfig.driver 选择方言
func Open(conf *config.Config) (*gorm.DB, error) {
	gormConf := NewGormConfig()
	switch conf.Driver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			conf.MysqlConfig.User,
			conf.MysqlConfig.Password,
			conf.MysqlConfig.Host,
			conf.MysqlConfig.Port,
			conf.MysqlConfig.DatabaseName,
		)
		gdb, err := gorm.Open(mysqldriver.Open(dsn), gormConf)
		if err != nil {
			return nil, err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(conf.MaxOpenConns)
		sqlDB.SetMaxIdleConns(conf.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(time.Hour)
		return gdb, nil
	case "sqlite":
		if dir := filepath.Dir(conf.SqlitePath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		return OpenSQLite(conf.SqlitePath+"?_busy_timeout=5000&_foreign_keys=on", gormConf)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", conf.Driver)
	}
}

// OpenSQLite 打开 SQLite 并限制为单连接
// SQLite 不支持行锁，单连接使所有事务串行执行，活动上的检查-写入因此是原子的
func OpenSQLite(dsn string, gormConf *gorm.Config) (*gorm.DB, error) {
	gdb, err := gorm.Open(sqlite.Open(dsn), gormConf)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return gdb, nil
}

// NewGormConfig 所有时间统一存 UTC；TranslateError 让唯一键冲突变成 gorm.ErrDuplicatedKey
func NewGormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Migrate 自动迁移全部表结构
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&model.UserInfo{},
		&model.UserInterest{},
		&model.Activity{},
		&model.Participant{},
		&model.Message{},
	)
}
