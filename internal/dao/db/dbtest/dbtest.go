// Package dbtest 为测试提供迁移好的内存 SQLite 数据库
package dbtest

import (
	"testing"

	"huddle_server/internal/dao/db"
	"huddle_server/internal/dao/db/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open 每次调用得到一个独立的空库，测试结束自动关闭
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	conf := db.NewGormConfig()
	conf.Logger = logger.Default.LogMode(logger.Silent)

	gdb, err := db.OpenSQLite(":memory:", conf)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gdb
}

// Repos 基于 Open 的 Repository 聚合
func Repos(t testing.TB) *repository.Repositories {
	return repository.NewRepositories(Open(t))
}
