package repository

import (
	"errors"
	"strings"

	"huddle_server/pkg/errorx"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// wrapDBError 包装数据库错误
//   - ErrRecordNotFound -> CodeNotFound
//   - 唯一键冲突 -> CodeConflict
//   - 其他错误 -> CodeDBError
func wrapDBError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errorx.Wrap(err, classify(err), msg)
}

// wrapDBErrorf 功能同 wrapDBError，支持格式化消息
func wrapDBErrorf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return errorx.Wrapf(err, classify(err), format, args...)
}

func classify(err error) int {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errorx.CodeNotFound
	case IsDuplicateKeyErr(err):
		return errorx.CodeConflict
	default:
		return errorx.CodeDBError
	}
}

// IsDuplicateKeyErr 判断是否为唯一键冲突
// 开启 TranslateError 后驱动会转换为 gorm.ErrDuplicatedKey，其余情况按驱动原始错误兜底
func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysqldriver.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// likePattern 生成大小写无关的子串匹配模式，使用 '!' 作为转义符
// MySQL 与 SQLite 都接受 ESCAPE '!'
func likePattern(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}
