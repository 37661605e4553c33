// Package idgen 生成对外暴露的实体 ID
// 活动、用户使用 UUID；消息使用雪花 ID，天然按时间递增
package idgen

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	node     *snowflake.Node
	nodeOnce sync.Once
)

// Init 初始化雪花算法节点，应在程序启动时调用一次
// machineID 超出 0-1023 时回退为 1
func Init(machineID int64) {
	nodeOnce.Do(func() {
		if machineID < 0 || machineID > 1023 {
			zap.L().Warn("invalid snowflake machine id, using 1", zap.Int64("machineID", machineID))
			machineID = 1
		}
		var err error
		node, err = snowflake.NewNode(machineID)
		if err != nil {
			zap.L().Fatal("init snowflake node failed", zap.Error(err))
		}
	})
}

// NewUUID 活动、用户、成员关系 ID
func NewUUID() string {
	return uuid.NewString()
}

// NewMessageID 雪花 ID 字符串，避免 JavaScript 精度丢失
func NewMessageID() string {
	Init(1)
	return node.Generate().String()
}
