package model

import "time"

// Message 活动聊天消息，只追加不修改
// 对应数据库 activity_message 表
type Message struct {
	// ID 自增主键，created_at 相同时按它还原插入顺序
	ID uint `gorm:"primaryKey"`

	// Uuid 雪花算法生成的消息 ID（字符串形式，避免前端精度丢失）
	Uuid string `gorm:"column:uuid;uniqueIndex;type:varchar(20);not null;comment:消息雪花ID"`

	ActivityId string `gorm:"column:activity_id;type:char(36);not null;index:idx_message_activity_created,priority:1;comment:活动uuid"`
	SenderId   string `gorm:"column:sender_id;type:char(36);not null;comment:发送者uuid"`

	// Content 已去除首尾空白，非空
	Content string `gorm:"column:content;type:text;not null;comment:消息内容"`

	// CreatedAt 服务端赋值，同一活动内单调不减
	CreatedAt time.Time `gorm:"column:created_at;not null;index:idx_message_activity_created,priority:2;comment:发送时间"`
}

func (Message) TableName() string {
	return "activity_message"
}
