package model

import "time"

// Participant 活动成员关系
// 对应数据库 activity_participant 表，(activity_id, user_id) 唯一。
// 退出活动是物理删除，不使用软删除，否则唯一索引会挡住再次加入
type Participant struct {
	ID         uint      `gorm:"primaryKey"`
	ActivityId string    `gorm:"column:activity_id;type:char(36);not null;uniqueIndex:uk_activity_user,priority:1;comment:活动uuid"`
	UserId     string    `gorm:"column:user_id;type:char(36);not null;uniqueIndex:uk_activity_user,priority:2;index:idx_participant_user;comment:用户uuid"`
	JoinedAt   time.Time `gorm:"column:joined_at;not null;comment:加入时间"`
}

func (Participant) TableName() string {
	return "activity_participant"
}
