// Package model 定义数据库实体模型
package model

import "time"

// ActivityCategory 活动分类
type ActivityCategory string

const (
	CategoryStudy  ActivityCategory = "study"
	CategoryMeal   ActivityCategory = "meal"
	CategorySports ActivityCategory = "sports"
	CategorySocial ActivityCategory = "social"
	CategoryArts   ActivityCategory = "arts"
	CategoryOther  ActivityCategory = "other"
)

// Categories 全部合法分类，顺序即前端展示顺序
var Categories = []ActivityCategory{
	CategoryStudy, CategoryMeal, CategorySports, CategorySocial, CategoryArts, CategoryOther,
}

// IsValid 判断分类是否为枚举值之一（大小写敏感）
func (c ActivityCategory) IsValid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Activity 活动
// 对应数据库 activity 表。参与人数不落库，每次查询时由 activity_participant 实时统计
type Activity struct {
	// ID 自增主键，同一 scheduled_at 下作为插入顺序的排序依据
	ID uint `gorm:"primaryKey"`

	// Uuid 对外暴露的活动 ID
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(36);not null;comment:活动唯一id"`

	Title       string           `gorm:"column:title;type:varchar(120);not null;comment:标题"`
	Category    ActivityCategory `gorm:"column:category;type:varchar(16);index;not null;comment:分类"`
	Description string           `gorm:"column:description;type:text;comment:描述"`
	Location    string           `gorm:"column:location;type:varchar(200);not null;comment:地点"`

	// ScheduledAt 活动开始时间，只在创建时要求晚于当前时间
	ScheduledAt time.Time `gorm:"column:scheduled_at;index;not null;comment:活动时间"`

	// Capacity 人数上限（含发起人），取值 [2,50]
	Capacity int `gorm:"column:capacity;not null;comment:人数上限"`

	// OrganizerId 发起人 uuid，创建后不可修改
	OrganizerId string `gorm:"column:organizer_id;type:char(36);index;not null;comment:发起人uuid"`

	// IsCancelled 只能由 false 变为 true
	IsCancelled bool `gorm:"column:is_cancelled;not null;default:false;comment:是否已取消"`

	CreatedAt time.Time `gorm:"column:created_at;comment:创建时间"`
	UpdatedAt time.Time `gorm:"column:updated_at;comment:更新时间"`
}

// TableName 指定表名
func (Activity) TableName() string {
	return "activity"
}
