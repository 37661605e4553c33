// Package repository 定义数据访问层接口和聚合结构
// 所有 Repository 接口在此文件定义，具体实现在各自的文件中
package repository

import (
	"context"
	"time"

	"huddle_server/internal/model"

	"gorm.io/gorm"
)

// ==================== 查询投影 ====================

// ActivityFilter 活动列表筛选条件，字段为空表示不限制
type ActivityFilter struct {
	Search   string
	Category string
}

// ActivityWithStats 活动 + 实时参与人数 + 发起人展示信息
type ActivityWithStats struct {
	ID               uint
	Uuid             string
	Title            string
	Category         string
	Description      string
	Location         string
	ScheduledAt      time.Time
	Capacity         int
	OrganizerId      string
	IsCancelled      bool
	CreatedAt        time.Time
	ParticipantCount int64
	OrganizerName    string
	OrganizerPicture string
}

// ParticipantWithUser 成员 + 用户展示信息
type ParticipantWithUser struct {
	UserId            string
	Name              string
	ProfilePictureUrl string
	JoinedAt          time.Time
}

// MessageWithSender 消息 + 发送者昵称
type MessageWithSender struct {
	ID         uint
	Uuid       string
	ActivityId string
	SenderId   string
	SenderName string
	Content    string
	CreatedAt  time.Time
}

// ==================== Repository 接口定义 ====================

// ActivityRepository 活动数据访问接口
type ActivityRepository interface {
	// Create 创建活动
	Create(activity *model.Activity) error
	// FindByUuid 查找活动，不存在返回 CodeNotFound
	FindByUuid(uuid string) (*model.Activity, error)
	// FindByUuidForUpdate 在事务中加行锁查找活动，同一活动上的写操作由此串行化
	FindByUuidForUpdate(uuid string) (*model.Activity, error)
	// UpdateFields 按列更新
	UpdateFields(uuid string, fields map[string]any) error
	// FindWithStats 单个活动的展示投影
	FindWithStats(uuid string) (*ActivityWithStats, error)
	// ListOpen 未取消的活动，按 scheduled_at、插入顺序升序
	ListOpen(filter ActivityFilter) ([]ActivityWithStats, error)
	// ListByParticipant 用户参与（含发起）的全部活动
	ListByParticipant(userId string) ([]ActivityWithStats, error)
}

// ParticipantRepository 活动成员数据访问接口
type ParticipantRepository interface {
	// Create 添加成员，重复加入返回 CodeConflict
	Create(p *model.Participant) error
	// Exists 判断成员关系是否存在
	Exists(activityId, userId string) (bool, error)
	// CountByActivity 活动当前人数
	CountByActivity(activityId string) (int64, error)
	// Delete 删除成员关系，返回删除行数
	Delete(activityId, userId string) (int64, error)
	// ListWithUser 按加入时间列出成员
	ListWithUser(activityId string) ([]ParticipantWithUser, error)
}

// MessageRepository 活动消息数据访问接口
type MessageRepository interface {
	// Create 追加消息
	Create(m *model.Message) error
	// LastCreatedAt 活动最后一条消息的时间，没有消息时 ok=false
	LastCreatedAt(activityId string) (t time.Time, ok bool, err error)
	// FindByUuid 查找单条消息
	FindByUuid(uuid string) (*model.Message, error)
	// ListWithSender 按时间顺序列出 afterID 之后的消息，afterID=0 表示全部
	ListWithSender(activityId string, afterID uint) ([]MessageWithSender, error)
}

// UserRepository 用户数据访问接口
type UserRepository interface {
	Create(user *model.UserInfo) error
	FindByUuid(uuid string) (*model.UserInfo, error)
	FindByEmail(email string) (*model.UserInfo, error)
	UpdateFields(uuid string, fields map[string]any) error
	// ReplaceInterests 整体替换兴趣列表
	ReplaceInterests(userId string, interests []string) error
	ListInterests(userId string) ([]string, error)
}

// ==================== Repository 聚合 ====================

// Repositories 聚合所有 Repository 实例
// 作为依赖注入的入口，Service 层通过此结构访问数据层
type Repositories struct {
	db          *gorm.DB
	Activity    ActivityRepository
	Participant ParticipantRepository
	Message     MessageRepository
	User        UserRepository
}

// NewRepositories 创建所有 Repository 实例
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:          db,
		Activity:    NewActivityRepository(db),
		Participant: NewParticipantRepository(db),
		Message:     NewMessageRepository(db),
		User:        NewUserRepository(db),
	}
}

// WithContext 返回绑定 ctx 的 Repositories，请求取消会传递到 SQL 执行
func (r *Repositories) WithContext(ctx context.Context) *Repositories {
	return NewRepositories(r.db.WithContext(ctx))
}

// Transaction 在数据库事务中执行函数
// fn 返回错误时整体回滚
func (r *Repositories) Transaction(fn func(txRepos *Repositories) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
