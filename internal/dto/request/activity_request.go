package request

import "time"

// CreateActivityRequest 创建活动
// binding 规则只是第一道关，Service 层仍会完整校验
type CreateActivityRequest struct {
	Title       string    `json:"title" binding:"required,max=120"`
	Category    string    `json:"category" binding:"required,oneof=study meal sports social arts other"`
	Description string    `json:"description" binding:"max=2000"`
	Location    string    `json:"location" binding:"required,max=200"`
	ScheduledAt time.Time `json:"scheduledAt" binding:"required"`
	Capacity    int       `json:"capacity" binding:"required,min=2,max=50"`
}

// UpdateActivityRequest 活动部分更新，nil 字段保持不变
type UpdateActivityRequest struct {
	Title       *string    `json:"title" binding:"omitempty,max=120"`
	Category    *string    `json:"category" binding:"omitempty,oneof=study meal sports social arts other"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	Location    *string    `json:"location" binding:"omitempty,max=200"`
	ScheduledAt *time.Time `json:"scheduledAt"`
	Capacity    *int       `json:"capacity" binding:"omitempty,min=2,max=50"`
	IsCancelled *bool      `json:"isCancelled"`
}

// IsEmpty 没有任何字段
func (r UpdateActivityRequest) IsEmpty() bool {
	return r.Title == nil && r.Category == nil && r.Description == nil && r.Location == nil &&
		r.ScheduledAt == nil && r.Capacity == nil && r.IsCancelled == nil
}

// ListActivitiesRequest GET /api/activities?search=&category=
type ListActivitiesRequest struct {
	Search   string `form:"search" binding:"max=100"`
	Category string `form:"category" binding:"omitempty,oneof=study meal sports social arts other"`
}

// PostMessageRequest 发送活动消息，空白检查在 Service 层做（需要 trim）
type PostMessageRequest struct {
	Content string `json:"content" binding:"max=2000"`
}

// ListMessagesRequest 轮询拉取，After 为上次拿到的最后一条消息 ID
type ListMessagesRequest struct {
	After string `form:"after"`
}
