// Package service 定义业务层接口
// Handler 层只依赖这些接口，测试时可替换为 mock
package service

import (
	"context"

	"huddle_server/internal/dto/request"
	"huddle_server/internal/dto/respond"
)

// ActivityService 活动与成员关系
type ActivityService interface {
	// CreateActivity 创建活动，发起人自动成为第一个成员
	CreateActivity(ctx context.Context, organizerId string, req request.CreateActivityRequest) (*respond.ActivityRespond, error)
	// ListActivities 未取消的活动，按时间升序
	ListActivities(ctx context.Context, req request.ListActivitiesRequest) ([]respond.ActivityRespond, error)
	// ListMyActivities 我发起或加入的活动
	ListMyActivities(ctx context.Context, userId string) ([]respond.ActivityRespond, error)
	// GetActivity 活动详情，含成员与消息
	GetActivity(ctx context.Context, activityId string) (*respond.ActivityDetailRespond, error)
	// UpdateActivity 发起人修改或取消活动
	UpdateActivity(ctx context.Context, actorId, activityId string, req request.UpdateActivityRequest) (*respond.ActivityRespond, error)
	// JoinActivity 加入活动
	JoinActivity(ctx context.Context, userId, activityId string) error
	// LeaveActivity 退出活动，幂等
	LeaveActivity(ctx context.Context, userId, activityId string) error
	// PostMessage 在活动中发消息
	PostMessage(ctx context.Context, userId, activityId string, req request.PostMessageRequest) (*respond.MessageRespond, error)
	// ListMessages 拉取消息
	ListMessages(ctx context.Context, userId, activityId string, req request.ListMessagesRequest) ([]respond.MessageRespond, error)
}

// UserService 账号与个人资料
type UserService interface {
	Register(ctx context.Context, req request.RegisterRequest) (*respond.LoginRespond, error)
	Login(ctx context.Context, req request.LoginRequest) (*respond.LoginRespond, error)
	GetProfile(ctx context.Context, userId string) (*respond.UserProfileRespond, error)
	UpdateProfile(ctx context.Context, userId string, req request.UpdateProfileRequest) (*respond.UserProfileRespond, error)
}

// AuthService Token 刷新
type AuthService interface {
	RefreshToken(ctx context.Context, req request.RefreshTokenRequest) (*respond.RefreshTokenRespond, error)
}
