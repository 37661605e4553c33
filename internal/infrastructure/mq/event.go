// Package mq 投递活动领域事件
package mq

import (
	"context"
	"time"
)

// 事件类型，同时作为 Kafka 消息头 event-type
const (
	EventActivityCreated   = "activity.created"
	EventMemberJoined      = "activity.member.joined"
	EventMemberLeft        = "activity.member.left"
	EventActivityCancelled = "activity.cancelled"
	EventMessagePosted     = "activity.message.posted"
)

// ActivityEvent 事务提交后发布；以 ActivityId 作为分区键，保证同一活动内有序
type ActivityEvent struct {
	Type       string    `json:"type"`
	ActivityId string    `json:"activityId"`
	UserId     string    `json:"userId"`
	MessageId  string    `json:"messageId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher 事件发布接口
// 发布是尽力而为的：失败只记录日志，不影响已提交的业务结果
type Publisher interface {
	Publish(ctx context.Context, event ActivityEvent) error
	Close() error
}
