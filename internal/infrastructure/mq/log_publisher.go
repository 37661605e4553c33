package mq

import (
	"context"

	"huddle_server/internal/config"

	"go.uber.org/zap"
)

// LogPublisher 不接 Kafka 时使用，把事件写进日志
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, event ActivityEvent) error {
	zap.L().Info("activity event",
		zap.String("type", event.Type),
		zap.String("activity_id", event.ActivityId),
		zap.String("user_id", event.UserId),
		zap.String("message_id", event.MessageId),
		zap.Time("occurred_at", event.OccurredAt),
	)
	return nil
}

func (LogPublisher) Close() error { return nil }

// NewPublisher 按 kafkaConfig.eventMode 选择实现
func NewPublisher(conf config.KafkaConfig) Publisher {
	if conf.EventMode == "kafka" {
		zap.L().Info("activity events go to kafka",
			zap.String("broker", conf.HostPort), zap.String("topic", conf.ActivityTopic))
		return NewKafkaPublisher(conf)
	}
	return LogPublisher{}
}
