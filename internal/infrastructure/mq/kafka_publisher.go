package mq

import (
	"context"
	"encoding/json"
	"time"

	"huddle_server/internal/config"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaPublisher 基于 kafka-go Writer 的异步发布
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher Async 模式下 WriteMessages 立即返回，写入结果在 Completion 回调中记录
func NewKafkaPublisher(conf config.KafkaConfig) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(conf.HostPort),
			Topic:                  conf.ActivityTopic,
			Balancer:               &kafka.Hash{},
			WriteTimeout:           conf.Timeout * time.Second,
			BatchTimeout:           10 * time.Millisecond,
			RequiredAcks:           kafka.RequireOne,
			Async:                  true,
			AllowAutoTopicCreation: false,
			Completion: func(messages []kafka.Message, err error) {
				if err != nil {
					zap.L().Error("kafka publish failed", zap.Int("count", len(messages)), zap.Error(err))
				}
			},
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event ActivityEvent) error {
	msg, err := encode(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

// Close 刷出缓冲中的消息
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func encode(event ActivityEvent) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(event.ActivityId),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}, nil
}
