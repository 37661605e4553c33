package repository

import (
	"errors"
	"time"

	"huddle_server/internal/model"

	"gorm.io/gorm"
)

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建 MessageRepository 实例
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(m *model.Message) error {
	if err := r.db.Create(m).Error; err != nil {
		return wrapDBErrorf(err, "append message activity=%s", m.ActivityId)
	}
	return nil
}

func (r *messageRepository) LastCreatedAt(activityId string) (time.Time, bool, error) {
	var last model.Message
	err := r.db.Where("activity_id = ?", activityId).
		Order("created_at DESC, id DESC").
		Take(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, wrapDBErrorf(err, "last message activity=%s", activityId)
	}
	return last.CreatedAt, true, nil
}

func (r *messageRepository) FindByUuid(uuid string) (*model.Message, error) {
	var m model.Message
	if err := r.db.Where("uuid = ?", uuid).First(&m).Error; err != nil {
		return nil, wrapDBErrorf(err, "find message uuid=%s", uuid)
	}
	return &m, nil
}

func (r *messageRepository) ListWithSender(activityId string, afterID uint) ([]MessageWithSender, error) {
	q := r.db.Table("activity_message AS m").
		Select("m.id, m.uuid, m.activity_id, m.sender_id, COALESCE(u.name, '') AS sender_name, m.content, m.created_at").
		Joins("LEFT JOIN user_info u ON u.uuid = m.sender_id").
		Where("m.activity_id = ?", activityId)
	if afterID > 0 {
		q = q.Where("m.id > ?", afterID)
	}
	rows := make([]MessageWithSender, 0)
	if err := q.Order("m.created_at ASC, m.id ASC").Scan(&rows).Error; err != nil {
		return nil, wrapDBErrorf(err, "list messages activity=%s", activityId)
	}
	return rows, nil
}
