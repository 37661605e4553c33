package repository

import (
	"huddle_server/internal/model"

	"gorm.io/gorm"
)

type participantRepository struct {
	db *gorm.DB
}

// NewParticipantRepository 创建 ParticipantRepository 实例
func NewParticipantRepository(db *gorm.DB) ParticipantRepository {
	return &participantRepository{db: db}
}

// Create 唯一索引 uk_activity_user 兜底，冲突时返回 CodeConflict
func (r *participantRepository) Create(p *model.Participant) error {
	if err := r.db.Create(p).Error; err != nil {
		return wrapDBErrorf(err, "add participant activity=%s user=%s", p.ActivityId, p.UserId)
	}
	return nil
}

func (r *participantRepository) Exists(activityId, userId string) (bool, error) {
	var n int64
	if err := r.db.Model(&model.Participant{}).
		Where("activity_id = ? AND user_id = ?", activityId, userId).
		Count(&n).Error; err != nil {
		return false, wrapDBErrorf(err, "check participant activity=%s user=%s", activityId, userId)
	}
	return n > 0, nil
}

func (r *participantRepository) CountByActivity(activityId string) (int64, error) {
	var n int64
	if err := r.db.Model(&model.Participant{}).Where("activity_id = ?", activityId).Count(&n).Error; err != nil {
		return 0, wrapDBErrorf(err, "count participants activity=%s", activityId)
	}
	return n, nil
}

func (r *participantRepository) Delete(activityId, userId string) (int64, error) {
	res := r.db.Where("activity_id = ? AND user_id = ?", activityId, userId).Delete(&model.Participant{})
	if res.Error != nil {
		return 0, wrapDBErrorf(res.Error, "remove participant activity=%s user=%s", activityId, userId)
	}
	return res.RowsAffected, nil
}

// ListWithUser LEFT JOIN user_info 获取昵称和头像
func (r *participantRepository) ListWithUser(activityId string) ([]ParticipantWithUser, error) {
	rows := make([]ParticipantWithUser, 0)
	if err := r.db.Table("activity_participant AS p").
		Select("p.user_id, COALESCE(u.name, '') AS name, COALESCE(u.profile_picture_url, '') AS profile_picture_url, p.joined_at").
		Joins("LEFT JOIN user_info u ON u.uuid = p.user_id").
		Where("p.activity_id = ?", activityId).
		Order("p.joined_at ASC, p.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, wrapDBErrorf(err, "list participants activity=%s", activityId)
	}
	return rows, nil
}
