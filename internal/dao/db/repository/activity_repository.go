package repository

import (
	"huddle_server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// activityStatsSelect 人数用 COUNT 子查询实时统计，不维护冗余计数
const activityStatsSelect = "a.id, a.uuid, a.title, a.category, a.description, a.location, a.scheduled_at, " +
	"a.capacity, a.organizer_id, a.is_cancelled, a.created_at, " +
	"(SELECT COUNT(*) FROM activity_participant p WHERE p.activity_id = a.uuid) AS participant_count, " +
	"COALESCE(u.name, '') AS organizer_name, COALESCE(u.profile_picture_url, '') AS organizer_picture"

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository 创建 ActivityRepository 实例
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(activity *model.Activity) error {
	if err := r.db.Create(activity).Error; err != nil {
		return wrapDBErrorf(err, "create activity uuid=%s", activity.Uuid)
	}
	return nil
}

func (r *activityRepository) FindByUuid(uuid string) (*model.Activity, error) {
	var activity model.Activity
	if err := r.db.Where("uuid = ?", uuid).First(&activity).Error; err != nil {
		return nil, wrapDBErrorf(err, "find activity uuid=%s", uuid)
	}
	return &activity, nil
}

// FindByUuidForUpdate SELECT ... FOR UPDATE
// SQLite 方言会忽略行锁子句，由单写连接保证串行
func (r *activityRepository) FindByUuidForUpdate(uuid string) (*model.Activity, error) {
	var activity model.Activity
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("uuid = ?", uuid).
		First(&activity).Error; err != nil {
		return nil, wrapDBErrorf(err, "lock activity uuid=%s", uuid)
	}
	return &activity, nil
}

func (r *activityRepository) UpdateFields(uuid string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	if err := r.db.Model(&model.Activity{}).Where("uuid = ?", uuid).Updates(fields).Error; err != nil {
		return wrapDBErrorf(err, "update activity uuid=%s", uuid)
	}
	return nil
}

func (r *activityRepository) statsQuery() *gorm.DB {
	return r.db.Table("activity AS a").
		Select(activityStatsSelect).
		Joins("LEFT JOIN user_info u ON u.uuid = a.organizer_id")
}

func (r *activityRepository) FindWithStats(uuid string) (*ActivityWithStats, error) {
	var rows []ActivityWithStats
	if err := r.statsQuery().Where("a.uuid = ?", uuid).Limit(1).Scan(&rows).Error; err != nil {
		return nil, wrapDBErrorf(err, "find activity view uuid=%s", uuid)
	}
	if len(rows) == 0 {
		return nil, wrapDBErrorf(gorm.ErrRecordNotFound, "find activity view uuid=%s", uuid)
	}
	return &rows[0], nil
}

func (r *activityRepository) ListOpen(filter ActivityFilter) ([]ActivityWithStats, error) {
	q := r.statsQuery().Where("a.is_cancelled = ?", false)
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		q = q.Where("(LOWER(a.title) LIKE ? ESCAPE '!' OR LOWER(a.description) LIKE ? ESCAPE '!')", pattern, pattern)
	}
	if filter.Category != "" {
		q = q.Where("a.category = ?", filter.Category)
	}
	rows := make([]ActivityWithStats, 0)
	if err := q.Order("a.scheduled_at ASC, a.id ASC").Scan(&rows).Error; err != nil {
		return nil, wrapDBError(err, "list activities")
	}
	return rows, nil
}

func (r *activityRepository) ListByParticipant(userId string) ([]ActivityWithStats, error) {
	rows := make([]ActivityWithStats, 0)
	if err := r.statsQuery().
		Where("a.uuid IN (SELECT activity_id FROM activity_participant WHERE user_id = ?)", userId).
		Order("a.scheduled_at ASC, a.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, wrapDBErrorf(err, "list activities of user=%s", userId)
	}
	return rows, nil
}
