package repository

import (
	"strings"

	"huddle_server/internal/model"

	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建 UserRepository 实例
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.UserInfo) error {
	if err := r.db.Create(user).Error; err != nil {
		return wrapDBErrorf(err, "create user email=%s", user.Email)
	}
	return nil
}

func (r *userRepository) FindByUuid(uuid string) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.Where("uuid = ?", uuid).First(&user).Error; err != nil {
		return nil, wrapDBErrorf(err, "find user uuid=%s", uuid)
	}
	return &user, nil
}

// FindByEmail 邮箱大小写无关
func (r *userRepository) FindByEmail(email string) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		return nil, wrapDBErrorf(err, "find user email=%s", email)
	}
	return &user, nil
}

func (r *userRepository) UpdateFields(uuid string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	if err := r.db.Model(&model.UserInfo{}).Where("uuid = ?", uuid).Updates(fields).Error; err != nil {
		return wrapDBErrorf(err, "update user uuid=%s", uuid)
	}
	return nil
}

// ReplaceInterests 先删后插，调用方负责放在事务中
func (r *userRepository) ReplaceInterests(userId string, interests []string) error {
	if err := r.db.Where("user_id = ?", userId).Delete(&model.UserInterest{}).Error; err != nil {
		return wrapDBErrorf(err, "clear interests user=%s", userId)
	}
	if len(interests) == 0 {
		return nil
	}
	rows := make([]model.UserInterest, 0, len(interests))
	for i, interest := range interests {
		rows = append(rows, model.UserInterest{UserId: userId, Position: i, Interest: interest})
	}
	if err := r.db.Create(&rows).Error; err != nil {
		return wrapDBErrorf(err, "save interests user=%s", userId)
	}
	return nil
}

func (r *userRepository) ListInterests(userId string) ([]string, error) {
	interests := make([]string, 0)
	if err := r.db.Model(&model.UserInterest{}).
		Where("user_id = ?", userId).
		Order("position ASC").
		Pluck("interest", &interests).Error; err != nil {
		return nil, wrapDBErrorf(err, "list interests user=%s", userId)
	}
	return interests, nil
}
