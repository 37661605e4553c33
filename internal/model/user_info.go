package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserInfo 社区成员
// 对应数据库 user_info 表
type UserInfo struct {
	ID   uint   `gorm:"primaryKey"`
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(36);not null;comment:用户唯一id"`

	Name string `gorm:"column:name;type:varchar(60);not null;comment:显示名"`

	// Email 学校邮箱，统一存小写
	Email string `gorm:"column:email;uniqueIndex;type:varchar(120);not null;comment:邮箱"`

	// Password bcrypt 哈希
	Password string `gorm:"column:password;type:varchar(100);not null;comment:密码"`

	Year              string `gorm:"column:year;type:varchar(8);comment:毕业年份"`
	Concentration     string `gorm:"column:concentration;type:varchar(80);comment:专业"`
	Dorm              string `gorm:"column:dorm;type:varchar(80);comment:宿舍"`
	InstagramHandle   string `gorm:"column:instagram_handle;type:varchar(60);comment:Instagram"`
	ProfilePictureUrl string `gorm:"column:profile_picture_url;type:varchar(255);comment:头像"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`

	// RawPassword 明文密码，不入库，在 BeforeSave 中加密
	RawPassword string `gorm:"-" json:"-"`
}

func (UserInfo) TableName() string {
	return "user_info"
}

// BeforeSave 设置了 RawPassword 时加密写入 Password
func (u *UserInfo) BeforeSave(tx *gorm.DB) (err error) {
	if u.RawPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.RawPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.Password = string(hash)
		u.RawPassword = ""
	}
	return nil
}

// CheckPassword 校验明文密码
func (u *UserInfo) CheckPassword(plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plaintext)) == nil
}
