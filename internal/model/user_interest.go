package model

// UserInterest 用户兴趣标签，一行一个，按 position 保序
type UserInterest struct {
	ID       uint   `gorm:"primaryKey"`
	UserId   string `gorm:"column:user_id;type:char(36);not null;uniqueIndex:uk_user_interest_pos,priority:1"`
	Position int    `gorm:"column:position;not null;uniqueIndex:uk_user_interest_pos,priority:2"`
	Interest string `gorm:"column:interest;type:varchar(40);not null"`
}

func (UserInterest) TableName() string {
	return "user_interest"
}
