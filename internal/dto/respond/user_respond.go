package respond

import "time"

// UserProfileRespond 用户资料（不含邮箱以外的敏感信息）
type UserProfileRespond struct {
	Id                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Year              string    `json:"year"`
	Concentration     string    `json:"concentration"`
	Dorm              string    `json:"dorm"`
	Interests         []string  `json:"interests"`
	InstagramHandle   string    `json:"instagramHandle"`
	ProfilePictureUrl string    `json:"profilePictureUrl"`
	CreatedAt         time.Time `json:"createdAt"`
}

// LoginRespond 注册/登录成功
type LoginRespond struct {
	User         UserProfileRespond `json:"user"`
	AccessToken  string             `json:"accessToken"`
	RefreshToken string             `json:"refreshToken"`
}

// RefreshTokenRespond 刷新 Access Token
type RefreshTokenRespond struct {
	AccessToken string `json:"accessToken"`
}
