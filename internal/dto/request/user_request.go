package request

// RegisterRequest 注册
type RegisterRequest struct {
	Name            string   `json:"name" binding:"required,max=60"`
	Email           string   `json:"email" binding:"required,email,max=120"`
	Password        string   `json:"password" binding:"required,max=72"`
	Year            string   `json:"year" binding:"max=8"`
	Concentration   string   `json:"concentration" binding:"max=80"`
	Dorm            string   `json:"dorm" binding:"max=80"`
	Interests       []string `json:"interests" binding:"max=20,dive,max=40"`
	InstagramHandle string   `json:"instagramHandle" binding:"max=60"`
}

// LoginRequest 邮箱密码登录
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest 个人资料部分更新，nil 字段保持不变
// Interests 非 nil 时整体替换（空数组表示清空）
type UpdateProfileRequest struct {
	Name              *string   `json:"name" binding:"omitempty,max=60"`
	Year              *string   `json:"year" binding:"omitempty,max=8"`
	Concentration     *string   `json:"concentration" binding:"omitempty,max=80"`
	Dorm              *string   `json:"dorm" binding:"omitempty,max=80"`
	Interests         *[]string `json:"interests" binding:"omitempty,max=20,dive,max=40"`
	InstagramHandle   *string   `json:"instagramHandle" binding:"omitempty,max=60"`
	ProfilePictureUrl *string   `json:"profilePictureUrl" binding:"omitempty,max=255"`
}

func (r UpdateProfileRequest) IsEmpty() bool {
	return r.Name == nil && r.Year == nil && r.Concentration == nil && r.Dorm == nil &&
		r.Interests == nil && r.InstagramHandle == nil && r.ProfilePictureUrl == nil
}

// RefreshTokenRequest 使用 Refresh Token 换取新的 Access Token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}
