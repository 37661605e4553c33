package constants

const (
	MIN_ACTIVITY_CAPACITY      = 2  // 活动最小人数（含发起人）
	MAX_ACTIVITY_CAPACITY      = 50 // 活动最大人数
	MAX_MESSAGE_LENGTH         = 2000
	REFRESH_TOKEN_EXPIRY_HOURS = 168 // Refresh Token 有效期（小时），168小时 = 7天
	CACHE_TASK_TIMEOUT_SECONDS = 3   // 异步缓存任务超时
)

// Redis key 前缀
const (
	USER_TOKEN_KEY_PREFIX   = "user_token:"
	USER_PROFILE_KEY_PREFIX = "user_profile_"
)

// CTX_USER_ID JWT 中间件写入 gin.Context 的用户 ID 键
const CTX_USER_ID = "user_id"
