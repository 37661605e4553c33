package respond

import "time"

// OrganizerRespond 发起人展示信息
type OrganizerRespond struct {
	Id                string `json:"id"`
	Name              string `json:"name"`
	ProfilePictureUrl string `json:"profilePictureUrl"`
}

// ActivityRespond 活动视图，participantCount 为实时人数
type ActivityRespond struct {
	Id               string           `json:"id"`
	Title            string           `json:"title"`
	Category         string           `json:"category"`
	Description      string           `json:"description"`
	Location         string           `json:"location"`
	ScheduledAt      time.Time        `json:"scheduledAt"`
	Capacity         int              `json:"capacity"`
	ParticipantCount int64            `json:"participantCount"`
	Organizer        OrganizerRespond `json:"organizer"`
	IsCancelled      bool             `json:"isCancelled"`
	CreatedAt        time.Time        `json:"createdAt"`
}

// ParticipantRespond 成员，按加入时间排序
type ParticipantRespond struct {
	UserId            string    `json:"userId"`
	Name              string    `json:"name"`
	ProfilePictureUrl string    `json:"profilePictureUrl"`
	JoinedAt          time.Time `json:"joinedAt"`
}

// MessageRespond 聊天消息
type MessageRespond struct {
	Id         string    `json:"id"`
	ActivityId string    `json:"activityId"`
	SenderId   string    `json:"senderId"`
	SenderName string    `json:"senderName"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ActivityDetailRespond 活动详情
type ActivityDetailRespond struct {
	ActivityRespond
	Participants []ParticipantRespond `json:"participants"`
	Messages     []MessageRespond     `json:"messages"`
}
