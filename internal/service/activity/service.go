// Package activity 活动生命周期与成员关系
// 同一活动上的加入、退出、修改、发消息都在持有该活动行锁的事务中完成，
// 人数上限和成员唯一性因此在并发下也成立；唯一索引作为提交时的兜底
package activity

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"huddle_server/internal/dao/db/repository"
	"huddle_server/internal/dto/request"
	"huddle_server/internal/dto/respond"
	"huddle_server/internal/infrastructure/metrics"
	"huddle_server/internal/infrastructure/mq"
	"huddle_server/internal/model"
	"huddle_server/pkg/constants"
	"huddle_server/pkg/errorx"
	"huddle_server/pkg/util/idgen"

	"go.uber.org/zap"
)

type activityService struct {
	repos     *repository.Repositories
	publisher mq.Publisher
	now       func() time.Time
}

// NewActivityService 构造函数，注入 Repository 与事件发布器
func NewActivityService(repos *repository.Repositories, publisher mq.Publisher) *activityService {
	return &activityService{
		repos:     repos,
		publisher: publisher,
		now:       time.Now,
	}
}

// CreateActivity 活动与发起人的成员关系在同一事务中写入
func (s *activityService) CreateActivity(ctx context.Context, organizerId string, req request.CreateActivityRequest) (*respond.ActivityRespond, error) {
	now := s.now().UTC()
	activity, err := newActivity(organizerId, req, now)
	if err != nil {
		return nil, err
	}

	repos := s.repos.WithContext(ctx)
	err = repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.Activity.Create(activity); err != nil {
			return err
		}
		return tx.Participant.Create(&model.Participant{
			ActivityId: activity.Uuid,
			UserId:     organizerId,
			JoinedAt:   now,
		})
	})
	if err != nil {
		return nil, finish("create activity", err)
	}

	metrics.ActivitiesCreated.Inc()
	s.publish(ctx, mq.EventActivityCreated, activity.Uuid, organizerId, "")

	view, err := repos.Activity.FindWithStats(activity.Uuid)
	if err != nil {
		// 已提交成功，读回失败时用内存中的数据拼视图
		zap.L().Warn("reload created activity failed", zap.String("activity_id", activity.Uuid), zap.Error(err))
		rsp := toActivityRespond(repository.ActivityWithStats{
			Uuid: activity.Uuid, Title: activity.Title, Category: string(activity.Category),
			Description: activity.Description, Location: activity.Location, ScheduledAt: activity.ScheduledAt,
			Capacity: activity.Capacity, OrganizerId: organizerId, CreatedAt: activity.CreatedAt, ParticipantCount: 1,
		})
		return &rsp, nil
	}
	rsp := toActivityRespond(*view)
	return &rsp, nil
}

// ListActivities 未取消的活动，每次调用都重新统计人数
func (s *activityService) ListActivities(ctx context.Context, req request.ListActivitiesRequest) ([]respond.ActivityRespond, error) {
	filter := repository.ActivityFilter{
		Search:   strings.TrimSpace(req.Search),
		Category: strings.TrimSpace(req.Category),
	}
	if filter.Category != "" && !model.ActivityCategory(filter.Category).IsValid() {
		return nil, invalid("unknown category %q", filter.Category)
	}
	rows, err := s.repos.WithContext(ctx).Activity.ListOpen(filter)
	if err != nil {
		return nil, finish("list activities", err)
	}
	return toActivityRespondList(rows), nil
}

// ListMyActivities 我发起或加入的活动，包括已取消的
func (s *activityService) ListMyActivities(ctx context.Context, userId string) ([]respond.ActivityRespond, error) {
	rows, err := s.repos.WithContext(ctx).Activity.ListByParticipant(userId)
	if err != nil {
		return nil, finish("list my activities", err)
	}
	return toActivityRespondList(rows), nil
}

// GetActivity 详情。三次读取放在同一事务里，得到一致的快照
func (s *activityService) GetActivity(ctx context.Context, activityId string) (*respond.ActivityDetailRespond, error) {
	var detail respond.ActivityDetailRespond
	err := s.repos.WithContext(ctx).Transaction(func(tx *repository.Repositories) error {
		view, err := tx.Activity.FindWithStats(activityId)
		if errorx.IsNotFound(err) {
			return errActivityNotFound
		}
		if err != nil {
			return err
		}
		participants, err := tx.Participant.ListWithUser(activityId)
		if err != nil {
			return err
		}
		messages, err := tx.Message.ListWithSender(activityId, 0)
		if err != nil {
			return err
		}
		detail = respond.ActivityDetailRespond{
			ActivityRespond: toActivityRespond(*view),
			Participants:    toParticipantRespondList(participants),
			Messages:        toMessageRespondList(messages),
		}
		return nil
	})
	if err != nil {
		return nil, finish("get activity", err)
	}
	return &detail, nil
}

// UpdateActivity 仅发起人可修改；只应用请求中出现的字段
// 人数上限可以改到低于当前人数，已加入的成员不受影响，只是不能再有人加入
func (s *activityService) UpdateActivity(ctx context.Context, actorId, activityId string, req request.UpdateActivityRequest) (*respond.ActivityRespond, error) {
	repos := s.repos.WithContext(ctx)
	cancelled := false
	err := repos.Transaction(func(tx *repository.Repositories) error {
		activity, err := lockActivity(tx, activityId)
		if err != nil {
			return err
		}
		if activity.OrganizerId != actorId {
			return errNotOrganizer
		}
		fields, err := buildPatch(activity, req)
		if err != nil {
			return err
		}
		if v, ok := fields["is_cancelled"]; ok && v == true {
			cancelled = true
		}
		return tx.Activity.UpdateFields(activityId, fields)
	})
	if err != nil {
		return nil, finish("update activity", err)
	}

	if cancelled {
		metrics.ActivitiesCancelled.Inc()
		s.publish(ctx, mq.EventActivityCancelled, activityId, actorId, "")
	}

	view, err := repos.Activity.FindWithStats(activityId)
	if err != nil {
		return nil, finish("reload activity", err)
	}
	rsp := toActivityRespond(*view)
	return &rsp, nil
}

// JoinActivity 加锁后依次检查：存在且未取消、未加入、未满员，然后写入
func (s *activityService) JoinActivity(ctx context.Context, userId, activityId string) error {
	err := s.repos.WithContext(ctx).Transaction(func(tx *repository.Repositories) error {
		activity, err := lockOpenActivity(tx, activityId)
		if err != nil {
			return err
		}
		joined, err := tx.Participant.Exists(activityId, userId)
		if err != nil {
			return err
		}
		if joined {
			return errAlreadyJoined
		}
		count, err := tx.Participant.CountByActivity(activityId)
		if err != nil {
			return err
		}
		if count >= int64(activity.Capacity) {
			return errActivityFull
		}
		err = tx.Participant.Create(&model.Participant{
			ActivityId: activityId,
			UserId:     userId,
			JoinedAt:   s.now().UTC(),
		})
		if repository.IsDuplicateKeyErr(err) {
			return errAlreadyJoined
		}
		return err
	})
	metrics.JoinAttempts.WithLabelValues(joinOutcome(err)).Inc()
	if err != nil {
		return finish("join activity", err)
	}
	s.publish(ctx, mq.EventMemberJoined, activityId, userId, "")
	return nil
}

// LeaveActivity 发起人不能退出；不在活动中也视为成功
func (s *activityService) LeaveActivity(ctx context.Context, userId, activityId string) error {
	var removed int64
	err := s.repos.WithContext(ctx).Transaction(func(tx *repository.Repositories) error {
		activity, err := lockActivity(tx, activityId)
		if err != nil {
			return err
		}
		if activity.OrganizerId == userId {
			return errOrganizerCannotLeave
		}
		removed, err = tx.Participant.Delete(activityId, userId)
		return err
	})
	if err != nil {
		return finish("leave activity", err)
	}
	if removed > 0 {
		metrics.Leaves.Inc()
		s.publish(ctx, mq.EventMemberLeft, activityId, userId, "")
	}
	return nil
}

// PostMessage 只有成员能在未取消的活动里发消息
// created_at 在行锁内取 max(当前时间, 上一条消息时间)，保证同一活动内单调不减
func (s *activityService) PostMessage(ctx context.Context, userId, activityId string, req request.PostMessageRequest) (*respond.MessageRespond, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, errEmptyMessage
	}
	if utf8.RuneCountInString(content) > constants.MAX_MESSAGE_LENGTH {
		return nil, invalid("message must be at most %d characters", constants.MAX_MESSAGE_LENGTH)
	}

	repos := s.repos.WithContext(ctx)
	msg := model.Message{
		Uuid:       idgen.NewMessageID(),
		ActivityId: activityId,
		SenderId:   userId,
		Content:    content,
	}
	err := repos.Transaction(func(tx *repository.Repositories) error {
		if _, err := lockOpenActivity(tx, activityId); err != nil {
			return err
		}
		member, err := tx.Participant.Exists(activityId, userId)
		if err != nil {
			return err
		}
		if !member {
			return errNotParticipant
		}
		last, ok, err := tx.Message.LastCreatedAt(activityId)
		if err != nil {
			return err
		}
		msg.CreatedAt = s.now().UTC().Truncate(time.Millisecond)
		if ok && msg.CreatedAt.Before(last) {
			msg.CreatedAt = last.UTC()
		}
		return tx.Message.Create(&msg)
	})
	if err != nil {
		return nil, finish("post message", err)
	}

	metrics.MessagesPosted.Inc()
	s.publish(ctx, mq.EventMessagePosted, activityId, userId, msg.Uuid)

	rsp := respond.MessageRespond{
		Id:         msg.Uuid,
		ActivityId: activityId,
		SenderId:   userId,
		Content:    msg.Content,
		CreatedAt:  msg.CreatedAt,
	}
	if sender, err := repos.User.FindByUuid(userId); err == nil {
		rsp.SenderName = sender.Name
	}
	return &rsp, nil
}

// ListMessages 轮询拉取消息，仅成员可读
func (s *activityService) ListMessages(ctx context.Context, userId, activityId string, req request.ListMessagesRequest) ([]respond.MessageRespond, error) {
	repos := s.repos.WithContext(ctx)
	if _, err := repos.Activity.FindByUuid(activityId); err != nil {
		if errorx.IsNotFound(err) {
			return nil, errActivityNotFound
		}
		return nil, finish("list messages", err)
	}
	member, err := repos.Participant.Exists(activityId, userId)
	if err != nil {
		return nil, finish("list messages", err)
	}
	if !member {
		return nil, errNotParticipant
	}

	var afterID uint
	if after := strings.TrimSpace(req.After); after != "" {
		cursor, err := repos.Message.FindByUuid(after)
		if errorx.IsNotFound(err) || (err == nil && cursor.ActivityId != activityId) {
			return nil, errUnknownCursor
		}
		if err != nil {
			return nil, finish("list messages", err)
		}
		afterID = cursor.ID
	}

	rows, err := repos.Message.ListWithSender(activityId, afterID)
	if err != nil {
		return nil, finish("list messages", err)
	}
	return toMessageRespondList(rows), nil
}

// lockActivity 加行锁读取活动，不存在返回 NotFound
func lockActivity(tx *repository.Repositories, activityId string) (*model.Activity, error) {
	activity, err := tx.Activity.FindByUuidForUpdate(activityId)
	if errorx.IsNotFound(err) {
		return nil, errActivityNotFound
	}
	return activity, err
}

// lockOpenActivity 已取消的活动对加入和发消息而言等同于不存在
func lockOpenActivity(tx *repository.Repositories, activityId string) (*model.Activity, error) {
	activity, err := lockActivity(tx, activityId)
	if err != nil {
		return nil, err
	}
	if activity.IsCancelled {
		return nil, errActivityNotFound
	}
	return activity, nil
}

func (s *activityService) publish(ctx context.Context, eventType, activityId, userId, messageId string) {
	event := mq.ActivityEvent{
		Type:       eventType,
		ActivityId: activityId,
		UserId:     userId,
		MessageId:  messageId,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		zap.L().Warn("publish activity event failed", zap.String("type", eventType),
			zap.String("activity_id", activityId), zap.Error(err))
	}
}

func joinOutcome(err error) string {
	if err == nil {
		return metrics.JoinJoined
	}
	switch err {
	case errAlreadyJoined:
		return metrics.JoinConflict
	case errActivityFull:
		return metrics.JoinCapacityExceeded
	case errActivityNotFound:
		return metrics.JoinNotFound
	default:
		return metrics.JoinError
	}
}
