package activity

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"huddle_server/internal/dao/db/dbtest"
	"huddle_server/internal/dao/db/repository"
	"huddle_server/internal/dto/request"
	"huddle_server/internal/infrastructure/mq"
	"huddle_server/internal/model"
	"huddle_server/pkg/errorx"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []mq.ActivityEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event mq.ActivityEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

var now = time.Date(2030, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*activityService, *repository.Repositories, *recordingPublisher) {
	t.Helper()
	repos := dbtest.Repos(t)
	pub := &recordingPublisher{}
	svc := NewActivityService(repos, pub)
	svc.now = func() time.Time { return now }
	for _, u := range []struct{ id, name string }{{"org", "Olivia"}, {"u1", "Ben"}, {"u2", "Chloe"}, {"u3", "Dev"}} {
		require.NoError(t, repos.User.Create(&model.UserInfo{
			Uuid: u.id, Name: u.name, Email: u.id + "@harvard.edu", RawPassword: "password123",
		}))
	}
	return svc, repos, pub
}

func createReq(capacity int) request.CreateActivityRequest {
	return request.CreateActivityRequest{
		Title:       "  CS50 pset night ",
		Category:    "study",
		Description: "bring snacks",
		Location:    "Lamont Library",
		ScheduledAt: now.Add(24 * time.Hour),
		Capacity:    capacity,
	}
}

func mustCreate(t *testing.T, svc *activityService, capacity int) string {
	t.Helper()
	a, err := svc.CreateActivity(context.Background(), "org", createReq(capacity))
	require.NoError(t, err)
	return a.Id
}

func code(err error) int { return errorx.GetCode(err) }

func TestCreateActivity(t *testing.T) {
	svc, repos, pub := newTestService(t)
	ctx := context.Background()

	a, err := svc.CreateActivity(ctx, "org", createReq(4))
	require.NoError(t, err)
	assert.Equal(t, "CS50 pset night", a.Title)
	assert.EqualValues(t, 1, a.ParticipantCount)
	assert.Equal(t, "Olivia", a.Organizer.Name)
	assert.False(t, a.IsCancelled)

	joined, err := repos.Participant.Exists(a.Id, "org")
	require.NoError(t, err)
	assert.True(t, joined)
	assert.Equal(t, []string{mq.EventActivityCreated}, pub.types())
}

func TestCreateActivityValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	cases := map[string]func(r *request.CreateActivityRequest){
		"blank title":    func(r *request.CreateActivityRequest) { r.Title = "   " },
		"blank location": func(r *request.CreateActivityRequest) { r.Location = "" },
		"bad category":   func(r *request.CreateActivityRequest) { r.Category = "Study" },
		"capacity low":   func(r *request.CreateActivityRequest) { r.Capacity = 1 },
		"capacity high":  func(r *request.CreateActivityRequest) { r.Capacity = 51 },
		"in the past":    func(r *request.CreateActivityRequest) { r.ScheduledAt = now.Add(-time.Minute) },
		"right now":      func(r *request.CreateActivityRequest) { r.ScheduledAt = now },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := createReq(4)
			mutate(&req)
			_, err := svc.CreateActivity(ctx, "org", req)
			assert.Equal(t, errorx.CodeInvalidParam, code(err))
		})
	}

	list, err := svc.ListActivities(ctx, request.ListActivitiesRequest{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

// newMySQLService 基于 sqlmock 的 MySQL 方言服务，用于断言实际发出的 SQL
func newMySQLService(t *testing.T) (*activityService, sqlmock.Sqlmock, *recordingPublisher) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(gormmysql.New(gormmysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}),
		&gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	pub := &recordingPublisher{}
	svc := NewActivityService(repository.NewRepositories(gdb), pub)
	svc.now = func() time.Time { return now }
	return svc, mock, pub
}

func TestCreateActivityRollsBackOnFailure(t *testing.T) {
	svc, mock, pub := newMySQLService(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `activity`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `activity_participant`").WillReturnError(errors.New("lost connection"))
	mock.ExpectRollback()

	_, err := svc.CreateActivity(context.Background(), "org", createReq(4))
	assert.Equal(t, errorx.CodeDBError, code(err))
	assert.Empty(t, pub.types())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJoinActivity(t *testing.T) {
	svc, _, pub := newTestService(t)
	ctx := context.Background()
	id := mustCreate(t, svc, 3)

	require.NoError(t, svc.JoinActivity(ctx, "u1", id))
	assert.Equal(t, errorx.CodeConflict, code(svc.JoinActivity(ctx, "u1", id)))
	assert.Equal(t, errorx.CodeConflict, code(svc.JoinActivity(ctx, "org", id)))

	require.NoError(t, svc.JoinActivity(ctx, "u2", id))
	assert.Equal(t, errorx.CodeCapacityExceeded, code(svc.JoinActivity(ctx, "u3", id)))
	assert.Equal(t, errorx.CodeNotFound, code(svc.JoinActivity(ctx, "u3", "missing")))

	a, err := svc.GetActivity(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 3, a.ParticipantCount)
	require.Len(t, a.Participants, 3)
	assert.Equal(t, "org", a.Participants[0].UserId)

	assert.Equal(t, []string{mq.EventActivityCreated, mq.EventMemberJoined, mq.EventMemberJoined}, pub.types())
}

func TestMinimumCapacityActivity(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	id := mustCreate(t, svc, 2)

	require.NoError(t, svc.JoinActivity(ctx, "u1", id))
	assert.Equal(t, errorx.CodeCapacityExceeded, code(svc.JoinActivity(ctx, "u2", id)))

	require.NoError(t, svc.LeaveActivity(ctx, "u1", id))
	require.NoError(t, svc.JoinActivity(ctx, "u2", id))
}

func TestConcurrentJoinsForLastSlot(t *testing.T) {
	svc, repos, _ := newTestService(t)
	ctx := context.Background()
	id := mustCreate(t, svc, 2)

	users := []string{"u1", "u2", "u3"}
	errs := make([]error, len(users))
	var wg sync.WaitGroup
	for i, u := range users {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			errs[i] = svc.JoinActivity(ctx, u, id)
		}(i, u)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.Equal(t, errorx.CodeCapacityExceeded, code(err))
	}
	assert.Equal(t, 1, succeeded)

	n, err := repos.Participant.CountByActivity(id)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestConcurrentDuplicateJoin(t *testing.T) {
	svc, repos, _ := newTestService(t)
	ctx := context.Background()
	id := mustCreate(t, svc, 10)

	errs := make([]error, 5)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = svc.JoinActivity(ctx, "u1", id)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.Equal(t, errorx.CodeConflict, code(err))
	}
	assert.Equal(t, 1, succeeded)

	n, err := repos.Participant.CountByActivity(id)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

// expectLockedJoinChecks 加入流程在插入成员之前的 SQL：行锁读取活动，再查重和计数
func expectLockedJoinChecks(mock sqlmock.Sqlmock, activityId string, capacity, count int) {
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `activity` WHERE uuid = \\? .*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "uuid", "title", "category", "location", "scheduled_at", "capacity", "organizer_id", "is_cancelled"}).
			AddRow(1, activityId, "Board games", "social", "Library", now.Add(48*time.Hour), capacity, "org", false))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `activity_participant` WHERE activity_id = \\? AND user_id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `activity_participant` WHERE activity_id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(count))
}

func TestJoinActivityLocksActivityRow(t *testing.T) {
	svc, mock, pub := newMySQLService(t)
	id := "7b6f4c1e-0d6a-4d39-9a53-5f2a0c9e1a11"

	expectLockedJoinChecks(mock, id, 3, 1)
	mock.ExpectExec("INSERT INTO `activity_participant`").WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	require.NoError(t, svc.JoinActivity(context.Background(), "u1", id))
	assert.Equal(t, []string{mq.EventMemberJoined}, pub.types())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJoinActivityDuplicateKeyRollsBack(t *testing.T) {
	svc, mock, pub := newMySQLService(t)
	id := "7b6f4c1e-0d6a-4d39-9a53-5f2a0c9e1a11"

	expectLockedJoinChecks(mock, id, 3, 1)
	mock.ExpectExec("INSERT INTO `activity_participant`").
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry for key 'uk_activity_user'"})
	mock.ExpectRollback()

	err := svc.JoinActivity(context.Background(), "u1", id)
	assert.Equal(t, errorx.CodeConflict, code(err))
	assert.Empty(t, pub.types())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJoinActivityFullUnderLockRollsBack(t *testing.T) {
	svc, mock, _ := newMySQLService(t)
	id := "7b6f4c1e-0d6a-4d39-9a53-5f2a0c9e1a11"

	expectLockedJoinChecks(mock, id, 3, 3)
	mock.ExpectRollback()

	assert.Equal(t, errorx.CodeCapacityExceeded, code(svc.JoinActivity(context.Background(), "u1", id)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveActivity(t *testing.T) {
	svc, _, pub := newTestService(t)
	ctx := context.Background()
	id := mustCreate(t, svc, 4)
	require.NoError(t, svc.JoinActivity(ctx, "u1", id))

	assert.Equal(t, errorx.CodeForbidden, code(svc.LeaveActivity(ctx, "org", id)))
	assert.Equal(t, errorx.CodeNotFound, code(svc.LeaveActivity(ctx, "u1", "missing")))

	require.NoError(t, svc.LeaveActivity(ctx, "u1", id))
	// 重复退出、从未加入都视为成功，且不再发事件
	require.NoError(t, svc.LeaveActivity(ctx, "u1", id))
	require.NoError(t, svc.LeaveActivity(ctx, "u2", id))

	assert.Equal(t, []string{mq.EventActivityCreated, mq.EventMemberJoined, mq.EventMemberLeft}, pub.types())

	a, err := svc.GetActivity(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, a.ParticipantCount)
}

func TestUpdateActivity(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	id := mustCreate(t, svc, 4)
	require.NoError(t, svc.JoinActivity(ctx, "u1", id))
	require.NoError(t, svc.JoinActivity(ctx, "u2", id))

	title := "Problem set party"
	a, err := svc.UpdateActivity(ctx, "org", id, request.UpdateActivityRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, a.Title)
	assert.Equal(t, "Lamont Library", a.Location)

	// 上限低于当前人数：现有成员保留，新成员无法加入
	two := 2
	a, err = svc.UpdateActivity(ctx, "org", id, request.UpdateActivityRequest{Capacity: &two})
	require.NoError(t, err)
	assert.Equal(t, 2, a.Capacity)
	assert.EqualValues(t, 3, a.ParticipantCount)
	assert.Equal(t, errorx.CodeCapacityExceeded, code(svc.JoinActivity(ctx, "u3", id)))

	// 修改时间不要求晚于当前
	past := now.Add(-time.Hour)
	a, err = svc.UpdateActivity(ctx, "org", id, request.UpdateActivityRequest{ScheduledAt: &past})
	require.NoError(t, err)
	assert.True(t, a.ScheduledAt.Equal(past))
}

func TestUpdateActivityRejections(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	id := mustCreate(t, svc, 4)

	title := "mine now"
	_, err := svc.UpdateActivity(ctx, "u1", id, request.UpdateActivityRequest{Title: &title})
	assert.Equal(t, errorx.CodeForbidden, code(err))

	_, err = svc.UpdateActivity(ctx, "org", "missing", request.UpdateActivityRequest{Title: &title})
	assert.Equal(t, errorx.CodeNotFound, code(err))

	_, err = svc.UpdateActivity(ctx, "org", id, request.UpdateActivityRequest{})
	assert.Equal(t, errorx.CodeInvalidParam, code(err))

	blank, bad, tooMany := " ", "party", 60
	for _, req := range []request.UpdateActivityRequest{
		{Title: &blank}, {Location: &blank}, {Category: &bad}, {Capacity: &tooMany},
	} {
		_, err = svc.UpdateActivity(ctx, "org", id, req)
		assert.Equal(t, errorx.CodeInvalidParam, code(err))
	}
}

func TestCancellationIsFinal(t *testing.T) {
	svc, _, pub := newTestService(t)
	ctx := context.Background()
	id := mustCreate(t, svc, 4)
	require.NoError(t, svc.JoinActivity(ctx, "u1", id))

	yes, no := true, false
	a, err := svc.UpdateActivity(ctx, "org", id, request.UpdateActivityRequest{IsCancelled: &yes})
	require.NoError(t, err)
	assert.True(t, a.IsCancelled)

	_, err = svc.UpdateActivity(ctx, "org", id, request.UpdateActivityRequest{IsCancelled: &no})
	assert.Equal(t, errorx.CodeInvalidParam, code(err))

	// 重复取消不再发事件
	_, err = svc.UpdateActivity(ctx, "org", id, request.UpdateActivityRequest{IsCancelled: &yes})
	require.NoError(t, err)

	assert.Equal(t, errorx.CodeNotFound, code(svc.JoinActivity(ctx, "u2", id)))
	_, err = svc.PostMessage(ctx, "u1", id, request.PostMessageRequest{Content: "still on?"})
	assert.Equal(t, errorx.CodeNotFound, code(err))

	list, err := svc.ListActivities(ctx, request.ListActivitiesRequest{})
	require.NoError(t, err)
	assert.Empty(t, list)

	// 详情和我的活动仍然可见
	detail, err := svc.GetActivity(ctx, id)
	require.NoError(t, err)
	assert.True(t, detail.IsCancelled)
	mine, err := svc.ListMyActivities(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)

	require.NoError(t, svc.LeaveActivity(ctx, "u1", id))

	cancelled := 0
	for _, typ := range pub.types() {
		if typ == mq.EventActivityCancelled {
			cancelled++
		}
	}
	assert.Equal(t, 1, cancelled)
}

func TestListActivitiesFilters(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	later := createReq(4)
	later.Title = "Dinner at Annenberg"
	later.Category = "meal"
	later.ScheduledAt = now.Add(48 * time.Hour)
	_, err := svc.CreateActivity(ctx, "org", later)
	require.NoError(t, err)
	first := mustCreate(t, svc, 4)

	all, err := svc.ListActivities(ctx, request.ListActivitiesRequest{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first, all[0].Id)

	meals, err := svc.ListActivities(ctx, request.ListActivitiesRequest{Category: "meal"})
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, "Dinner at Annenberg", meals[0].Title)

	byText, err := svc.ListActivities(ctx, request.ListActivitiesRequest{Search: "  SNACKS "})
	require.NoError(t, err)
	assert.Len(t, byText, 2)

	_, err = svc.ListActivities(ctx, request.ListActivitiesRequest{Category: "nap"})
	assert.Equal(t, errorx.CodeInvalidParam, code(err))
}

func TestPostMessageGating(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	id := mustCreate(t, svc, 4)

	_, err := svc.PostMessage(ctx, "u1", id, request.PostMessageRequest{Content: "hi"})
	assert.Equal(t, errorx.CodeForbidden, code(err))

	_, err = svc.PostMessage(ctx, "org", id, request.PostMessageRequest{Content: " \n\t "})
	assert.Equal(t, errorx.CodeInvalidParam, code(err))

	_, err = svc.PostMessage(ctx, "org", "missing", request.PostMessageRequest{Content: "hi"})
	assert.Equal(t, errorx.CodeNotFound, code(err))

	msg, err := svc.PostMessage(ctx, "org", id, request.PostMessageRequest{Content: "  see you there  "})
	require.NoError(t, err)
	assert.Equal(t, "see you there", msg.Content)
	assert.Equal(t, "Olivia", msg.SenderName)
	assert.NotEmpty(t, msg.Id)
}

func TestMessageTimestampsNeverGoBackwards(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	id := mustCreate(t, svc, 4)

	first, err := svc.PostMessage(ctx, "org", id, request.PostMessageRequest{Content: "one"})
	require.NoError(t, err)

	// 时钟回拨
	svc.now = func() time.Time { return now.Add(-time.Minute) }
	second, err := svc.PostMessage(ctx, "org", id, request.PostMessageRequest{Content: "two"})
	require.NoError(t, err)
	assert.False(t, second.CreatedAt.Before(first.CreatedAt))

	detail, err := svc.GetActivity(ctx, id)
	require.NoError(t, err)
	require.Len(t, detail.Messages, 2)
	assert.Equal(t, "one", detail.Messages[0].Content)
	assert.Equal(t, "two", detail.Messages[1].Content)
}

func TestListMessages(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	id := mustCreate(t, svc, 4)
	require.NoError(t, svc.JoinActivity(ctx, "u1", id))

	first, err := svc.PostMessage(ctx, "org", id, request.PostMessageRequest{Content: "one"})
	require.NoError(t, err)
	_, err = svc.PostMessage(ctx, "u1", id, request.PostMessageRequest{Content: "two"})
	require.NoError(t, err)

	all, err := svc.ListMessages(ctx, "u1", id, request.ListMessagesRequest{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	after, err := svc.ListMessages(ctx, "u1", id, request.ListMessagesRequest{After: first.Id})
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "Ben", after[0].SenderName)

	_, err = svc.ListMessages(ctx, "u2", id, request.ListMessagesRequest{})
	assert.Equal(t, errorx.CodeForbidden, code(err))

	_, err = svc.ListMessages(ctx, "u1", id, request.ListMessagesRequest{After: "12345"})
	assert.Equal(t, errorx.CodeInvalidParam, code(err))

	_, err = svc.ListMessages(ctx, "u1", "missing", request.ListMessagesRequest{})
	assert.Equal(t, errorx.CodeNotFound, code(err))
}

func TestGetActivityMissing(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.GetActivity(context.Background(), "missing")
	assert.Equal(t, errorx.CodeNotFound, code(err))
}
