package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"huddle_server/internal/dto/request"
	dtorespond "huddle_server/internal/dto/respond"
	"huddle_server/pkg/constants"
	"huddle_server/pkg/errorx"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockActivityService struct {
	mock.Mock
}

func (m *mockActivityService) CreateActivity(ctx context.Context, organizerId string, req request.CreateActivityRequest) (*dtorespond.ActivityRespond, error) {
	args := m.Called(ctx, organizerId, req)
	rsp, _ := args.Get(0).(*dtorespond.ActivityRespond)
	return rsp, args.Error(1)
}

func (m *mockActivityService) ListActivities(ctx context.Context, req request.ListActivitiesRequest) ([]dtorespond.ActivityRespond, error) {
	args := m.Called(ctx, req)
	rsp, _ := args.Get(0).([]dtorespond.ActivityRespond)
	return rsp, args.Error(1)
}

func (m *mockActivityService) ListMyActivities(ctx context.Context, userId string) ([]dtorespond.ActivityRespond, error) {
	args := m.Called(ctx, userId)
	rsp, _ := args.Get(0).([]dtorespond.ActivityRespond)
	return rsp, args.Error(1)
}

func (m *mockActivityService) GetActivity(ctx context.Context, activityId string) (*dtorespond.ActivityDetailRespond, error) {
	args := m.Called(ctx, activityId)
	rsp, _ := args.Get(0).(*dtorespond.ActivityDetailRespond)
	return rsp, args.Error(1)
}

func (m *mockActivityService) UpdateActivity(ctx context.Context, actorId, activityId string, req request.UpdateActivityRequest) (*dtorespond.ActivityRespond, error) {
	args := m.Called(ctx, actorId, activityId, req)
	rsp, _ := args.Get(0).(*dtorespond.ActivityRespond)
	return rsp, args.Error(1)
}

func (m *mockActivityService) JoinActivity(ctx context.Context, userId, activityId string) error {
	return m.Called(ctx, userId, activityId).Error(0)
}

func (m *mockActivityService) LeaveActivity(ctx context.Context, userId, activityId string) error {
	return m.Called(ctx, userId, activityId).Error(0)
}

func (m *mockActivityService) PostMessage(ctx context.Context, userId, activityId string, req request.PostMessageRequest) (*dtorespond.MessageRespond, error) {
	args := m.Called(ctx, userId, activityId, req)
	rsp, _ := args.Get(0).(*dtorespond.MessageRespond)
	return rsp, args.Error(1)
}

func (m *mockActivityService) ListMessages(ctx context.Context, userId, activityId string, req request.ListMessagesRequest) ([]dtorespond.MessageRespond, error) {
	args := m.Called(ctx, userId, activityId, req)
	rsp, _ := args.Get(0).([]dtorespond.MessageRespond)
	return rsp, args.Error(1)
}

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) Register(ctx context.Context, req request.RegisterRequest) (*dtorespond.LoginRespond, error) {
	args := m.Called(ctx, req)
	rsp, _ := args.Get(0).(*dtorespond.LoginRespond)
	return rsp, args.Error(1)
}

func (m *mockUserService) Login(ctx context.Context, req request.LoginRequest) (*dtorespond.LoginRespond, error) {
	args := m.Called(ctx, req)
	rsp, _ := args.Get(0).(*dtorespond.LoginRespond)
	return rsp, args.Error(1)
}

func (m *mockUserService) GetProfile(ctx context.Context, userId string) (*dtorespond.UserProfileRespond, error) {
	args := m.Called(ctx, userId)
	rsp, _ := args.Get(0).(*dtorespond.UserProfileRespond)
	return rsp, args.Error(1)
}

func (m *mockUserService) UpdateProfile(ctx context.Context, userId string, req request.UpdateProfileRequest) (*dtorespond.UserProfileRespond, error) {
	args := m.Called(ctx, userId, req)
	rsp, _ := args.Get(0).(*dtorespond.UserProfileRespond)
	return rsp, args.Error(1)
}

// withUser 代替 JWTAuth，直接注入用户 ID
func withUser(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid != "" {
			c.Set(constants.CTX_USER_ID, uid)
		}
		c.Next()
	}
}

func newActivityRouter(svc *mockActivityService, uid string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewActivityHandler(svc)
	r := gin.New()
	api := r.Group("/api", withUser(uid))
	api.POST("/activities", h.CreateActivity)
	api.GET("/activities", h.ListActivities)
	api.GET("/activities/:id", h.GetActivity)
	api.PATCH("/activities/:id", h.UpdateActivity)
	api.POST("/activities/:id/join", h.JoinActivity)
	api.POST("/activities/:id/leave", h.LeaveActivity)
	api.POST("/activities/:id/messages", h.PostMessage)
	api.GET("/activities/:id/messages", h.ListMessages)
	api.GET("/me/activities", h.ListMyActivities)
	return r
}

func do(r http.Handler, method, path, body string) (*httptest.ResponseRecorder, ResponseData) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var data ResponseData
	_ = json.Unmarshal(w.Body.Bytes(), &data)
	return w, data
}

func TestCreateActivityReturns201(t *testing.T) {
	svc := new(mockActivityService)
	scheduled := time.Date(2030, 5, 2, 18, 0, 0, 0, time.UTC)
	svc.On("CreateActivity", mock.Anything, "u1", mock.MatchedBy(func(req request.CreateActivityRequest) bool {
		return req.Title == "Pset night" && req.Capacity == 4 && req.ScheduledAt.Equal(scheduled)
	})).
		Return(&dtorespond.ActivityRespond{Id: "a1", ParticipantCount: 1}, nil)

	body := `{"title":"Pset night","category":"study","location":"Lamont","scheduledAt":"2030-05-02T18:00:00Z","capacity":4}`
	w, rsp := do(newActivityRouter(svc, "u1"), http.MethodPost, "/api/activities", body)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, errorx.CodeSuccess, rsp.Code)
	assert.Equal(t, "ok", rsp.Kind)
	svc.AssertExpectations(t)
}

func TestCreateActivityBindingFailure(t *testing.T) {
	svc := new(mockActivityService)
	body := `{"title":"Pset night","category":"napping","location":"Lamont","scheduledAt":"2030-05-02T18:00:00Z","capacity":4}`
	w, rsp := do(newActivityRouter(svc, "u1"), http.MethodPost, "/api/activities", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", rsp.Kind)
	svc.AssertNotCalled(t, "CreateActivity", mock.Anything, mock.Anything, mock.Anything)
}

func TestServiceErrorsMapToStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		kind   string
	}{
		{errorx.New(errorx.CodeCapacityExceeded, "full"), http.StatusConflict, "capacity_exceeded"},
		{errorx.New(errorx.CodeConflict, "already joined"), http.StatusConflict, "conflict"},
		{errorx.New(errorx.CodeNotFound, "missing"), http.StatusNotFound, "not_found"},
		{errorx.New(errorx.CodeForbidden, "nope"), http.StatusForbidden, "forbidden"},
		{errorx.ErrPersistence, http.StatusInternalServerError, "persistence_error"},
	}
	for _, tc := range cases {
		svc := new(mockActivityService)
		svc.On("JoinActivity", mock.Anything, "u1", "a1").Return(tc.err)

		w, rsp := do(newActivityRouter(svc, "u1"), http.MethodPost, "/api/activities/a1/join", "")
		assert.Equal(t, tc.status, w.Code)
		assert.Equal(t, tc.kind, rsp.Kind)
	}
}

func TestMissingUserIs401(t *testing.T) {
	svc := new(mockActivityService)
	w, rsp := do(newActivityRouter(svc, ""), http.MethodPost, "/api/activities/a1/leave", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthenticated", rsp.Kind)
	svc.AssertNotCalled(t, "LeaveActivity", mock.Anything, mock.Anything, mock.Anything)
}

func TestListActivitiesBindsQuery(t *testing.T) {
	svc := new(mockActivityService)
	svc.On("ListActivities", mock.Anything, request.ListActivitiesRequest{Search: "pset", Category: "study"}).
		Return([]dtorespond.ActivityRespond{{Id: "a1"}}, nil)

	w, rsp := do(newActivityRouter(svc, "u1"), http.MethodGet, "/api/activities?search=pset&category=study", "")
	require.Equal(t, http.StatusOK, w.Code)
	items, ok := rsp.Data.([]any)
	require.True(t, ok)
	assert.Len(t, items, 1)
	svc.AssertExpectations(t)
}

func TestUpdateActivityPassesOnlyPresentFields(t *testing.T) {
	svc := new(mockActivityService)
	svc.On("UpdateActivity", mock.Anything, "u1", "a1", mock.MatchedBy(func(req request.UpdateActivityRequest) bool {
		return req.IsCancelled != nil && *req.IsCancelled && req.Title == nil && req.Capacity == nil
	})).Return(&dtorespond.ActivityRespond{Id: "a1", IsCancelled: true}, nil)

	w, _ := do(newActivityRouter(svc, "u1"), http.MethodPatch, "/api/activities/a1", `{"isCancelled":true}`)
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestPostAndListMessages(t *testing.T) {
	svc := new(mockActivityService)
	svc.On("PostMessage", mock.Anything, "u1", "a1", request.PostMessageRequest{Content: "hi"}).
		Return(&dtorespond.MessageRespond{Id: "m1", Content: "hi"}, nil)
	svc.On("ListMessages", mock.Anything, "u1", "a1", request.ListMessagesRequest{After: "m0"}).
		Return([]dtorespond.MessageRespond{}, nil)

	r := newActivityRouter(svc, "u1")
	w, _ := do(r, http.MethodPost, "/api/activities/a1/messages", `{"content":"hi"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w, _ = do(r, http.MethodGet, "/api/activities/a1/messages?after=m0", "")
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestUserHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := new(mockUserService)
	h := NewUserHandler(svc)
	r := gin.New()
	r.POST("/api/auth/signup", h.Register)
	r.POST("/api/auth/login", h.Login)
	authed := r.Group("/api", withUser("u1"))
	authed.GET("/me", h.GetMe)
	authed.PATCH("/users/me", h.UpdateMe)

	svc.On("Register", mock.Anything, mock.AnythingOfType("request.RegisterRequest")).
		Return(&dtorespond.LoginRespond{AccessToken: "a", RefreshToken: "r"}, nil)
	svc.On("Login", mock.Anything, request.LoginRequest{Email: "a@harvard.edu", Password: "bad"}).
		Return(nil, errorx.New(errorx.CodeUnauthorized, "incorrect email or password"))
	svc.On("GetProfile", mock.Anything, "u1").Return(&dtorespond.UserProfileRespond{Id: "u1"}, nil)

	w, _ := do(r, http.MethodPost, "/api/auth/signup", `{"name":"Ada","email":"ada@harvard.edu","password":"longenough"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w, rsp := do(r, http.MethodPost, "/api/auth/login", `{"email":"a@harvard.edu","password":"bad"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthenticated", rsp.Kind)

	w, _ = do(r, http.MethodGet, "/api/me", "")
	assert.Equal(t, http.StatusOK, w.Code)

	// 非法 JSON
	w, _ = do(r, http.MethodPatch, "/api/users/me", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertExpectations(t)
}

func TestHandleErrorUnknown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	HandleError(c, assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
