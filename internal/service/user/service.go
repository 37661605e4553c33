// Package user 社区成员账号与个人资料
package user

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"huddle_server/internal/config"
	"huddle_server/internal/dao/db/repository"
	myredis "huddle_server/internal/dao/redis"
	"huddle_server/internal/dto/request"
	"huddle_server/internal/dto/respond"
	"huddle_server/internal/model"
	"huddle_server/pkg/constants"
	"huddle_server/pkg/errorx"
	"huddle_server/pkg/util/idgen"
	"huddle_server/pkg/util/jwt"

	"go.uber.org/zap"
)

var (
	errEmailTaken      = errorx.New(errorx.CodeConflict, "an account with this email already exists")
	errBadCredentials  = errorx.New(errorx.CodeUnauthorized, "incorrect email or password")
	errUserNotFound    = errorx.New(errorx.CodeNotFound, "user not found")
	errEmptyPatch      = errorx.New(errorx.CodeInvalidParam, "no fields to update")
	errNameRequired    = errorx.New(errorx.CodeInvalidParam, "name is required")
	errTooManyInterest = errorx.New(errorx.CodeInvalidParam, "at most 20 interests")
)

const maxInterests = 20

// userInfoService 通过构造函数注入 Repository 与缓存
type userInfoService struct {
	repos      *repository.Repositories
	cache      myredis.AsyncCacheService
	domains    []string
	minPwdLen  int
	profileTTL time.Duration
}

// NewUserService 构造函数，注入所有依赖
func NewUserService(repos *repository.Repositories, cache myredis.AsyncCacheService, conf config.CommunityConfig) *userInfoService {
	return &userInfoService{
		repos:      repos,
		cache:      cache,
		domains:    conf.AllowedEmailDomains,
		minPwdLen:  conf.MinPasswordLength,
		profileTTL: time.Duration(conf.ProfileCacheMinutes) * time.Minute,
	}
}

// checkEmailDomain 邮箱必须属于社区域名，大小写无关
func (u *userInfoService) checkEmailDomain(email string) bool {
	for _, d := range u.domains {
		if strings.HasSuffix(email, "@"+d) {
			return true
		}
	}
	return false
}

// Register 注册并直接登录
func (u *userInfoService) Register(ctx context.Context, req request.RegisterRequest) (*respond.LoginRespond, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errNameRequired
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !u.checkEmailDomain(email) {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "please sign up with your @%s email", strings.Join(u.domains, " or @"))
	}
	if utf8.RuneCountInString(req.Password) < u.minPwdLen {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "password must be at least %d characters", u.minPwdLen)
	}
	interests, err := normalizeInterests(req.Interests)
	if err != nil {
		return nil, err
	}

	repos := u.repos.WithContext(ctx)
	if _, err := repos.User.FindByEmail(email); err == nil {
		return nil, errEmailTaken
	} else if !errorx.IsNotFound(err) {
		return nil, u.finish("check email", err)
	}

	user := &model.UserInfo{
		Uuid:            idgen.NewUUID(),
		Name:            name,
		Email:           email,
		RawPassword:     req.Password,
		Year:            strings.TrimSpace(req.Year),
		Concentration:   strings.TrimSpace(req.Concentration),
		Dorm:            strings.TrimSpace(req.Dorm),
		InstagramHandle: strings.TrimSpace(req.InstagramHandle),
	}
	err = repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.User.Create(user); err != nil {
			// 并发注册同一邮箱，由唯一索引兜底
			if repository.IsDuplicateKeyErr(err) {
				return errEmailTaken
			}
			return err
		}
		return tx.User.ReplaceInterests(user.Uuid, interests)
	})
	if err != nil {
		return nil, u.finish("register", err)
	}
	zap.L().Info("user registered", zap.String("user_id", user.Uuid))

	return u.login(ctx, user, interests)
}

// Login 邮箱密码登录；账号不存在与密码错误返回同一个错误
func (u *userInfoService) Login(ctx context.Context, req request.LoginRequest) (*respond.LoginRespond, error) {
	repos := u.repos.WithContext(ctx)
	user, err := repos.User.FindByEmail(strings.TrimSpace(req.Email))
	if errorx.IsNotFound(err) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, u.finish("login", err)
	}
	if !user.CheckPassword(req.Password) {
		return nil, errBadCredentials
	}
	interests, err := repos.User.ListInterests(user.Uuid)
	if err != nil {
		return nil, u.finish("login", err)
	}
	return u.login(ctx, user, interests)
}

// login 生成双 Token，并把 Refresh Token ID 写入缓存实现单点登录
func (u *userInfoService) login(ctx context.Context, user *model.UserInfo, interests []string) (*respond.LoginRespond, error) {
	accessToken, err := jwt.GenerateAccessToken(user.Uuid)
	if err != nil {
		zap.L().Error("generate access token failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	refreshToken, tokenID, err := jwt.GenerateRefreshToken(user.Uuid)
	if err != nil {
		zap.L().Error("generate refresh token failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if err := u.cache.Set(ctx, constants.USER_TOKEN_KEY_PREFIX+user.Uuid, tokenID, jwt.RefreshTokenExpiry()); err != nil {
		// 不阻塞登录，只是之后无法刷新
		zap.L().Error("store refresh token id failed", zap.String("user_id", user.Uuid), zap.Error(err))
	}
	return &respond.LoginRespond{
		User:         toProfile(user, interests),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// GetProfile 先查缓存，未命中回源并回填
func (u *userInfoService) GetProfile(ctx context.Context, userId string) (*respond.UserProfileRespond, error) {
	key := constants.USER_PROFILE_KEY_PREFIX + userId
	if cached, err := u.cache.Get(ctx, key); err != nil {
		zap.L().Warn("read profile cache failed", zap.String("key", key), zap.Error(err))
	} else if cached != "" {
		var rsp respond.UserProfileRespond
		if err := json.Unmarshal([]byte(cached), &rsp); err == nil {
			return &rsp, nil
		}
		zap.L().Warn("corrupt profile cache entry", zap.String("key", key))
	}

	rsp, err := u.loadProfile(ctx, userId)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(rsp); err == nil {
		u.cache.SubmitTask(func() {
			if err := u.cache.Set(context.Background(), key, string(data), u.profileTTL); err != nil {
				zap.L().Warn("write profile cache failed", zap.String("key", key), zap.Error(err))
			}
		})
	}
	return rsp, nil
}

// UpdateProfile 部分更新；interests 出现时整体替换
func (u *userInfoService) UpdateProfile(ctx context.Context, userId string, req request.UpdateProfileRequest) (*respond.UserProfileRespond, error) {
	if req.IsEmpty() {
		return nil, errEmptyPatch
	}
	fields := make(map[string]any)
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, errNameRequired
		}
		fields["name"] = name
	}
	optional := []struct {
		column string
		value  *string
	}{
		{"year", req.Year},
		{"concentration", req.Concentration},
		{"dorm", req.Dorm},
		{"instagram_handle", req.InstagramHandle},
		{"profile_picture_url", req.ProfilePictureUrl},
	}
	for _, f := range optional {
		if f.value != nil {
			fields[f.column] = strings.TrimSpace(*f.value)
		}
	}
	var interests []string
	if req.Interests != nil {
		var err error
		if interests, err = normalizeInterests(*req.Interests); err != nil {
			return nil, err
		}
	}

	err := u.repos.WithContext(ctx).Transaction(func(tx *repository.Repositories) error {
		if _, err := tx.User.FindByUuid(userId); err != nil {
			if errorx.IsNotFound(err) {
				return errUserNotFound
			}
			return err
		}
		if err := tx.User.UpdateFields(userId, fields); err != nil {
			return err
		}
		if req.Interests != nil {
			return tx.User.ReplaceInterests(userId, interests)
		}
		return nil
	})
	if err != nil {
		return nil, u.finish("update profile", err)
	}

	// 提交后同步删除；再排队删除一次，覆盖更新前已排队的回填
	key := constants.USER_PROFILE_KEY_PREFIX + userId
	u.invalidateProfile(ctx, key)
	u.cache.SubmitTask(func() { u.invalidateProfile(context.Background(), key) })
	return u.loadProfile(ctx, userId)
}

func (u *userInfoService) loadProfile(ctx context.Context, userId string) (*respond.UserProfileRespond, error) {
	repos := u.repos.WithContext(ctx)
	user, err := repos.User.FindByUuid(userId)
	if errorx.IsNotFound(err) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, u.finish("load profile", err)
	}
	interests, err := repos.User.ListInterests(userId)
	if err != nil {
		return nil, u.finish("load profile", err)
	}
	rsp := toProfile(user, interests)
	return &rsp, nil
}

func (u *userInfoService) finish(op string, err error) error {
	var codeErr *errorx.CodeError
	if errors.As(err, &codeErr) && codeErr.Unwrap() == nil && codeErr.Code != errorx.CodeDBError {
		return codeErr
	}
	zap.L().Error(op+" failed", zap.Error(err))
	return errorx.ErrPersistence
}

// normalizeInterests 去空白、去空项、去重，保留顺序
func normalizeInterests(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, raw := range in {
		v := strings.TrimSpace(raw)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	if len(out) > maxInterests {
		return nil, errTooManyInterest
	}
	return out, nil
}

func toProfile(user *model.UserInfo, interests []string) respond.UserProfileRespond {
	if interests == nil {
		interests = []string{}
	}
	return respond.UserProfileRespond{
		Id:                user.Uuid,
		Name:              user.Name,
		Email:             user.Email,
		Year:              user.Year,
		Concentration:     user.Concentration,
		Dorm:              user.Dorm,
		Interests:         interests,
		InstagramHandle:   user.InstagramHandle,
		ProfilePictureUrl: user.ProfilePictureUrl,
		CreatedAt:         user.CreatedAt.UTC(),
	}
}

func (u *userInfoService) invalidateProfile(ctx context.Context, key string) {
	if err := u.cache.Delete(context.WithoutCancel(ctx), key); err != nil {
		zap.L().Warn("invalidate profile cache failed", zap.String("key", key), zap.Error(err))
	}
}
