// Package auth Token 校验与刷新
package auth

import (
	"context"

	myredis "huddle_server/internal/dao/redis"
	"huddle_server/internal/dto/request"
	"huddle_server/internal/dto/respond"
	"huddle_server/pkg/constants"
	"huddle_server/pkg/errorx"
	"huddle_server/pkg/util/jwt"

	"go.uber.org/zap"
)

var errSessionExpired = errorx.New(errorx.CodeUnauthorized, "session expired, please sign in again")

// Service 认证服务实现
type Service struct {
	cache myredis.CacheService
}

// NewAuthService 创建认证服务实例
func NewAuthService(cache myredis.CacheService) *Service {
	return &Service{cache: cache}
}

// ValidateTokenID 只有最近一次登录签发的 Refresh Token 有效，实现单点登录互踢
func (s *Service) ValidateTokenID(ctx context.Context, userID, tokenID string) (bool, error) {
	validTokenID, err := s.cache.Get(ctx, constants.USER_TOKEN_KEY_PREFIX+userID)
	if err != nil {
		return false, err
	}
	if validTokenID == "" {
		return false, nil
	}
	return tokenID == validTokenID, nil
}

// RefreshToken 用 Refresh Token 换新的 Access Token
func (s *Service) RefreshToken(ctx context.Context, req request.RefreshTokenRequest) (*respond.RefreshTokenRespond, error) {
	claims, err := jwt.ParseToken(req.RefreshToken)
	if err != nil || claims.Subject != jwt.SubjectRefreshToken || claims.TokenID == "" {
		return nil, errSessionExpired
	}

	valid, err := s.ValidateTokenID(ctx, claims.UserID, claims.TokenID)
	if err != nil {
		zap.L().Error("read refresh token id failed", zap.String("user_id", claims.UserID), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if !valid {
		return nil, errSessionExpired
	}

	accessToken, err := jwt.GenerateAccessToken(claims.UserID)
	if err != nil {
		zap.L().Error("generate access token failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return &respond.RefreshTokenRespond{AccessToken: accessToken}, nil
}
