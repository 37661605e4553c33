package handler

import (
	"errors"
	"net/http"

	"huddle_server/pkg/constants"
	"huddle_server/pkg/errorx"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ResponseData 统一响应结构体
// kind 是稳定的机器可读错误类型，msg 面向用户
type ResponseData struct {
	Code int    `json:"code"`
	Kind string `json:"kind"`
	Msg  any    `json:"msg"`
	Data any    `json:"data"`
}

// HandleSuccess 200
func HandleSuccess(c *gin.Context, data any) {
	respond(c, http.StatusOK, errorx.CodeSuccess, "success", data)
}

// HandleCreated 201，用于创建类接口
func HandleCreated(c *gin.Context, data any) {
	respond(c, http.StatusCreated, errorx.CodeSuccess, "success", data)
}

// HandleError 通用错误处理方法
// 业务错误按错误码映射 HTTP 状态；其它错误记录日志并返回服务繁忙
func HandleError(c *gin.Context, err error) {
	var codeErr *errorx.CodeError
	if errors.As(err, &codeErr) {
		if codeErr.Unwrap() != nil {
			_ = c.Error(err)
		}
		respond(c, errorx.HTTPStatus(codeErr.Code), codeErr.Code, codeErr.Msg, nil)
		return
	}

	zap.L().Error("system error",
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Error(err),
	)
	respond(c, http.StatusInternalServerError, errorx.ErrServerBusy.Code, errorx.ErrServerBusy.Msg, nil)
}

// HandleParamError 处理参数绑定错误，validator 错误会被翻译
func HandleParamError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && Trans != nil {
		respond(c, http.StatusBadRequest, errorx.CodeInvalidParam, RemoveTopStruct(validationErrs.Translate(Trans)), nil)
		return
	}

	// JSON 格式错误、类型不匹配等
	zap.L().Debug("param bind error", zap.Error(err))
	respond(c, http.StatusBadRequest, errorx.CodeInvalidParam, errorx.ErrInvalidParam.Msg, nil)
}

func respond(c *gin.Context, status, code int, msg any, data any) {
	c.JSON(status, ResponseData{
		Code: code,
		Kind: errorx.Kind(code),
		Msg:  msg,
		Data: data,
	})
}

// currentUserID JWTAuth 写入的用户 ID；缺失时直接返回 401
func currentUserID(c *gin.Context) (string, bool) {
	uid := c.GetString(constants.CTX_USER_ID)
	if uid == "" {
		HandleError(c, errorx.ErrUnauthenticated)
		return "", false
	}
	return uid, true
}
