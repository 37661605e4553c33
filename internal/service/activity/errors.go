package activity

import (
	"errors"

	"huddle_server/pkg/errorx"

	"go.uber.org/zap"
)

// 业务错误。这里构造的错误都不带 cause，finish 据此区分业务错误和存储层错误
var (
	errActivityNotFound     = errorx.New(errorx.CodeNotFound, "activity not found")
	errNotOrganizer         = errorx.New(errorx.CodeForbidden, "only the organizer can edit this activity")
	errOrganizerCannotLeave = errorx.New(errorx.CodeForbidden, "the organizer cannot leave their own activity")
	errNotParticipant       = errorx.New(errorx.CodeForbidden, "join the activity to use its chat")
	errAlreadyJoined        = errorx.New(errorx.CodeConflict, "you have already joined this activity")
	errActivityFull         = errorx.New(errorx.CodeCapacityExceeded, "this activity is full")
	errEmptyMessage         = errorx.New(errorx.CodeInvalidParam, "message content cannot be empty")
	errCannotUncancel       = errorx.New(errorx.CodeInvalidParam, "a cancelled activity cannot be reopened")
	errEmptyPatch           = errorx.New(errorx.CodeInvalidParam, "no fields to update")
	errUnknownCursor        = errorx.New(errorx.CodeInvalidParam, "unknown message cursor")
)

func invalid(format string, args ...any) error {
	return errorx.Newf(errorx.CodeInvalidParam, format, args...)
}

// finish 业务错误原样返回；存储层错误记日志后统一返回 PersistenceError
func finish(op string, err error) error {
	if err == nil {
		return nil
	}
	var codeErr *errorx.CodeError
	if errors.As(err, &codeErr) && codeErr.Unwrap() == nil && codeErr.Code != errorx.CodeDBError {
		return codeErr
	}
	zap.L().Error(op+" failed", zap.Error(err))
	return errorx.ErrPersistence
}
