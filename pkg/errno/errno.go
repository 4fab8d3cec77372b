package errno

import (
	"errors"
	"fmt"

	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const (
	SuccessCode      int64 = 0
	ServiceErrCode   int64 = 10001
	ParamErrCode     int64 = 10002
	AuthorizationErr int64 = 10003
	NotFoundErrCode  int64 = 10004
	ConflictErrCode  int64 = 10005
	TooManyReqCode   int64 = 10006
)

type ErrNo struct {
	ErrCode int64
	ErrMsg  string
}

func (e ErrNo) Error() string {
	return fmt.Sprintf("err_code=%d, err_msg=%s", e.ErrCode, e.ErrMsg)
}

func NewErrNo(code int64, msg string) ErrNo {
	return ErrNo{code, msg}
}

func (e ErrNo) WithMessage(msg string) ErrNo {
	e.ErrMsg = msg
	return e
}

// HTTPStatus maps the error category onto the status code clients match on.
func (e ErrNo) HTTPStatus() int {
	switch e.ErrCode {
	case SuccessCode:
		return consts.StatusOK
	case ParamErrCode, ConflictErrCode:
		return consts.StatusBadRequest
	case AuthorizationErr:
		return consts.StatusUnauthorized
	case NotFoundErrCode:
		return consts.StatusNotFound
	case TooManyReqCode:
		return consts.StatusTooManyRequests
	default:
		return consts.StatusInternalServerError
	}
}

var (
	Success                = NewErrNo(SuccessCode, "Success")
	ServiceErr             = NewErrNo(ServiceErrCode, "Server error")
	ParamErr               = NewErrNo(ParamErrCode, "Invalid request")
	AuthorizationFailedErr = NewErrNo(AuthorizationErr, "Unauthorized")
	TooManyRequestsErr     = NewErrNo(TooManyReqCode, "Too many requests")

	UserNotExistErr    = NewErrNo(NotFoundErrCode, "User not found")
	VideoNotExistErr   = NewErrNo(NotFoundErrCode, "Video not found")
	CommentNotExistErr = NewErrNo(NotFoundErrCode, "Comment not found")

	SelfFollowErr        = NewErrNo(ConflictErrCode, "Cannot follow yourself")
	NotFollowingErr      = NewErrNo(ConflictErrCode, "Not Following")
	EmailRegisteredErr   = NewErrNo(ConflictErrCode, "Email already registered")
	UsernameTakenErr     = NewErrNo(ConflictErrCode, "Username already taken")
	InvalidLikeTargetErr = NewErrNo(ParamErrCode, "Invalid Request, missing context")
	CommentsDisabledErr  = NewErrNo(ConflictErrCode, "Comments are disabled")
	InvalidCredentialErr = NewErrNo(AuthorizationErr, "Invalid email or password")
	StorageDisabledErr   = NewErrNo(ServiceErrCode, "Upload storage not configured")
)

// ConvertErr convert error to Errno
func ConvertErr(err error) ErrNo {
	if err == nil {
		return Success
	}
	Err := ErrNo{}
	if errors.As(err, &Err) {
		return Err
	}
	s := ServiceErr
	return s
}
