package handlers

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	hzutils "github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/pkg/errors"

	"reelhub.com/pkg/errno"
	"reelhub.com/pkg/utils"
)

// SendResponse writes {success:true} merged with data.
func SendResponse(c *app.RequestContext, status int, data hzutils.H) {
	body := hzutils.H{"success": true}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(status, body)
}

// SendError maps err onto its status and writes {success:false, error}.
// Faults are logged with their stack and answered with a generic message.
func SendError(ctx context.Context, c *app.RequestContext, err error) {
	Err := errno.ConvertErr(err)
	if Err.ErrCode == errno.ServiceErrCode {
		hlog.CtxErrorf(ctx, "%s %s failed: %v\n%+v", c.Method(), c.Request.URI().Path(), errors.Cause(err), err)
	}
	c.JSON(Err.HTTPStatus(), hzutils.H{
		"success": false,
		"error":   Err.ErrMsg,
	})
}

// ID 雪花ID在 JSON 中以字符串传递, 同时兼容数字写法
type ID int64

func (id *ID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*id = 0
		return nil
	}
	v, err := utils.ConvertStringToInt64(s)
	if err != nil {
		return errors.Wrapf(err, "invalid id %s", s)
	}
	*id = ID(v)
	return nil
}

// ParseID returns 0 for a missing or malformed id.
func ParseID(s string) int64 {
	v, err := utils.ConvertStringToInt64(strings.TrimSpace(s))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// BindJSON 绑定失败统一视为参数错误
func BindJSON(ctx context.Context, c *app.RequestContext, req interface{}) error {
	if err := c.BindJSON(req); err != nil {
		hlog.CtxDebugf(ctx, "bind %s failed: %v", c.Request.URI().Path(), err)
		return errno.ParamErr
	}
	return nil
}

func BindQuery(ctx context.Context, c *app.RequestContext, req interface{}) error {
	if err := c.BindQuery(req); err != nil {
		hlog.CtxDebugf(ctx, "bind query %s failed: %v", c.Request.URI().Path(), err)
		return errno.ParamErr
	}
	return nil
}
