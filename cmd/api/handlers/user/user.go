package user

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"reelhub.com/cmd/api/handlers"
	"reelhub.com/cmd/user/service"
	"reelhub.com/pkg/jwt"
)

// Register 注册
func Register(ctx context.Context, c *app.RequestContext) {
	var req service.CreateUserRequest
	if err := handlers.BindJSON(ctx, c, &req); err != nil {
		handlers.SendError(ctx, c, err)
		return
	}
	if _, err := service.NewCreateUserService(ctx).CreateUser(&req); err != nil {
		handlers.SendError(ctx, c, err)
		return
	}
	handlers.SendResponse(c, consts.StatusCreated, utils.H{"message": "Successfully registered"})
}

// Login 校验密码后签发会话令牌
func Login(ctx context.Context, c *app.RequestContext) {
	var req service.LoginUserRequest
	if err := handlers.BindJSON(ctx, c, &req); err != nil {
		handlers.SendError(ctx, c, err)
		return
	}
	user, err := service.NewLoginUserService(ctx).LoginUser(&req)
	if err != nil {
		handlers.SendError(ctx, c, err)
		return
	}
	token, expire, err := jwt.GenerateToken(user.UserId)
	if err != nil {
		handlers.SendError(ctx, c, err)
		return
	}
	handlers.SendResponse(c, consts.StatusOK, utils.H{
		"token":  token,
		"expire": expire.Format(time.RFC3339),
		"user":   user.Profile(),
	})
}

func GetUserInfo(ctx context.Context, c *app.RequestContext) {
	profile, err := service.NewGetUserInfoService(ctx).GetUserInfo(handlers.ParseID(c.Param("id")))
	if err != nil {
		handlers.SendError(ctx, c, err)
		return
	}
	handlers.SendResponse(c, consts.StatusOK, utils.H{"user": profile})
}
