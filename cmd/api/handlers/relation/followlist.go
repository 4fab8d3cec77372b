package relation

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"reelhub.com/cmd/api/handlers"
	"reelhub.com/cmd/model"
	"reelhub.com/cmd/relation/service"
)

type FollowListParam struct {
	PageNum  int64 `query:"page"`
	PageSize int64 `query:"pageSize"`
}

func FollowerList(ctx context.Context, c *app.RequestContext) {
	followList(ctx, c, (*service.FollowListService).FollowerList)
}

func FollowingList(ctx context.Context, c *app.RequestContext) {
	followList(ctx, c, (*service.FollowListService).FollowingList)
}

func followList(ctx context.Context, c *app.RequestContext,
	list func(*service.FollowListService, *service.FollowListRequest) ([]*model.UserInfo, error)) {
	var param FollowListParam
	if err := handlers.BindQuery(ctx, c, &param); err != nil {
		handlers.SendError(ctx, c, err)
		return
	}
	req := &service.FollowListRequest{
		UserId:   handlers.ParseID(c.Param("id")),
		PageNum:  param.PageNum,
		PageSize: param.PageSize,
	}
	users, err := list(service.NewFollowListService(ctx), req)
	if err != nil {
		handlers.SendError(ctx, c, err)
		return
	}
	handlers.SendResponse(c, consts.StatusOK, utils.H{
		"users":    users,
		"page":     req.PageNum,
		"pageSize": req.PageSize,
	})
}
