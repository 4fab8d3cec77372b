package relation

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"reelhub.com/cmd/api/handlers"
	"reelhub.com/cmd/relation/service"
	"reelhub.com/pkg/jwt"
)

type FollowParam struct {
	FollowingId handlers.ID `json:"followingId"`
}

// Follow 关注. 已关注时同样返回成功
func Follow(ctx context.Context, c *app.RequestContext) {
	userId, err := jwt.CurrentUserId(c)
	if err != nil {
		handlers.SendError(ctx, c, err)
		return
	}
	var param FollowParam
	if err := handlers.BindJSON(ctx, c, &param); err != nil {
		handlers.SendError(ctx, c, err)
		return
	}
	res, err := service.NewRelationService(ctx).CreateFollow(userId, int64(param.FollowingId))
	if err != nil {
		handlers.SendError(ctx, c, err)
		return
	}
	if !res.Created {
		handlers.SendResponse(c, consts.StatusOK, utils.H{"message": "Already following", "isFollowing": true})
		return
	}
	handlers.SendResponse(c, consts.StatusOK, utils.H{"message": "Followed Successfully"})
}

// Unfollow 取消关注, followingId 取自 query
func Unfollow(ctx context.Context, c *app.RequestContext) {
	userId, err := jwt.CurrentUserId(c)
	if err != nil {
		handlers.SendError(ctx, c, err)
		return
	}
	if err := service.NewRelationService(ctx).CancelFollow(userId, handlers.ParseID(c.Query("followingId"))); err != nil {
		handlers.SendError(ctx, c, err)
		return
	}
	handlers.SendResponse(c, consts.StatusOK, utils.H{"message": "Unfollowed Successfully"})
}

func CheckFollow(ctx context.Context, c *app.RequestContext) {
	userId, err := jwt.CurrentUserId(c)
	if err != nil {
		handlers.SendError(ctx, c, err)
		return
	}
	ok, err := service.NewRelationService(ctx).IsFollowing(userId, handlers.ParseID(c.Query("userId")))
	if err != nil {
		handlers.SendError(ctx, c, err)
		return
	}
	handlers.SendResponse(c, consts.StatusOK, utils.H{"isFollowing": ok})
}
