package interaction

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"reelhub.com/cmd/api/handlers"
	"reelhub.com/cmd/interaction/service"
	"reelhub.com/cmd/model"
	"reelhub.com/pkg/jwt"
)

type LikeParam struct {
	VideoId   handlers.ID `json:"videoId"`
	CommentId handlers.ID `json:"commentId"`
}

var likeMessages = map[model.TargetKind][2]string{
	model.TargetVideo:   {"video unliked", "video liked"},
	model.TargetComment: {"Comment unliked", "comment liked"},
}

// LikeAction 点赞切换, 目标为视频或评论之一
func LikeAction(ctx context.Context, c *app.RequestContext) {
	userId, err := jwt.CurrentUserId(c)
	if err != nil {
		handlers.SendError(ctx, c, err)
		return
	}
	var param LikeParam
	if err := handlers.BindJSON(ctx, c, &param); err != nil {
		handlers.SendError(ctx, c, err)
		return
	}
	target, err := model.ParseLikeTarget(int64(param.VideoId), int64(param.CommentId))
	if err != nil {
		handlers.SendError(ctx, c, err)
		return
	}
	liked, err := service.NewLikeActionService(ctx).LikeAction(userId, target)
	if err != nil {
		handlers.SendError(ctx, c, err)
		return
	}
	msg := likeMessages[target.Kind][0]
	if liked {
		msg = likeMessages[target.Kind][1]
	}
	handlers.SendResponse(c, consts.StatusOK, utils.H{"liked": liked, "message": msg})
}

func CheckLike(ctx context.Context, c *app.RequestContext) {
	userId, err := jwt.CurrentUserId(c)
	if err != nil {
		handlers.SendError(ctx, c, err)
		return
	}
	target, err := model.ParseLikeTarget(handlers.ParseID(c.Query("videoId")), handlers.ParseID(c.Query("commentId")))
	if err != nil {
		handlers.SendError(ctx, c, err)
		return
	}
	liked, err := service.NewLikeActionService(ctx).IsLiked(userId, target)
	if err != nil {
		handlers.SendError(ctx, c, err)
		return
	}
	handlers.SendResponse(c, consts.StatusOK, utils.H{"isLiked": liked})
}
