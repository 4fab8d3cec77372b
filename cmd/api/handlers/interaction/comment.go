package interaction

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"reelhub.com/cmd/api/handlers"
	"reelhub.com/cmd/interaction/service"
	"reelhub.com/pkg/jwt"
)

type CreateCommentParam struct {
	VideoId handlers.ID `json:"videoId"`
	Content string      `json:"content"`
}

// CommentList 视频评论列表, 无需登录; 登录的作者可看到私密视频的评论
func CommentList(ctx context.Context, c *app.RequestContext) {
	viewer, _ := jwt.CurrentUserId(c)
	comments, err := service.NewCommentService(ctx).ListComments(viewer, handlers.ParseID(c.Query("videoId")))
	if err != nil {
		handlers.SendError(ctx, c, err)
		return
	}
	handlers.SendResponse(c, consts.StatusOK, utils.H{"comments": comments})
}

func CreateComment(ctx context.Context, c *app.RequestContext) {
	userId, err := jwt.CurrentUserId(c)
	if err != nil {
		handlers.SendError(ctx, c, err)
		return
	}
	var param CreateCommentParam
	if err := handlers.BindJSON(ctx, c, &param); err != nil {
		handlers.SendError(ctx, c, err)
		return
	}
	comment, err := service.NewCommentService(ctx).CreateComment(userId, &service.CreateCommentRequest{
		VideoId: int64(param.VideoId),
		Content: param.Content,
	})
	if err != nil {
		handlers.SendError(ctx, c, err)
		return
	}
	handlers.SendResponse(c, consts.StatusCreated, utils.H{"message": "Comment added", "comment": comment})
}
