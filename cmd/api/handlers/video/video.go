package video

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"reelhub.com/cmd/api/handlers"
	"reelhub.com/cmd/video/service"
	"reelhub.com/config"
	"reelhub.com/pkg/jwt"
)

type FeedListParam struct {
	Limit   int64  `query:"limit"`
	Before  int64  `query:"before"`
	Creator string `query:"creatorId"`
	Hashtag string `query:"hashtag"`
}

// FeedList 公开视频流, before 为毫秒时间戳游标
func FeedList(ctx context.Context, c *app.RequestContext) {
	var param FeedListParam
	if err := handlers.BindQuery(ctx, c, &param); err != nil {
		handlers.SendError(ctx, c, err)
		return
	}
	videos, err := service.NewFeedListService(ctx).FeedList(&service.FeedListRequest{
		Limit:     param.Limit,
		Before:    param.Before,
		CreatorId: handlers.ParseID(param.Creator),
		Hashtag:   param.Hashtag,
	})
	if err != nil {
		handlers.SendError(ctx, c, err)
		return
	}
	var next int64
	if len(videos) > 0 {
		next = videos[len(videos)-1].CreatedAt.UnixMilli()
	}
	handlers.SendResponse(c, consts.StatusOK, utils.H{"videos": videos, "nextBefore": next})
}

func PublishVideo(ctx context.Context, c *app.RequestContext) {
	userId, err := jwt.CurrentUserId(c)
	if err != nil {
		handlers.SendError(ctx, c, err)
		return
	}
	var req service.PublishVideoRequest
	if err := handlers.BindJSON(ctx, c, &req); err != nil {
		handlers.SendError(ctx, c, err)
		return
	}
	video, err := service.NewPublishVideoService(ctx).Publish(userId, &req)
	if err != nil {
		handlers.SendError(ctx, c, err)
		return
	}
	handlers.SendResponse(c, consts.StatusCreated, utils.H{"video": video})
}

// GetVideo 登录与否均可访问, 登录用户可以看到自己的私有视频
func GetVideo(ctx context.Context, c *app.RequestContext) {
	viewer, _ := jwt.CurrentUserId(c)
	video, err := service.NewVideoInfoService(ctx).GetVideo(handlers.ParseID(c.Param("id")), viewer)
	if err != nil {
		handlers.SendError(ctx, c, err)
		return
	}
	handlers.SendResponse(c, consts.StatusOK, utils.H{"video": video})
}

func VisitVideo(ctx context.Context, c *app.RequestContext) {
	if err := service.NewVideoInfoService(ctx).View(handlers.ParseID(c.Param("id"))); err != nil {
		handlers.SendError(ctx, c, err)
		return
	}
	handlers.SendResponse(c, consts.StatusOK, nil)
}

// UploadAuth 签发直传对象存储的地址
func UploadAuth(ctx context.Context, c *app.RequestContext) {
	userId, err := jwt.CurrentUserId(c)
	if err != nil {
		handlers.SendError(ctx, c, err)
		return
	}
	grant, err := service.NewUploadAuthService(ctx).UploadAuth(userId, config.ConfigInfo.Minio.PresignExpiry)
	if err != nil {
		handlers.SendError(ctx, c, err)
		return
	}
	handlers.SendResponse(c, consts.StatusOK, utils.H{
		"videoUploadUrl":     grant.VideoUploadURL,
		"videoUrl":           grant.VideoURL,
		"thumbnailUploadUrl": grant.ThumbnailUploadURL,
		"thumbnailUrl":       grant.ThumbnailURL,
		"expire":             grant.Expire,
	})
}
