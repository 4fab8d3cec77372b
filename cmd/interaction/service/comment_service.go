package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"reelhub.com/cmd/interaction/dal/db"
	"reelhub.com/cmd/interaction/infras/redis"
	"reelhub.com/cmd/model"
	userdb "reelhub.com/cmd/user/dal/db"
	videodb "reelhub.com/cmd/video/dal/db"
	"reelhub.com/pkg/constants"
	"reelhub.com/pkg/errno"
	"reelhub.com/pkg/mq"
)

type CreateCommentRequest struct {
	VideoId int64
	Content string
}

type CommentService struct {
	ctx context.Context
}

func NewCommentService(ctx context.Context) *CommentService {
	return &CommentService{ctx: ctx}
}

// CreateComment 发表评论, 评论数与评论记录同一事务写入
func (service *CommentService) CreateComment(userId int64, req *CreateCommentRequest) (*model.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" || req.VideoId <= 0 {
		return nil, errno.ParamErr.WithMessage("Missing content or videoId")
	}
	if utf8.RuneCountInString(content) > constants.MaxCommentLen {
		return nil, errno.ParamErr.WithMessage("Comment must be at most 200 characters")
	}

	author, err := userdb.GetUser(service.ctx, userId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errno.UserNotExistErr
		}
		return nil, err
	}
	video, err := visibleVideo(service.ctx, req.VideoId, userId)
	if err != nil {
		return nil, err
	}
	if !video.AllowComments {
		return nil, errno.CommentsDisabledErr
	}

	comment := &model.Comment{
		VideoId:  video.VideoId,
		AuthorId: userId,
		Content:  content,
	}
	if err := db.CreateComment(service.ctx, comment); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errno.VideoNotExistErr
		}
		return nil, err
	}
	comment.Author = author.Info()

	if err := redis.CommentCache.Invalidate(service.ctx, video.VideoId); err != nil {
		hlog.CtxWarnf(service.ctx, "invalidate comment cache of video %d failed: %v", video.VideoId, err)
	}
	event := mq.NewNotificationEvent(mq.NotificationComment, userId, video.CreatorId)
	event.VideoID = video.VideoId
	event.CommentID = comment.CommentId
	event.Content = content
	mq.Notify(service.ctx, event)
	return comment, nil
}

// ListComments 视频最新的一页评论, 先查缓存. 视频不存在或对 viewerId 不可见时返回空列表
func (service *CommentService) ListComments(viewerId, videoId int64) ([]*model.Comment, error) {
	if videoId <= 0 {
		return nil, errno.ParamErr.WithMessage("Missing videoId")
	}
	if _, err := visibleVideo(service.ctx, videoId, viewerId); err != nil {
		if errors.Is(err, errno.VideoNotExistErr) {
			return []*model.Comment{}, nil
		}
		return nil, err
	}

	cached, err := redis.CommentCache.GetLatest(service.ctx, videoId)
	if err != nil {
		hlog.CtxWarnf(service.ctx, "read comment cache of video %d failed: %v", videoId, err)
	} else if cached != nil {
		return cached, nil
	}
	// 回源前记下版本号, 期间若有失效则放弃写回
	gen, genErr := redis.CommentCache.Generation(service.ctx, videoId)
	if genErr != nil {
		hlog.CtxWarnf(service.ctx, "read comment cache generation of video %d failed: %v", videoId, genErr)
	}

	comments, err := db.ListVideoComments(service.ctx, videoId, constants.CommentPageSize)
	if err != nil {
		return nil, err
	}
	authorIds := make([]int64, 0, len(comments))
	for _, c := range comments {
		authorIds = append(authorIds, c.AuthorId)
	}
	authors, err := userdb.MGetUserInfo(service.ctx, authorIds)
	if err != nil {
		return nil, err
	}
	for _, c := range comments {
		c.Author = authors[c.AuthorId]
	}

	if genErr == nil {
		if _, err := redis.CommentCache.SetLatest(service.ctx, videoId, gen, comments); err != nil {
			hlog.CtxWarnf(service.ctx, "write comment cache of video %d failed: %v", videoId, err)
		}
	}
	return comments, nil
}

// visibleVideo 私密视频对非作者视为不存在
func visibleVideo(ctx context.Context, videoId, viewerId int64) (*model.Video, error) {
	video, err := videodb.GetVideo(ctx, videoId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errno.VideoNotExistErr
		}
		return nil, err
	}
	if !video.IsPublic && video.CreatorId != viewerId {
		return nil, errno.VideoNotExistErr
	}
	return video, nil
}
