package service

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"reelhub.com/cmd/interaction/dal/db"
	"reelhub.com/cmd/interaction/infras/redis"
	"reelhub.com/cmd/model"
	"reelhub.com/pkg/errno"
	"reelhub.com/pkg/mq"
)

// LikeActionService 点赞/取消点赞, 视频与评论共用一条切换路径
type LikeActionService struct {
	ctx context.Context
}

func NewLikeActionService(ctx context.Context) *LikeActionService {
	return &LikeActionService{ctx: ctx}
}

// likeOwner 点赞目标的归属: 接收通知的用户, 以及目标所在的视频
type likeOwner struct {
	userId  int64
	videoId int64
}

// LikeAction 切换 userId 对 target 的点赞状态, 返回切换后的状态
func (service *LikeActionService) LikeAction(userId int64, target model.LikeTarget) (bool, error) {
	if !target.Valid() {
		return false, errno.InvalidLikeTargetErr
	}
	owner, err := service.resolve(userId, target)
	if err != nil {
		return false, err
	}

	var liked bool
	err = redis.WithLock(service.ctx, redis.ToggleLocker, redis.LikeLockKey(userId, target), func() error {
		var err error
		liked, err = db.ToggleLike(service.ctx, userId, target)
		return err
	})
	if err != nil {
		return false, err
	}

	if target.Kind == model.TargetComment {
		// 缓存的评论列表带有点赞数
		if err := redis.CommentCache.Invalidate(service.ctx, owner.videoId); err != nil {
			hlog.CtxWarnf(service.ctx, "invalidate comment cache of video %d failed: %v", owner.videoId, err)
		}
	}
	if liked {
		event := mq.NewNotificationEvent(mq.NotificationLike, userId, owner.userId)
		event.TargetType = target.Kind.String()
		event.VideoID = owner.videoId
		if target.Kind == model.TargetComment {
			event.CommentID = target.ID
		}
		mq.Notify(service.ctx, event)
	}
	return liked, nil
}

// IsLiked 查询点赞状态, 目标不存在或对调用者不可见时返回 NotFound
func (service *LikeActionService) IsLiked(userId int64, target model.LikeTarget) (bool, error) {
	if !target.Valid() {
		return false, errno.InvalidLikeTargetErr
	}
	if _, err := service.resolve(userId, target); err != nil {
		return false, err
	}
	return db.IsLiked(service.ctx, userId, target)
}

// resolve 加载目标归属; 私密视频及其下的评论对非作者视为不存在
func (service *LikeActionService) resolve(userId int64, target model.LikeTarget) (*likeOwner, error) {
	switch target.Kind {
	case model.TargetVideo:
		video, err := visibleVideo(service.ctx, target.ID, userId)
		if err != nil {
			return nil, err
		}
		return &likeOwner{userId: video.CreatorId, videoId: video.VideoId}, nil
	default:
		comment, err := db.GetComment(service.ctx, target.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, notFound(target)
			}
			return nil, err
		}
		if _, err := visibleVideo(service.ctx, comment.VideoId, userId); err != nil {
			if errors.Is(err, errno.VideoNotExistErr) {
				return nil, notFound(target)
			}
			return nil, err
		}
		return &likeOwner{userId: comment.AuthorId, videoId: comment.VideoId}, nil
	}
}

func notFound(target model.LikeTarget) errno.ErrNo {
	if target.Kind == model.TargetComment {
		return errno.CommentNotExistErr
	}
	return errno.VideoNotExistErr
}
