package service

import (
	"context"

	"reelhub.com/cmd/interaction/infras/redis"
	"reelhub.com/cmd/relation/dal/db"
	userdb "reelhub.com/cmd/user/dal/db"
	"reelhub.com/pkg/errno"
	"reelhub.com/pkg/mq"
)

type RelationService struct {
	ctx context.Context
}

func NewRelationService(ctx context.Context) *RelationService {
	return &RelationService{ctx: ctx}
}

// FollowResult Created=false 表示关注关系早已存在, 计数未变
type FollowResult struct {
	Created bool
}

// CreateFollow 关注: 已关注时幂等成功, 不重复计数
func (service *RelationService) CreateFollow(followerId, followingId int64) (*FollowResult, error) {
	if followingId <= 0 {
		return nil, errno.ParamErr.WithMessage("Missing followingId")
	}
	if followerId == followingId {
		return nil, errno.SelfFollowErr
	}
	if err := service.checkUser(followerId, errno.UserNotExistErr); err != nil {
		return nil, err
	}
	if err := service.checkUser(followingId, errno.UserNotExistErr.WithMessage("User to follow not found")); err != nil {
		return nil, err
	}

	var created bool
	err := redis.WithLock(service.ctx, redis.ToggleLocker, redis.FollowLockKey(followerId, followingId), func() error {
		var err error
		created, err = db.CreateFollow(service.ctx, followerId, followingId)
		return err
	})
	if err != nil {
		return nil, err
	}
	if created {
		mq.Notify(service.ctx, mq.NewNotificationEvent(mq.NotificationFollow, followerId, followingId))
	}
	return &FollowResult{Created: created}, nil
}

// CancelFollow 取消关注: 未关注时返回 NotFollowingErr
func (service *RelationService) CancelFollow(followerId, followingId int64) error {
	if followingId <= 0 {
		return errno.ParamErr.WithMessage("Missing Following id")
	}
	if err := service.checkUser(followerId, errno.UserNotExistErr); err != nil {
		return err
	}

	var deleted bool
	err := redis.WithLock(service.ctx, redis.ToggleLocker, redis.FollowLockKey(followerId, followingId), func() error {
		var err error
		deleted, err = db.DeleteFollow(service.ctx, followerId, followingId)
		return err
	})
	if err != nil {
		return err
	}
	if !deleted {
		return errno.NotFollowingErr
	}
	return nil
}

// IsFollowing 不校验目标用户是否存在, 不存在的用户自然没有关注边
func (service *RelationService) IsFollowing(followerId, userId int64) (bool, error) {
	if userId <= 0 {
		return false, errno.ParamErr.WithMessage("Missing userId")
	}
	return db.IsFollowing(service.ctx, followerId, userId)
}

func (service *RelationService) checkUser(userId int64, notFound errno.ErrNo) error {
	exist, err := userdb.CheckUserExistById(service.ctx, userId)
	if err != nil {
		return err
	}
	if !exist {
		return notFound
	}
	return nil
}
