package db

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"reelhub.com/cmd/model"
	"reelhub.com/pkg/database"
	"reelhub.com/pkg/utils"
)

// CreateFollow 在同一事务里写入关注边并更新双方计数(先被关注者, 后关注者).
// 边已存在时返回 created=false 且不改动计数.
func CreateFollow(ctx context.Context, followerId, followingId int64) (created bool, err error) {
	err = DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		edge := &model.Follow{
			FollowId:    utils.GenerateID(),
			FollowerId:  followerId,
			FollowingId: followingId,
		}
		if err := tx.Create(edge).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errAlreadyFollowing
			}
			return errors.Wrapf(err, "create follow edge failed, %d->%d", followerId, followingId)
		}
		if err := tx.Model(&model.User{}).Where("user_id = ?", followingId).
			Update("followers_count", database.Incr("followers_count")).Error; err != nil {
			return errors.Wrapf(err, "incr followers_count failed, userId: %d", followingId)
		}
		if err := tx.Model(&model.User{}).Where("user_id = ?", followerId).
			Update("following_count", database.Incr("following_count")).Error; err != nil {
			return errors.Wrapf(err, "incr following_count failed, userId: %d", followerId)
		}
		return nil
	})
	if errors.Is(err, errAlreadyFollowing) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

var errAlreadyFollowing = errors.New("already following")

// DeleteFollow 删除关注边并回退计数, 边不存在时 deleted=false.
func DeleteFollow(ctx context.Context, followerId, followingId int64) (deleted bool, err error) {
	err = DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND following_id = ?", followerId, followingId).Delete(&model.Follow{})
		if res.Error != nil {
			return errors.Wrapf(res.Error, "delete follow edge failed, %d->%d", followerId, followingId)
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true
		if err := tx.Model(&model.User{}).Where("user_id = ?", followingId).
			Update("followers_count", database.Decr("followers_count")).Error; err != nil {
			return errors.Wrapf(err, "decr followers_count failed, userId: %d", followingId)
		}
		if err := tx.Model(&model.User{}).Where("user_id = ?", followerId).
			Update("following_count", database.Decr("following_count")).Error; err != nil {
			return errors.Wrapf(err, "decr following_count failed, userId: %d", followerId)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func IsFollowing(ctx context.Context, followerId, followingId int64) (bool, error) {
	var count int64
	if err := DB.WithContext(ctx).Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerId, followingId).
		Count(&count).Error; err != nil {
		return false, errors.Wrapf(err, "IsFollowing failed,err:%v", err)
	}
	return count > 0, nil
}

// GetFollowerListPaged 关注了 userId 的用户, 最近关注的在前
func GetFollowerListPaged(ctx context.Context, userId, pageNum, pageSize int64) ([]int64, error) {
	list := make([]int64, 0, pageSize)
	if err := DB.WithContext(ctx).Model(&model.Follow{}).
		Where("following_id = ?", userId).
		Order("created_at DESC").Order("follow_id DESC").
		Offset(int((pageNum-1)*pageSize)).Limit(int(pageSize)).
		Pluck("follower_id", &list).Error; err != nil {
		return nil, errors.Wrapf(err, "GetFollowerListPaged failed,err:%v", err)
	}
	return list, nil
}

// GetFollowingListPaged userId 关注的用户
func GetFollowingListPaged(ctx context.Context, userId, pageNum, pageSize int64) ([]int64, error) {
	list := make([]int64, 0, pageSize)
	if err := DB.WithContext(ctx).Model(&model.Follow{}).
		Where("follower_id = ?", userId).
		Order("created_at DESC").Order("follow_id DESC").
		Offset(int((pageNum-1)*pageSize)).Limit(int(pageSize)).
		Pluck("following_id", &list).Error; err != nil {
		return nil, errors.Wrapf(err, "GetFollowingListPaged failed,err:%v", err)
	}
	return list, nil
}

func CountEdges(ctx context.Context) (int64, error) {
	var count int64
	if err := DB.WithContext(ctx).Model(&model.Follow{}).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "count follows failed")
	}
	return count, nil
}
