package db

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"reelhub.com/cmd/model"
	"reelhub.com/pkg/database"
	"reelhub.com/pkg/utils"
)

// counterOwner returns the row that caches the like count of a target.
func counterOwner(target model.LikeTarget) (interface{}, string) {
	if target.Kind == model.TargetComment {
		return &model.Comment{}, "comment_id = ?"
	}
	return &model.Video{}, "video_id = ?"
}

// ToggleLike 切换点赞状态. 已点赞则删除边并减一, 否则创建边并加一, 边与计数在同一事务.
func ToggleLike(ctx context.Context, userId int64, target model.LikeTarget) (liked bool, err error) {
	err = DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owner, cond := counterOwner(target)

		var existing model.Like
		res := tx.Where("user_id = ? AND target_type = ? AND target_id = ?", userId, target.Kind, target.ID).
			Limit(1).Find(&existing)
		if res.Error != nil {
			return errors.Wrapf(res.Error, "query like failed, user: %d, target: %s", userId, target)
		}

		if res.RowsAffected > 0 {
			if err := tx.Where("like_id = ?", existing.LikeId).Delete(&model.Like{}).Error; err != nil {
				return errors.Wrapf(err, "delete like failed, likeId: %d", existing.LikeId)
			}
			if err := tx.Model(owner).Where(cond, target.ID).
				Update("likes_count", database.Decr("likes_count")).Error; err != nil {
				return errors.Wrapf(err, "decr likes_count failed, target: %s", target)
			}
			liked = false
			return nil
		}

		like := &model.Like{
			LikeId:     utils.GenerateID(),
			UserId:     userId,
			TargetType: target.Kind,
			TargetId:   target.ID,
		}
		if err := tx.Create(like).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// 并发请求已经写入同一条边, 当前状态即为已点赞
				return errConcurrentLike
			}
			return errors.Wrapf(err, "create like failed, user: %d, target: %s", userId, target)
		}
		if err := tx.Model(owner).Where(cond, target.ID).
			Update("likes_count", database.Incr("likes_count")).Error; err != nil {
			return errors.Wrapf(err, "incr likes_count failed, target: %s", target)
		}
		liked = true
		return nil
	})
	if errors.Is(err, errConcurrentLike) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return liked, nil
}

var errConcurrentLike = errors.New("like created concurrently")

func IsLiked(ctx context.Context, userId int64, target model.LikeTarget) (bool, error) {
	var count int64
	if err := DB.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userId, target.Kind, target.ID).
		Count(&count).Error; err != nil {
		return false, errors.Wrapf(err, "IsLiked failed, user: %d, target: %s", userId, target)
	}
	return count > 0, nil
}

// CountLikes counts edges pointing at target, the authoritative value behind likes_count.
func CountLikes(ctx context.Context, target model.LikeTarget) (int64, error) {
	var count int64
	if err := DB.WithContext(ctx).Model(&model.Like{}).
		Where("target_type = ? AND target_id = ?", target.Kind, target.ID).
		Count(&count).Error; err != nil {
		return 0, errors.Wrapf(err, "CountLikes failed, target: %s", target)
	}
	return count, nil
}
