package db

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"reelhub.com/cmd/model"
	"reelhub.com/pkg/database"
	"reelhub.com/pkg/utils"
)

// CreateComment 写入评论并在同一事务里给视频评论数加一
func CreateComment(ctx context.Context, comment *model.Comment) error {
	if comment.CommentId == 0 {
		comment.CommentId = utils.GenerateID()
	}
	return DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return errors.Wrapf(err, "CreateComment failed, videoId: %d", comment.VideoId)
		}
		res := tx.Model(&model.Video{}).Where("video_id = ?", comment.VideoId).
			Update("comments_count", database.Incr("comments_count"))
		if res.Error != nil {
			return errors.Wrapf(res.Error, "incr comments_count failed, videoId: %d", comment.VideoId)
		}
		if res.RowsAffected == 0 {
			return errors.Wrapf(gorm.ErrRecordNotFound, "video %d vanished while commenting", comment.VideoId)
		}
		return nil
	})
}

// ListVideoComments 按创建时间倒序返回最新的 limit 条评论
func ListVideoComments(ctx context.Context, videoId int64, limit int) ([]*model.Comment, error) {
	comments := make([]*model.Comment, 0, limit)
	if err := DB.WithContext(ctx).
		Where("video_id = ?", videoId).
		Order("created_at DESC").Order("comment_id DESC").
		Limit(limit).
		Find(&comments).Error; err != nil {
		return nil, errors.Wrapf(err, "ListVideoComments failed, videoId: %d", videoId)
	}
	return comments, nil
}

func GetComment(ctx context.Context, commentId int64) (*model.Comment, error) {
	var comment model.Comment
	if err := DB.WithContext(ctx).Where("comment_id = ?", commentId).First(&comment).Error; err != nil {
		return nil, errors.Wrapf(err, "GetComment failed, commentId: %d", commentId)
	}
	return &comment, nil
}
