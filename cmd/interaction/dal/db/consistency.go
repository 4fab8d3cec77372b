package db

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"reelhub.com/cmd/model"
)

// CounterRepair describes one denormalized counter and the edge count it mirrors.
type CounterRepair struct {
	Name   string
	Model  interface{}
	Column string
	// Source is a correlated COUNT(*) subquery over the edge table.
	Source func(tx *gorm.DB) *gorm.DB
}

var CounterRepairs = []CounterRepair{
	{
		Name: "users.followers_count", Model: &model.User{}, Column: "followers_count",
		Source: func(tx *gorm.DB) *gorm.DB {
			return tx.Model(&model.Follow{}).Select("COUNT(*)").Where("follows.following_id = users.user_id")
		},
	},
	{
		Name: "users.following_count", Model: &model.User{}, Column: "following_count",
		Source: func(tx *gorm.DB) *gorm.DB {
			return tx.Model(&model.Follow{}).Select("COUNT(*)").Where("follows.follower_id = users.user_id")
		},
	},
	{
		Name: "users.videos_count", Model: &model.User{}, Column: "videos_count",
		Source: func(tx *gorm.DB) *gorm.DB {
			return tx.Model(&model.Video{}).Select("COUNT(*)").Where("videos.creator_id = users.user_id")
		},
	},
	{
		Name: "videos.likes_count", Model: &model.Video{}, Column: "likes_count",
		Source: func(tx *gorm.DB) *gorm.DB {
			return tx.Model(&model.Like{}).Select("COUNT(*)").
				Where("likes.target_type = ? AND likes.target_id = videos.video_id", model.TargetVideo)
		},
	},
	{
		Name: "videos.comments_count", Model: &model.Video{}, Column: "comments_count",
		Source: func(tx *gorm.DB) *gorm.DB {
			return tx.Model(&model.Comment{}).Select("COUNT(*)").Where("comments.video_id = videos.video_id")
		},
	},
	{
		Name: "comments.likes_count", Model: &model.Comment{}, Column: "likes_count",
		Source: func(tx *gorm.DB) *gorm.DB {
			return tx.Model(&model.Like{}).Select("COUNT(*)").
				Where("likes.target_type = ? AND likes.target_id = comments.comment_id", model.TargetComment)
		},
	},
}

// RepairCounter rewrites every row whose cached counter disagrees with its edge count
// and returns how many rows were corrected.
func RepairCounter(ctx context.Context, r CounterRepair) (int64, error) {
	db := DB.WithContext(ctx)
	res := db.Model(r.Model).
		Where(r.Column+" <> (?)", r.Source(db.Session(&gorm.Session{NewDB: true}))).
		Update(r.Column, gorm.Expr("(?)", r.Source(db.Session(&gorm.Session{NewDB: true}))))
	if res.Error != nil {
		return 0, errors.Wrapf(res.Error, "repair %s failed", r.Name)
	}
	return res.RowsAffected, nil
}
