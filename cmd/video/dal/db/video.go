package db

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"reelhub.com/cmd/model"
	"reelhub.com/pkg/database"
	"reelhub.com/pkg/utils"
)

// CreateVideo 写入视频并在同一事务里给作者的 videos_count 加一
func CreateVideo(ctx context.Context, video *model.Video) error {
	if video.VideoId == 0 {
		video.VideoId = utils.GenerateID()
	}
	return DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(video).Error; err != nil {
			return errors.Wrapf(err, "CreateVideo failed,err:%v", err)
		}
		res := tx.Model(&model.User{}).Where("user_id = ?", video.CreatorId).
			Update("videos_count", database.Incr("videos_count"))
		if res.Error != nil {
			return errors.Wrapf(res.Error, "incr videos_count failed, userId: %d", video.CreatorId)
		}
		if res.RowsAffected == 0 {
			return errors.Wrapf(gorm.ErrRecordNotFound, "creator %d not found", video.CreatorId)
		}
		return nil
	})
}

func GetVideo(ctx context.Context, videoId int64) (*model.Video, error) {
	var video model.Video
	if err := DB.WithContext(ctx).Where("video_id = ?", videoId).First(&video).Error; err != nil {
		return nil, errors.Wrapf(err, "GetVideo failed, videoId: %d", videoId)
	}
	return &video, nil
}

// FeedQuery filters the public feed. Zero values mean no filter.
type FeedQuery struct {
	Before    time.Time
	CreatorId int64
	Hashtag   string
	Limit     int
}

// likeEscaper 转义 LIKE 通配符, 转义字符用 '!' 以兼容 MySQL 与 SQLite
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// Feedlist 公开视频, 按创建时间倒序
func Feedlist(ctx context.Context, q FeedQuery) ([]*model.Video, error) {
	videos := make([]*model.Video, 0, q.Limit)
	db := DB.WithContext(ctx).Where("is_public = ?", true)
	if !q.Before.IsZero() {
		db = db.Where("created_at < ?", q.Before)
	}
	if q.CreatorId != 0 {
		db = db.Where("creator_id = ?", q.CreatorId)
	}
	if q.Hashtag != "" {
		// hashtags 以 JSON 数组存储, 元素带引号匹配可避免前缀误中
		db = db.Where("hashtags LIKE ? ESCAPE '!'", `%"`+likeEscaper.Replace(q.Hashtag)+`"%`)
	}
	if err := db.Order("created_at DESC").Order("video_id DESC").Limit(q.Limit).Find(&videos).Error; err != nil {
		return nil, errors.Wrapf(err, "Feedlist failed,err:%v", err)
	}
	return videos, nil
}

// IncrViewCount returns false when the video does not exist.
func IncrViewCount(ctx context.Context, videoId int64) (bool, error) {
	res := DB.WithContext(ctx).Model(&model.Video{}).Where("video_id = ?", videoId).
		UpdateColumn("views_count", database.Incr("views_count"))
	if res.Error != nil {
		return false, errors.Wrapf(res.Error, "IncrViewCount failed, videoId: %d", videoId)
	}
	return res.RowsAffected > 0, nil
}
