package service

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"reelhub.com/cmd/model"
	"reelhub.com/cmd/video/dal/db"
	"reelhub.com/pkg/errno"
)

type VideoInfoService struct {
	ctx context.Context
}

func NewVideoInfoService(ctx context.Context) *VideoInfoService {
	return &VideoInfoService{ctx: ctx}
}

// GetVideo viewerId 为 0 表示匿名访问; 私有视频只对作者可见
func (s *VideoInfoService) GetVideo(videoId, viewerId int64) (*model.Video, error) {
	video, err := db.GetVideo(s.ctx, videoId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errno.VideoNotExistErr
		}
		return nil, err
	}
	if !video.IsPublic && video.CreatorId != viewerId {
		return nil, errno.VideoNotExistErr
	}
	if err := attachCreators(s.ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

func (s *VideoInfoService) View(videoId int64) error {
	ok, err := db.IncrViewCount(s.ctx, videoId)
	if err != nil {
		return err
	}
	if !ok {
		return errno.VideoNotExistErr
	}
	return nil
}
