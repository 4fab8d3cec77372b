package service

import (
	"context"

	"reelhub.com/cmd/model"
	userdb "reelhub.com/cmd/user/dal/db"
	"reelhub.com/cmd/video/dal/db"
	"reelhub.com/pkg/constants"
	"reelhub.com/pkg/utils"
)

type FeedListRequest struct {
	Limit     int64
	Before    int64 // unix millis, 0 表示从最新开始
	CreatorId int64
	Hashtag   string
}

type FeedListService struct {
	ctx context.Context
}

func NewFeedListService(ctx context.Context) *FeedListService {
	return &FeedListService{ctx: ctx}
}

// FeedList 视频流接口
func (v *FeedListService) FeedList(req *FeedListRequest) ([]*model.Video, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = constants.DefaultLimit
	}
	if limit > constants.MaxLimit {
		limit = constants.MaxLimit
	}
	videos, err := db.Feedlist(v.ctx, db.FeedQuery{
		Before:    utils.ConvertMillisToTime(req.Before),
		CreatorId: req.CreatorId,
		Hashtag:   normalizeHashtag(req.Hashtag),
		Limit:     int(limit),
	})
	if err != nil {
		return nil, err
	}
	if err := attachCreators(v.ctx, videos...); err != nil {
		return nil, err
	}
	return videos, nil
}

func attachCreators(ctx context.Context, videos ...*model.Video) error {
	ids := make([]int64, 0, len(videos))
	for _, v := range videos {
		ids = append(ids, v.CreatorId)
	}
	creators, err := userdb.MGetUserInfo(ctx, ids)
	if err != nil {
		return err
	}
	for _, v := range videos {
		v.Creator = creators[v.CreatorId]
	}
	return nil
}
