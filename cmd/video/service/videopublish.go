package service

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"reelhub.com/cmd/model"
	"reelhub.com/cmd/video/dal/db"
	"reelhub.com/pkg/errno"
)

type PublishVideoRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	VideoUrl      string   `json:"videoUrl"`
	ThumbnailUrl  string   `json:"thumbnailUrl"`
	Hashtags      []string `json:"hashtags"`
	IsPublic      *bool    `json:"isPublic"`
	AllowComments *bool    `json:"allowComments"`
	Controls      *bool    `json:"controls"`
}

type PublishVideoService struct {
	ctx context.Context
}

func NewPublishVideoService(ctx context.Context) *PublishVideoService {
	return &PublishVideoService{ctx: ctx}
}

// Publish 上传完成后登记视频, 作者视频数同一事务加一
func (s *PublishVideoService) Publish(userId int64, req *PublishVideoRequest) (*model.Video, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" || req.VideoUrl == "" || req.ThumbnailUrl == "" {
		return nil, errno.ParamErr.WithMessage("Missing required fields")
	}
	video := &model.Video{
		CreatorId:     userId,
		Title:         title,
		Description:   strings.TrimSpace(req.Description),
		VideoUrl:      req.VideoUrl,
		ThumbnailUrl:  req.ThumbnailUrl,
		Hashtags:      NormalizeHashtags(req.Hashtags),
		IsPublic:      boolOr(req.IsPublic, true),
		AllowComments: boolOr(req.AllowComments, true),
		Controls:      boolOr(req.Controls, true),
	}
	if err := db.CreateVideo(s.ctx, video); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errno.UserNotExistErr
		}
		return nil, err
	}
	if err := attachCreators(s.ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

// NormalizeHashtags 小写, 去掉前导 #, 去重并保持首次出现的顺序
func NormalizeHashtags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = normalizeHashtag(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func normalizeHashtag(tag string) string {
	return strings.ToLower(strings.TrimLeft(strings.TrimSpace(tag), "#"))
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
