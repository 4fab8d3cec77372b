package service

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"reelhub.com/pkg/errno"
	"reelhub.com/pkg/oss"
)

type UploadAuthService struct {
	ctx context.Context
}

func NewUploadAuthService(ctx context.Context) *UploadAuthService {
	return &UploadAuthService{ctx: ctx}
}

// UploadAuth 为视频和封面各签发一个预签名 PUT 地址
func (s *UploadAuthService) UploadAuth(userId int64, expiry time.Duration) (*oss.UploadGrant, error) {
	grant, err := oss.PresignUpload(s.ctx, userId, expiry)
	if err != nil {
		if errors.Is(err, oss.ErrNotConfigured) {
			return nil, errno.StorageDisabledErr
		}
		return nil, err
	}
	return grant, nil
}
