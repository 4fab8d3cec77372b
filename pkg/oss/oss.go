package oss

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// UploadGrant 客户端直传所需的预签名地址
type UploadGrant struct {
	VideoUploadURL     string    `json:"videoUploadUrl"`
	VideoURL           string    `json:"videoUrl"`
	ThumbnailUploadURL string    `json:"thumbnailUploadUrl"`
	ThumbnailURL       string    `json:"thumbnailUrl"`
	Expire             time.Time `json:"expire"`
}

var ErrNotConfigured = errors.New("object storage not configured")

// ObjectKeys builds the video and thumbnail object names for one upload.
func ObjectKeys(userId int64, uploadId string) (video, thumbnail string) {
	prefix := fmt.Sprintf("%d/%s", userId, uploadId)
	return prefix + "/video.mp4", prefix + "/thumbnail.jpg"
}

func publicObjectURL(base, bucket, key string) string {
	return strings.TrimRight(base, "/") + "/" + bucket + "/" + key
}

// PresignUpload 为一次上传签发视频与封面的 PUT 地址
func PresignUpload(ctx context.Context, userId int64, expiry time.Duration) (*UploadGrant, error) {
	if minioClient == nil {
		return nil, ErrNotConfigured
	}
	videoKey, thumbKey := ObjectKeys(userId, uuid.New().String())

	videoPut, err := minioClient.PresignedPutObject(ctx, settings.VideoBucket, videoKey, expiry)
	if err != nil {
		return nil, errors.Wrapf(err, "presign video upload failed, key: %s", videoKey)
	}
	thumbPut, err := minioClient.PresignedPutObject(ctx, settings.ImageBucket, thumbKey, expiry)
	if err != nil {
		return nil, errors.Wrapf(err, "presign thumbnail upload failed, key: %s", thumbKey)
	}

	return &UploadGrant{
		VideoUploadURL:     videoPut.String(),
		VideoURL:           publicObjectURL(settings.PublicURL, settings.VideoBucket, videoKey),
		ThumbnailUploadURL: thumbPut.String(),
		ThumbnailURL:       publicObjectURL(settings.PublicURL, settings.ImageBucket, thumbKey),
		Expire:             time.Now().Add(expiry),
	}, nil
}
