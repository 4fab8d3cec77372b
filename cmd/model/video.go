package model

import "time"

type Video struct {
	VideoId       int64     `gorm:"column:video_id;primaryKey;autoIncrement:false" json:"id,string"`
	CreatorId     int64     `gorm:"column:creator_id;index;not null" json:"creatorId,string"`
	Title         string    `gorm:"column:title;type:varchar(100);not null" json:"title"`
	Description   string    `gorm:"column:description;type:varchar(1000);not null" json:"description"`
	VideoUrl      string    `gorm:"column:video_url;type:varchar(512);not null" json:"videoUrl"`
	ThumbnailUrl  string    `gorm:"column:thumbnail_url;type:varchar(512);not null" json:"thumbnailUrl"`
	Hashtags      []string  `gorm:"column:hashtags;serializer:json" json:"hashtags"`
	IsPublic      bool      `gorm:"column:is_public;not null" json:"isPublic"`
	AllowComments bool      `gorm:"column:allow_comments;not null" json:"allowComments"`
	Controls      bool      `gorm:"column:controls;not null" json:"controls"`
	LikesCount    int64     `gorm:"column:likes_count;not null;default:0" json:"likesCount"`
	CommentsCount int64     `gorm:"column:comments_count;not null;default:0" json:"commentsCount"`
	ViewsCount    int64     `gorm:"column:views_count;not null;default:0" json:"viewsCount"`
	CreatedAt     time.Time `gorm:"column:created_at;index" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updatedAt"`

	Creator *UserInfo `gorm:"-" json:"creator,omitempty"`
}

func (Video) TableName() string {
	return "videos"
}
