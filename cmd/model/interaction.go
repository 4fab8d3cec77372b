package model

import (
	"fmt"
	"time"

	"reelhub.com/pkg/errno"
)

type Comment struct {
	CommentId  int64     `gorm:"column:comment_id;primaryKey;autoIncrement:false" json:"id,string"`
	VideoId    int64     `gorm:"column:video_id;not null;index:idx_video_created,priority:1" json:"videoId,string"`
	AuthorId   int64     `gorm:"column:author_id;not null;index" json:"-"`
	Content    string    `gorm:"column:content;type:varchar(200);not null" json:"content"`
	LikesCount int64     `gorm:"column:likes_count;not null;default:0" json:"likesCount"`
	CreatedAt  time.Time `gorm:"column:created_at;index:idx_video_created,priority:2,sort:desc" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updatedAt"`

	Author *UserInfo `gorm:"-" json:"author,omitempty"`
}

func (Comment) TableName() string {
	return "comments"
}

// TargetKind discriminates what a like points at.
type TargetKind int8

const (
	TargetVideo   TargetKind = 1
	TargetComment TargetKind = 2
)

func (k TargetKind) String() string {
	switch k {
	case TargetVideo:
		return "video"
	case TargetComment:
		return "comment"
	default:
		return fmt.Sprintf("TargetKind(%d)", int8(k))
	}
}

// LikeTarget is exactly one video or exactly one comment.
type LikeTarget struct {
	Kind TargetKind
	ID   int64
}

func VideoTarget(id int64) LikeTarget {
	return LikeTarget{Kind: TargetVideo, ID: id}
}

func CommentTarget(id int64) LikeTarget {
	return LikeTarget{Kind: TargetComment, ID: id}
}

// ParseLikeTarget accepts exactly one non-zero id.
func ParseLikeTarget(videoId, commentId int64) (LikeTarget, error) {
	switch {
	case videoId > 0 && commentId == 0:
		return VideoTarget(videoId), nil
	case commentId > 0 && videoId == 0:
		return CommentTarget(commentId), nil
	default:
		return LikeTarget{}, errno.InvalidLikeTargetErr
	}
}

func (t LikeTarget) Valid() bool {
	return (t.Kind == TargetVideo || t.Kind == TargetComment) && t.ID > 0
}

func (t LikeTarget) String() string {
	return fmt.Sprintf("%s:%d", t.Kind, t.ID)
}

// Like 点赞边, (user_id, target_type, target_id) 唯一
type Like struct {
	LikeId     int64      `gorm:"column:like_id;primaryKey;autoIncrement:false" json:"id,string"`
	UserId     int64      `gorm:"column:user_id;not null;uniqueIndex:idx_user_target,priority:1" json:"userId,string"`
	TargetType TargetKind `gorm:"column:target_type;not null;uniqueIndex:idx_user_target,priority:2;index:idx_target,priority:1" json:"targetType"`
	TargetId   int64      `gorm:"column:target_id;not null;uniqueIndex:idx_user_target,priority:3;index:idx_target,priority:2" json:"targetId,string"`
	CreatedAt  time.Time  `gorm:"column:created_at" json:"createdAt"`
}

func (Like) TableName() string {
	return "likes"
}

func (l *Like) Target() LikeTarget {
	return LikeTarget{Kind: l.TargetType, ID: l.TargetId}
}
