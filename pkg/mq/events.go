package mq

import (
	"time"

	"github.com/google/uuid"
)

// 通知类型
const (
	NotificationFollow  = "follow"
	NotificationLike    = "like"
	NotificationComment = "comment"
)

const (
	NotificationEventExchange = "notification_events"
)

// NotificationEvent 通知事件, 由关注/点赞/评论成功后发布
type NotificationEvent struct {
	EventID    string `json:"event_id"`
	Type       string `json:"type"`
	ReceiverID int64  `json:"receiver_id,string"`
	SenderID   int64  `json:"sender_id,string"`
	VideoID    int64  `json:"video_id,string,omitempty"`
	CommentID  int64  `json:"comment_id,string,omitempty"`
	TargetType string `json:"target_type,omitempty"`
	Content    string `json:"content,omitempty"`
	Timestamp  int64  `json:"timestamp"`
}

// NewNotificationEvent fills the event id and timestamp.
func NewNotificationEvent(typ string, sender, receiver int64) *NotificationEvent {
	return &NotificationEvent{
		EventID:    uuid.New().String(),
		Type:       typ,
		SenderID:   sender,
		ReceiverID: receiver,
		Timestamp:  time.Now().UnixMilli(),
	}
}
