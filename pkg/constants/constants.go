package constants

import "time"

const (
	IdentityKey = "user_id"

	CommentPageSize = 50
	MaxCommentLen   = 200

	DefaultLimit    = 20
	MaxLimit        = 50
	DefaultPageSize = 20

	MinUsernameLen = 5
	MaxUsernameLen = 20
	MinPasswordLen = 6
	MaxDisplayName = 50

	CommentCacheExpire = 10 * time.Minute
	ToggleLockExpiry   = 5 * time.Second

	// sentinel resource names
	FollowResource  = "follow"
	LikeResource    = "like"
	CommentResource = "comment"
)
