package model

import "time"

// Follow 关注边 FollowerId -> FollowingId, 同一有序对至多一条
type Follow struct {
	FollowId    int64     `gorm:"column:follow_id;primaryKey;autoIncrement:false" json:"id,string"`
	FollowerId  int64     `gorm:"column:follower_id;not null;uniqueIndex:idx_follower_following" json:"followerId,string"`
	FollowingId int64     `gorm:"column:following_id;not null;uniqueIndex:idx_follower_following;index" json:"followingId,string"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"createdAt"`
}

func (Follow) TableName() string {
	return "follows"
}
