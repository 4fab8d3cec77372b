package model

import "time"

// User 用户表, 三个计数字段是 follows / videos 表的冗余缓存
type User struct {
	UserId         int64     `gorm:"column:user_id;primaryKey;autoIncrement:false" json:"id,string"`
	Email          string    `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	UserName       string    `gorm:"column:username;type:varchar(20);uniqueIndex;not null" json:"username"`
	Password       string    `gorm:"column:password;type:varchar(255);not null" json:"-"`
	DisplayName    string    `gorm:"column:display_name;type:varchar(50)" json:"displayName"`
	Bio            string    `gorm:"column:bio;type:varchar(150)" json:"bio"`
	ProfilePicture string    `gorm:"column:profile_picture;type:varchar(512)" json:"profilePicture"`
	FollowersCount int64     `gorm:"column:followers_count;not null;default:0" json:"followersCount"`
	FollowingCount int64     `gorm:"column:following_count;not null;default:0" json:"followingCount"`
	VideosCount    int64     `gorm:"column:videos_count;not null;default:0" json:"videosCount"`
	IsActive       bool      `gorm:"column:is_active;not null" json:"isActive"`
	IsVerified     bool      `gorm:"column:is_verified;not null" json:"isVerified"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// UserInfo is the minimal author projection embedded in comments, videos and lists.
type UserInfo struct {
	UserId         int64  `json:"id,string"`
	UserName       string `json:"username"`
	DisplayName    string `json:"displayName"`
	ProfilePicture string `json:"profilePicture"`
}

// UserProfile is the public profile view. Email and password never leave the service.
type UserProfile struct {
	UserInfo
	Bio            string    `json:"bio"`
	FollowersCount int64     `json:"followersCount"`
	FollowingCount int64     `json:"followingCount"`
	VideosCount    int64     `json:"videosCount"`
	IsVerified     bool      `json:"isVerified"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (u *User) Info() *UserInfo {
	return &UserInfo{
		UserId:         u.UserId,
		UserName:       u.UserName,
		DisplayName:    u.DisplayName,
		ProfilePicture: u.ProfilePicture,
	}
}

func (u *User) Profile() *UserProfile {
	return &UserProfile{
		UserInfo:       *u.Info(),
		Bio:            u.Bio,
		FollowersCount: u.FollowersCount,
		FollowingCount: u.FollowingCount,
		VideosCount:    u.VideosCount,
		IsVerified:     u.IsVerified,
		CreatedAt:      u.CreatedAt,
	}
}
