package db

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"reelhub.com/cmd/model"
	"reelhub.com/pkg/utils"
)

// ErrDuplicate is returned by CreateUser when email or username hit a unique index.
var ErrDuplicate = errors.New("user already exists")

func CreateUser(ctx context.Context, user *model.User) error {
	if user.UserId == 0 {
		user.UserId = utils.GenerateID()
	}
	if err := DB.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return errors.Wrapf(err, "CreateUser failed,err: %v", err)
	}
	return nil
}

// CheckEmailExists 检查邮箱是否存在
func CheckEmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := DB.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, errors.Wrapf(err, "CheckEmailExists failed,err:%v", err)
	}
	return count > 0, nil
}

func CheckUsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := DB.WithContext(ctx).Model(&model.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, errors.Wrapf(err, "CheckUsernameExists failed,err:%v", err)
	}
	return count > 0, nil
}

func CheckUserExistById(ctx context.Context, userId int64) (bool, error) {
	var count int64
	if err := DB.WithContext(ctx).Model(&model.User{}).Where("user_id = ?", userId).Count(&count).Error; err != nil {
		return false, errors.Wrapf(err, "CheckUserExistById failed,err:%v", err)
	}
	return count > 0, nil
}

// GetUser returns gorm.ErrRecordNotFound (wrapped) when the id is unknown.
func GetUser(ctx context.Context, userId int64) (*model.User, error) {
	var user model.User
	if err := DB.WithContext(ctx).Where("user_id = ?", userId).First(&user).Error; err != nil {
		return nil, errors.Wrapf(err, "GetUser failed, userId: %d", userId)
	}
	return &user, nil
}

// GetUserByEmail 根据邮箱获取用户信息, 包含密码哈希
func GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, errors.Wrapf(err, "GetUserByEmail failed,err:%v", err)
	}
	return &user, nil
}

// MGetUserInfo loads author projections keyed by user id. Unknown ids are skipped.
func MGetUserInfo(ctx context.Context, userIds []int64) (map[int64]*model.UserInfo, error) {
	res := make(map[int64]*model.UserInfo, len(userIds))
	if len(userIds) == 0 {
		return res, nil
	}
	var users []*model.User
	if err := DB.WithContext(ctx).
		Select("user_id", "username", "display_name", "profile_picture").
		Where("user_id IN ?", RemoveDuplicate(userIds)).
		Find(&users).Error; err != nil {
		return nil, errors.Wrapf(err, "MGetUserInfo failed,err:%v", err)
	}
	for _, u := range users {
		res[u.UserId] = u.Info()
	}
	return res, nil
}

// MGetUsersOrdered keeps the order of userIds, which callers use for paged lists.
func MGetUsersOrdered(ctx context.Context, userIds []int64) ([]*model.UserInfo, error) {
	infos, err := MGetUserInfo(ctx, userIds)
	if err != nil {
		return nil, err
	}
	res := make([]*model.UserInfo, 0, len(userIds))
	for _, id := range userIds {
		if u, ok := infos[id]; ok {
			res = append(res, u)
		}
	}
	return res, nil
}

func RemoveDuplicate(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	res := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		res = append(res, id)
	}
	return res
}
