package service

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"reelhub.com/cmd/model"
	"reelhub.com/cmd/user/dal/db"
	"reelhub.com/pkg/errno"
)

type GetUserInfoService struct {
	ctx context.Context
}

func NewGetUserInfoService(ctx context.Context) *GetUserInfoService {
	return &GetUserInfoService{ctx: ctx}
}

func (s *GetUserInfoService) GetUserInfo(userId int64) (*model.UserProfile, error) {
	user, err := db.GetUser(s.ctx, userId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errno.UserNotExistErr
		}
		return nil, err
	}
	return user.Profile(), nil
}
