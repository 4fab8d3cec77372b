package service

import (
	"context"

	"reelhub.com/cmd/model"
	"reelhub.com/cmd/relation/dal/db"
	userdb "reelhub.com/cmd/user/dal/db"
	"reelhub.com/pkg/constants"
	"reelhub.com/pkg/errno"
)

type FollowListRequest struct {
	UserId   int64
	PageNum  int64
	PageSize int64
}

func (req *FollowListRequest) normalize() {
	if req.PageNum <= 0 {
		req.PageNum = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = constants.DefaultPageSize
	}
	if req.PageSize > constants.MaxLimit {
		req.PageSize = constants.MaxLimit
	}
}

type FollowListService struct {
	ctx context.Context
}

func NewFollowListService(ctx context.Context) *FollowListService {
	return &FollowListService{ctx: ctx}
}

// FollowerList 粉丝列表
func (s *FollowListService) FollowerList(req *FollowListRequest) ([]*model.UserInfo, error) {
	return s.list(req, db.GetFollowerListPaged)
}

// FollowingList 关注列表
func (s *FollowListService) FollowingList(req *FollowListRequest) ([]*model.UserInfo, error) {
	return s.list(req, db.GetFollowingListPaged)
}

func (s *FollowListService) list(req *FollowListRequest,
	page func(ctx context.Context, userId, pageNum, pageSize int64) ([]int64, error)) ([]*model.UserInfo, error) {
	req.normalize()
	exist, err := userdb.CheckUserExistById(s.ctx, req.UserId)
	if err != nil {
		return nil, err
	}
	if !exist {
		return nil, errno.UserNotExistErr
	}
	ids, err := page(s.ctx, req.UserId, req.PageNum, req.PageSize)
	if err != nil {
		return nil, err
	}
	return userdb.MGetUsersOrdered(s.ctx, ids)
}
