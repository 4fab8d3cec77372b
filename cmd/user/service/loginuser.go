package service

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"reelhub.com/cmd/model"
	"reelhub.com/cmd/user/dal/db"
	"reelhub.com/pkg/errno"
	"reelhub.com/pkg/utils"
)

type LoginUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginUserService struct {
	ctx context.Context
}

func NewLoginUserService(ctx context.Context) *LoginUserService {
	return &LoginUserService{ctx: ctx}
}

// LoginUser 校验邮箱和密码, 任何一项不匹配都返回同一个错误
func (s *LoginUserService) LoginUser(req *LoginUserRequest) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, errno.ParamErr.WithMessage("Email and password are required")
	}
	user, err := db.GetUserByEmail(s.ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errno.InvalidCredentialErr
		}
		return nil, err
	}
	if _, ok := utils.VerifyPassword(req.Password, user.Password); !ok || !user.IsActive {
		return nil, errno.InvalidCredentialErr
	}
	return user, nil
}
