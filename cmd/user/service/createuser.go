package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"

	"reelhub.com/cmd/model"
	"reelhub.com/cmd/user/dal/db"
	"reelhub.com/pkg/constants"
	"reelhub.com/pkg/errno"
	"reelhub.com/pkg/utils"
)

type CreateUserRequest struct {
	Email    string `json:"email"`
	UserName string `json:"username"`
	Password string `json:"password"`
}

type CreateUserService struct {
	ctx context.Context
}

func NewCreateUserService(ctx context.Context) *CreateUserService {
	return &CreateUserService{ctx: ctx}
}

// Normalize 邮箱与用户名统一去空格并转小写
func (req *CreateUserRequest) Normalize() {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.UserName = strings.ToLower(strings.TrimSpace(req.UserName))
}

func (req *CreateUserRequest) Validate() error {
	if req.Email == "" || req.UserName == "" || req.Password == "" {
		return errno.ParamErr.WithMessage("Email, username and password are required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return errno.ParamErr.WithMessage("Invalid email")
	}
	if n := utf8.RuneCountInString(req.UserName); n < constants.MinUsernameLen || n > constants.MaxUsernameLen {
		return errno.ParamErr.WithMessage(fmt.Sprintf("Username must be between %d and %d characters",
			constants.MinUsernameLen, constants.MaxUsernameLen))
	}
	if utf8.RuneCountInString(req.Password) < constants.MinPasswordLen {
		return errno.ParamErr.WithMessage(fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLen))
	}
	return nil
}

// CreateUser registers a new identity and returns it. Duplicate email and
// duplicate username are reported separately.
func (v *CreateUserService) CreateUser(req *CreateUserRequest) (*model.User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if exist, err := db.CheckEmailExists(v.ctx, req.Email); err != nil {
		return nil, err
	} else if exist {
		return nil, errno.EmailRegisteredErr
	}
	if exist, err := db.CheckUsernameExists(v.ctx, req.UserName); err != nil {
		return nil, err
	} else if exist {
		return nil, errno.UsernameTakenErr
	}

	passWord, err := utils.Crypt(req.Password)
	if err != nil {
		return nil, errors.WithMessage(err, "Password fail to crypt")
	}
	user := &model.User{
		Email:       req.Email,
		UserName:    req.UserName,
		Password:    passWord,
		DisplayName: req.UserName,
		IsActive:    true,
	}
	if err = db.CreateUser(v.ctx, user); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			// 并发注册, 再查一次区分是邮箱还是用户名冲突
			if exist, _ := db.CheckEmailExists(v.ctx, req.Email); exist {
				return nil, errno.EmailRegisteredErr
			}
			return nil, errno.UsernameTakenErr
		}
		return nil, errors.WithMessage(err, "dao.CreateUser failed")
	}
	hlog.CtxInfof(v.ctx, "user registered, userId=%d username=%s", user.UserId, user.UserName)
	return user, nil
}
