package jwt

import (
	"context"
	"strconv"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	hzutils "github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	hertzjwt "github.com/hertz-contrib/jwt"
	"github.com/pkg/errors"

	"reelhub.com/pkg/constants"
	"reelhub.com/pkg/errno"
	"reelhub.com/pkg/utils"
)

var AuthMiddleware *hertzjwt.HertzJWTMiddleware

// Options 会话令牌配置
type Options struct {
	Secret     string
	Realm      string
	Timeout    time.Duration
	MaxRefresh time.Duration
}

// Init 初始化会话中间件. 身份声明以字符串保存用户ID, 避免雪花ID在JSON数字中丢失精度.
func Init(opts Options) error {
	if opts.Secret == "" {
		return errors.New("jwt secret is empty")
	}
	mw, err := hertzjwt.New(&hertzjwt.HertzJWTMiddleware{
		Realm:         opts.Realm,
		Key:           []byte(opts.Secret),
		Timeout:       opts.Timeout,
		MaxRefresh:    opts.MaxRefresh,
		IdentityKey:   constants.IdentityKey,
		TokenLookup:   "header: Authorization, query: token, cookie: jwt",
		TokenHeadName: "Bearer",
		TimeFunc:      time.Now,
		PayloadFunc: func(data interface{}) hertzjwt.MapClaims {
			if userId, ok := data.(int64); ok {
				return hertzjwt.MapClaims{
					constants.IdentityKey: strconv.FormatInt(userId, 10),
				}
			}
			return hertzjwt.MapClaims{}
		},
		IdentityHandler: func(ctx context.Context, c *app.RequestContext) interface{} {
			claims := hertzjwt.ExtractClaims(ctx, c)
			userId := utils.Transfer(claims[constants.IdentityKey])
			if userId <= 0 {
				return nil
			}
			return userId
		},
		Authorizator: func(data interface{}, ctx context.Context, c *app.RequestContext) bool {
			_, ok := data.(int64)
			return ok
		},
		// 不向客户端暴露鉴权失败的具体原因
		Unauthorized: func(ctx context.Context, c *app.RequestContext, code int, message string) {
			hlog.CtxDebugf(ctx, "unauthorized request %s: %s", c.Request.URI().Path(), message)
			c.AbortWithStatusJSON(consts.StatusUnauthorized, hzutils.H{
				"success": false,
				"error":   errno.AuthorizationFailedErr.ErrMsg,
			})
		},
		RefreshResponse: func(ctx context.Context, c *app.RequestContext, code int, token string, expire time.Time) {
			c.JSON(consts.StatusOK, hzutils.H{
				"success": true,
				"token":   token,
				"expire":  expire.Format(time.RFC3339),
			})
		},
	})
	if err != nil {
		return errors.Wrap(err, "init jwt middleware failed")
	}
	AuthMiddleware = mw
	return nil
}

// GenerateToken issues a session token for userId.
func GenerateToken(userId int64) (string, time.Time, error) {
	if AuthMiddleware == nil {
		return "", time.Time{}, errors.New("jwt middleware not initialized")
	}
	return AuthMiddleware.TokenGenerator(userId)
}

// CurrentUserId returns the caller resolved by the middleware.
func CurrentUserId(c *app.RequestContext) (int64, error) {
	v, ok := c.Get(constants.IdentityKey)
	if !ok {
		return 0, errno.AuthorizationFailedErr
	}
	userId, ok := v.(int64)
	if !ok || userId <= 0 {
		return 0, errno.AuthorizationFailedErr
	}
	return userId, nil
}

// OptionalAuth resolves the caller when a valid token is present and never rejects.
func OptionalAuth() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		if AuthMiddleware != nil {
			if claims, err := AuthMiddleware.GetClaimsFromJWT(ctx, c); err == nil {
				c.Set("JWT_PAYLOAD", claims)
				if identity := AuthMiddleware.IdentityHandler(ctx, c); identity != nil {
					c.Set(AuthMiddleware.IdentityKey, identity)
				}
			}
		}
		c.Next(ctx)
	}
}
