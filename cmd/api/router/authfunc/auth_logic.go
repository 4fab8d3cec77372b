package authfunc

import (
	"github.com/cloudwego/hertz/pkg/app"

	"reelhub.com/pkg/jwt"
	"reelhub.com/pkg/middleware"
)

// Auth 必须登录
func Auth() []app.HandlerFunc {
	return append(make([]app.HandlerFunc, 0),
		jwt.AuthMiddleware.MiddlewareFunc(),
	)
}

// AuthLimited 登录校验之后再做限流, 未登录请求不占用配额
func AuthLimited(resource string) []app.HandlerFunc {
	return append(Auth(), middleware.FlowControl(resource))
}

// Optional 有合法令牌时解析身份, 否则按匿名访问
func Optional() []app.HandlerFunc {
	return []app.HandlerFunc{jwt.OptionalAuth()}
}
