package websocket

import (
	"github.com/cloudwego/hertz/pkg/route"

	"reelhub.com/cmd/api/handlers/notify"
	"reelhub.com/cmd/api/router/authfunc"
)

// Register 通知推送连接, 令牌通过 query 参数 token 传递
func Register(r *route.Engine, hub *notify.Hub) {
	r.GET("/ws/notifications", append(authfunc.Auth(), hub.Handler)...)
}
