package router

import (
	"github.com/cloudwego/hertz/pkg/route"

	"reelhub.com/cmd/api/handlers/interaction"
	"reelhub.com/cmd/api/handlers/notify"
	"reelhub.com/cmd/api/handlers/relation"
	"reelhub.com/cmd/api/handlers/user"
	"reelhub.com/cmd/api/handlers/video"
	"reelhub.com/cmd/api/router/authfunc"
	"reelhub.com/cmd/api/router/websocket"
	"reelhub.com/pkg/constants"
	"reelhub.com/pkg/jwt"
)

// Register 注册全部路由, jwt 中间件须先初始化
func Register(r *route.Engine, hub *notify.Hub) {
	r.POST("/register", user.Register)
	r.POST("/login", user.Login)
	r.GET("/refresh_token", jwt.AuthMiddleware.RefreshHandler)

	users := r.Group("/users")
	users.GET("/:id", user.GetUserInfo)
	users.GET("/:id/followers", relation.FollowerList)
	users.GET("/:id/following", relation.FollowingList)

	follow := r.Group("/follow")
	follow.POST("", append(authfunc.AuthLimited(constants.FollowResource), relation.Follow)...)
	follow.DELETE("", append(authfunc.AuthLimited(constants.FollowResource), relation.Unfollow)...)
	follow.GET("/check", append(authfunc.Auth(), relation.CheckFollow)...)

	like := r.Group("/like")
	like.POST("", append(authfunc.AuthLimited(constants.LikeResource), interaction.LikeAction)...)
	like.GET("/check", append(authfunc.Auth(), interaction.CheckLike)...)

	comment := r.Group("/comment")
	comment.GET("", append(authfunc.Optional(), interaction.CommentList)...)
	comment.POST("", append(authfunc.AuthLimited(constants.CommentResource), interaction.CreateComment)...)

	videos := r.Group("/videos")
	videos.GET("", video.FeedList)
	videos.POST("", append(authfunc.Auth(), video.PublishVideo)...)
	videos.GET("/:id", append(authfunc.Optional(), video.GetVideo)...)
	videos.POST("/:id/view", video.VisitVideo)

	r.GET("/upload/auth", append(authfunc.Auth(), video.UploadAuth)...)

	websocket.Register(r, hub)
}
