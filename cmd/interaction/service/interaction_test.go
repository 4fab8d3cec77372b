package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"reelhub.com/cmd/interaction/dal/db"
	"reelhub.com/cmd/interaction/infras/redis"
	"reelhub.com/cmd/model"
	userdb "reelhub.com/cmd/user/dal/db"
	videodb "reelhub.com/cmd/video/dal/db"
	"reelhub.com/pkg/cache"
	"reelhub.com/pkg/errno"
	"reelhub.com/pkg/mq"
	"reelhub.com/pkg/testutil"
)

type recorder struct {
	sync.Mutex
	events []*mq.NotificationEvent
}

func (r *recorder) HandleNotificationEvent(_ context.Context, e *mq.NotificationEvent) error {
	r.Lock()
	defer r.Unlock()
	r.events = append(r.events, e)
	return nil
}

type fixture struct {
	ctx   context.Context
	gdb   *gorm.DB
	rec   *recorder
	alice *model.User
	bob   *model.User
	video *model.Video // 属于 bob
}

func setup(t *testing.T) *fixture {
	gdb := testutil.NewDB(t)
	db.Init(gdb)
	userdb.Init(gdb)
	videodb.Init(gdb)
	rec := &recorder{}
	prev := mq.SetProducer(mq.NewLocalProducer(rec))
	t.Cleanup(func() { mq.SetProducer(prev) })

	f := &fixture{ctx: context.Background(), gdb: gdb, rec: rec}
	f.alice = f.newUser(t, "alice")
	f.bob = f.newUser(t, "bobby")
	f.video = f.newVideo(t, f.bob.UserId, true)
	return f
}

func (f *fixture) newUser(t *testing.T, name string) *model.User {
	u := &model.User{Email: name + "@x.com", UserName: name, Password: "x", DisplayName: strings.ToUpper(name), IsActive: true}
	require.NoError(t, userdb.CreateUser(f.ctx, u))
	return u
}

func (f *fixture) newVideo(t *testing.T, creator int64, allowComments bool) *model.Video {
	v := &model.Video{CreatorId: creator, Title: "t", VideoUrl: "v", ThumbnailUrl: "p", IsPublic: true, AllowComments: allowComments}
	require.NoError(t, videodb.CreateVideo(f.ctx, v))
	return v
}

func (f *fixture) videoLikes(t *testing.T, id int64) int64 {
	v, err := videodb.GetVideo(f.ctx, id)
	require.NoError(t, err)
	return v.LikesCount
}

func TestVideoLikeToggle(t *testing.T) {
	f := setup(t)
	svc := NewLikeActionService(f.ctx)
	target := model.VideoTarget(f.video.VideoId)

	liked, err := svc.LikeAction(f.alice.UserId, target)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.EqualValues(t, 1, f.videoLikes(t, f.video.VideoId))

	ok, err := svc.IsLiked(f.alice.UserId, target)
	require.NoError(t, err)
	assert.True(t, ok)

	liked, err = svc.LikeAction(f.alice.UserId, target)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Zero(t, f.videoLikes(t, f.video.VideoId))

	// 重复切换奇数次后为已点赞
	for i := 0; i < 3; i++ {
		liked, err = svc.LikeAction(f.alice.UserId, target)
		require.NoError(t, err)
	}
	assert.True(t, liked)
	assert.EqualValues(t, 1, f.videoLikes(t, f.video.VideoId))
	n, err := db.CountLikes(f.ctx, target)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	// 只有创建方向发通知: like, like, like
	require.Len(t, f.rec.events, 3)
	assert.Equal(t, mq.NotificationLike, f.rec.events[0].Type)
	assert.Equal(t, f.bob.UserId, f.rec.events[0].ReceiverID)
	assert.Equal(t, "video", f.rec.events[0].TargetType)
}

func TestCommentLikeDoesNotTouchVideo(t *testing.T) {
	f := setup(t)
	comment, err := NewCommentService(f.ctx).CreateComment(f.bob.UserId, &CreateCommentRequest{VideoId: f.video.VideoId, Content: "first"})
	require.NoError(t, err)

	liked, err := NewLikeActionService(f.ctx).LikeAction(f.alice.UserId, model.CommentTarget(comment.CommentId))
	require.NoError(t, err)
	assert.True(t, liked)

	c, err := db.GetComment(f.ctx, comment.CommentId)
	require.NoError(t, err)
	assert.EqualValues(t, 1, c.LikesCount)
	assert.Zero(t, f.videoLikes(t, f.video.VideoId))

	// 对视频点赞与对评论点赞互不影响
	ok, err := NewLikeActionService(f.ctx).IsLiked(f.alice.UserId, model.VideoTarget(f.video.VideoId))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLikeRejections(t *testing.T) {
	f := setup(t)
	svc := NewLikeActionService(f.ctx)

	_, err := svc.LikeAction(f.alice.UserId, model.LikeTarget{})
	assert.Equal(t, errno.InvalidLikeTargetErr, err)
	_, err = model.ParseLikeTarget(f.video.VideoId, 7)
	assert.Equal(t, errno.InvalidLikeTargetErr, err)
	_, err = model.ParseLikeTarget(0, 0)
	assert.Equal(t, errno.InvalidLikeTargetErr, err)

	_, err = svc.LikeAction(f.alice.UserId, model.VideoTarget(424242))
	assert.Equal(t, errno.VideoNotExistErr, err)
	_, err = svc.LikeAction(f.alice.UserId, model.CommentTarget(424242))
	assert.Equal(t, errno.CommentNotExistErr, err)
	_, err = svc.IsLiked(f.alice.UserId, model.CommentTarget(424242))
	assert.Equal(t, errno.CommentNotExistErr, err)

	assert.Zero(t, f.videoLikes(t, f.video.VideoId))
	assert.Empty(t, f.rec.events)
}

func TestSelfLikeSendsNoNotification(t *testing.T) {
	f := setup(t)
	liked, err := NewLikeActionService(f.ctx).LikeAction(f.bob.UserId, model.VideoTarget(f.video.VideoId))
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Empty(t, f.rec.events)
}

func TestConcurrentLikeTogglesStayConsistent(t *testing.T) {
	f := setup(t)
	target := model.VideoTarget(f.video.VideoId)

	const n = 8
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := NewLikeActionService(f.ctx).LikeAction(f.alice.UserId, target)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	edges, err := db.CountLikes(f.ctx, target)
	require.NoError(t, err)
	assert.Equal(t, edges, f.videoLikes(t, f.video.VideoId))
}

func TestCreateComment(t *testing.T) {
	f := setup(t)
	svc := NewCommentService(f.ctx)

	comment, err := svc.CreateComment(f.alice.UserId, &CreateCommentRequest{VideoId: f.video.VideoId, Content: "  nice clip  "})
	require.NoError(t, err)
	assert.Equal(t, "nice clip", comment.Content)
	require.NotNil(t, comment.Author)
	assert.Equal(t, "alice", comment.Author.UserName)
	assert.Equal(t, "ALICE", comment.Author.DisplayName)

	v, err := videodb.GetVideo(f.ctx, f.video.VideoId)
	require.NoError(t, err)
	assert.EqualValues(t, 1, v.CommentsCount)

	require.Len(t, f.rec.events, 1)
	assert.Equal(t, mq.NotificationComment, f.rec.events[0].Type)
	assert.Equal(t, f.bob.UserId, f.rec.events[0].ReceiverID)
	assert.Equal(t, comment.CommentId, f.rec.events[0].CommentID)
}

func TestCreateCommentRejections(t *testing.T) {
	f := setup(t)
	svc := NewCommentService(f.ctx)
	closed := f.newVideo(t, f.bob.UserId, false)

	tests := []struct {
		name   string
		userId int64
		req    CreateCommentRequest
		code   int64
		msg    string
	}{
		{"blank content", f.alice.UserId, CreateCommentRequest{VideoId: f.video.VideoId, Content: "   "}, errno.ParamErrCode, "Missing content or videoId"},
		{"missing video id", f.alice.UserId, CreateCommentRequest{Content: "hi"}, errno.ParamErrCode, "Missing content or videoId"},
		{"too long", f.alice.UserId, CreateCommentRequest{VideoId: f.video.VideoId, Content: strings.Repeat("字", 201)}, errno.ParamErrCode, "Comment must be at most 200 characters"},
		{"unknown author", 424242, CreateCommentRequest{VideoId: f.video.VideoId, Content: "hi"}, errno.NotFoundErrCode, "User not found"},
		{"unknown video", f.alice.UserId, CreateCommentRequest{VideoId: 424242, Content: "hi"}, errno.NotFoundErrCode, "Video not found"},
		{"comments disabled", f.alice.UserId, CreateCommentRequest{VideoId: closed.VideoId, Content: "hi"}, errno.ConflictErrCode, "Comments are disabled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := svc.CreateComment(tt.userId, &req)
			e := errno.ConvertErr(err)
			assert.Equal(t, tt.code, e.ErrCode)
			assert.Equal(t, tt.msg, e.ErrMsg)
		})
	}

	v, err := videodb.GetVideo(f.ctx, f.video.VideoId)
	require.NoError(t, err)
	assert.Zero(t, v.CommentsCount)
}

func TestListCommentsNewestFirstAndBounded(t *testing.T) {
	f := setup(t)
	svc := NewCommentService(f.ctx)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 55; i++ {
		c := &model.Comment{VideoId: f.video.VideoId, AuthorId: f.alice.UserId, Content: fmt.Sprintf("c%02d", i)}
		require.NoError(t, db.CreateComment(f.ctx, c))
		require.NoError(t, f.gdb.Model(c).UpdateColumn("created_at", base.Add(time.Duration(i)*time.Second)).Error)
	}

	comments, err := svc.ListComments(0, f.video.VideoId)
	require.NoError(t, err)
	require.Len(t, comments, 50)
	assert.Equal(t, "c54", comments[0].Content)
	assert.Equal(t, "c05", comments[49].Content)
	for i := 1; i < len(comments); i++ {
		assert.False(t, comments[i].CreatedAt.After(comments[i-1].CreatedAt))
	}
	require.NotNil(t, comments[0].Author)
	assert.Equal(t, "alice", comments[0].Author.UserName)

	_, err = svc.ListComments(0, 0)
	assert.Equal(t, "Missing videoId", errno.ConvertErr(err).ErrMsg)
}

func TestCounterSyncRepairsDrift(t *testing.T) {
	f := setup(t)
	_, err := NewLikeActionService(f.ctx).LikeAction(f.alice.UserId, model.VideoTarget(f.video.VideoId))
	require.NoError(t, err)

	// 绕过服务直接写坏计数
	require.NoError(t, f.gdb.Model(&model.Video{}).Where("video_id = ?", f.video.VideoId).
		UpdateColumn("likes_count", 7).Error)
	require.NoError(t, f.gdb.Model(&model.User{}).Where("user_id = ?", f.bob.UserId).
		UpdateColumn("videos_count", 0).Error)

	cs := NewCounterSync(time.Minute)
	fixed, err := cs.RunOnce(f.ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, fixed)
	assert.EqualValues(t, 1, f.videoLikes(t, f.video.VideoId))
	bob, err := userdb.GetUser(f.ctx, f.bob.UserId)
	require.NoError(t, err)
	assert.EqualValues(t, 1, bob.VideosCount)

	fixed, err = cs.RunOnce(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, fixed)
}

func TestCounterSyncStartStop(t *testing.T) {
	setup(t)
	cs := NewCounterSync(10 * time.Millisecond)
	require.NoError(t, cs.Start(context.Background()))
	assert.Error(t, cs.Start(context.Background()))
	time.Sleep(30 * time.Millisecond)
	cs.Stop()
	cs.Stop()

	assert.Error(t, NewCounterSync(0).Start(context.Background()))
}

func TestPrivateVideoHiddenFromNonOwner(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.gdb.Model(&model.Video{}).Where("video_id = ?", f.video.VideoId).
		UpdateColumn("is_public", false).Error)
	comments := NewCommentService(f.ctx)
	likes := NewLikeActionService(f.ctx)

	own, err := comments.CreateComment(f.bob.UserId, &CreateCommentRequest{VideoId: f.video.VideoId, Content: "draft"})
	require.NoError(t, err)

	_, err = likes.LikeAction(f.alice.UserId, model.VideoTarget(f.video.VideoId))
	assert.Equal(t, errno.VideoNotExistErr, err)
	_, err = likes.LikeAction(f.alice.UserId, model.CommentTarget(own.CommentId))
	assert.Equal(t, errno.CommentNotExistErr, err)
	_, err = likes.IsLiked(f.alice.UserId, model.VideoTarget(f.video.VideoId))
	assert.Equal(t, errno.VideoNotExistErr, err)
	_, err = comments.CreateComment(f.alice.UserId, &CreateCommentRequest{VideoId: f.video.VideoId, Content: "hi"})
	assert.Equal(t, errno.VideoNotExistErr, err)

	for _, viewer := range []int64{0, f.alice.UserId} {
		list, err := comments.ListComments(viewer, f.video.VideoId)
		require.NoError(t, err)
		assert.Empty(t, list)
	}
	list, err := comments.ListComments(f.bob.UserId, f.video.VideoId)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, own.CommentId, list[0].CommentId)

	assert.Zero(t, f.videoLikes(t, f.video.VideoId))
	edges, err := db.CountLikes(f.ctx, model.VideoTarget(f.video.VideoId))
	require.NoError(t, err)
	assert.Zero(t, edges)
	assert.Empty(t, f.rec.events)

	liked, err := likes.LikeAction(f.bob.UserId, model.VideoTarget(f.video.VideoId))
	require.NoError(t, err)
	assert.True(t, liked)
}

func useMemCache(t *testing.T) *testutil.MemRedis {
	mem := testutil.NewMemRedis()
	prev := redis.CommentCache
	redis.CommentCache = cache.NewCommentCacheManager(mem, time.Minute)
	t.Cleanup(func() { redis.CommentCache = prev })
	return mem
}

func TestListCommentsDropsStaleCacheWrite(t *testing.T) {
	t.Run("comment created during reload", func(t *testing.T) {
		f := setup(t)
		mem := useMemCache(t)
		svc := NewCommentService(f.ctx)

		var late *model.Comment
		mem.OnEval(func() {
			var err error
			late, err = svc.CreateComment(f.alice.UserId, &CreateCommentRequest{VideoId: f.video.VideoId, Content: "late"})
			require.NoError(t, err)
		})
		list, err := svc.ListComments(0, f.video.VideoId)
		require.NoError(t, err)
		assert.Empty(t, list)

		list, err = svc.ListComments(0, f.video.VideoId)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, late.CommentId, list[0].CommentId)

		cached, err := redis.CommentCache.GetLatest(f.ctx, f.video.VideoId)
		require.NoError(t, err)
		assert.Len(t, cached, 1)
	})

	t.Run("comment liked during reload", func(t *testing.T) {
		f := setup(t)
		mem := useMemCache(t)
		svc := NewCommentService(f.ctx)
		c, err := svc.CreateComment(f.alice.UserId, &CreateCommentRequest{VideoId: f.video.VideoId, Content: "hi"})
		require.NoError(t, err)

		mem.OnEval(func() {
			_, err := NewLikeActionService(f.ctx).LikeAction(f.bob.UserId, model.CommentTarget(c.CommentId))
			require.NoError(t, err)
		})
		list, err := svc.ListComments(0, f.video.VideoId)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Zero(t, list[0].LikesCount)

		list, err = svc.ListComments(0, f.video.VideoId)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.EqualValues(t, 1, list[0].LikesCount)
	})
}
