package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelhub.com/cmd/api/dal"
	"reelhub.com/cmd/api/handlers/notify"
	"reelhub.com/pkg/jwt"
	"reelhub.com/pkg/testutil"
)

type client struct {
	t *testing.T
	r *route.Engine
}

func newClient(t *testing.T) *client {
	dal.Use(testutil.NewDB(t))
	require.NoError(t, jwt.Init(jwt.Options{Secret: "test-secret", Realm: "test", Timeout: time.Hour, MaxRefresh: time.Hour}))
	r := route.NewEngine(config.NewOptions([]config.Option{}))
	Register(r, notify.NewHub())
	return &client{t: t, r: r}
}

// do sends body as JSON and decodes the envelope.
func (cl *client) do(method, url, token string, body interface{}) (int, map[string]interface{}) {
	headers := []ut.Header{{Key: "Content-Type", Value: "application/json"}}
	if token != "" {
		headers = append(headers, ut.Header{Key: "Authorization", Value: "Bearer " + token})
	}
	var reqBody *ut.Body
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(cl.t, err)
		reqBody = &ut.Body{Body: bytes.NewReader(data), Len: len(data)}
	}
	resp := ut.PerformRequest(cl.r, method, url, reqBody, headers...).Result()
	out := map[string]interface{}{}
	require.NoError(cl.t, json.Unmarshal(resp.Body(), &out), string(resp.Body()))
	return resp.StatusCode(), out
}

// signup registers and logs in, returning the token and user id.
func (cl *client) signup(name string) (string, string) {
	status, body := cl.do(http.MethodPost, "/register", "", map[string]string{
		"email": name + "@x.com", "username": name, "password": "secret1",
	})
	require.Equal(cl.t, http.StatusCreated, status, body)

	status, body = cl.do(http.MethodPost, "/login", "", map[string]string{"email": name + "@x.com", "password": "secret1"})
	require.Equal(cl.t, http.StatusOK, status, body)
	user := body["user"].(map[string]interface{})
	return body["token"].(string), user["id"].(string)
}

func (cl *client) userCounter(id, field string) float64 {
	status, body := cl.do(http.MethodGet, "/users/"+id, "", nil)
	require.Equal(cl.t, http.StatusOK, status, body)
	return body["user"].(map[string]interface{})[field].(float64)
}

func (cl *client) videoCounter(id, field string) float64 {
	status, body := cl.do(http.MethodGet, "/videos/"+id, "", nil)
	require.Equal(cl.t, http.StatusOK, status, body)
	return body["video"].(map[string]interface{})[field].(float64)
}

func (cl *client) publish(token string) string {
	status, body := cl.do(http.MethodPost, "/videos", token, map[string]interface{}{
		"title": "clip", "videoUrl": "http://cdn/v.mp4", "thumbnailUrl": "http://cdn/t.jpg", "hashtags": []string{"#Fun"},
	})
	require.Equal(cl.t, http.StatusCreated, status, body)
	return body["video"].(map[string]interface{})["id"].(string)
}

func TestRegisterAndLogin(t *testing.T) {
	cl := newClient(t)
	status, body := cl.do(http.MethodPost, "/register", "", map[string]string{
		"email": "alice@x.com", "username": "alice", "password": "secret1",
	})
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, map[string]interface{}{"success": true, "message": "Successfully registered"}, body)

	status, body = cl.do(http.MethodPost, "/register", "", map[string]string{
		"email": "alice@x.com", "username": "alice2", "password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Email already registered", body["error"])
	assert.Equal(t, false, body["success"])

	status, body = cl.do(http.MethodPost, "/login", "", map[string]string{"email": "alice@x.com", "password": "wrong!"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid email or password", body["error"])

	status, body = cl.do(http.MethodPost, "/login", "", map[string]string{"email": "alice@x.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["token"])
}

func TestLikeScenario(t *testing.T) {
	cl := newClient(t)
	alice, _ := cl.signup("alice")
	bob, _ := cl.signup("bobby")
	videoId := cl.publish(bob)

	status, body := cl.do(http.MethodPost, "/like", alice, map[string]string{"videoId": videoId})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, true, body["liked"])
	assert.Equal(t, "video liked", body["message"])
	assert.EqualValues(t, 1, cl.videoCounter(videoId, "likesCount"))

	status, body = cl.do(http.MethodGet, "/like/check?videoId="+videoId, alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["isLiked"])

	status, body = cl.do(http.MethodPost, "/like", alice, map[string]string{"videoId": videoId})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["liked"])
	assert.Equal(t, "video unliked", body["message"])
	assert.Zero(t, cl.videoCounter(videoId, "likesCount"))

	status, body = cl.do(http.MethodPost, "/like", alice, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid Request, missing context", body["error"])

	status, _ = cl.do(http.MethodPost, "/like", alice, map[string]string{"videoId": "424242"})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestFollowScenario(t *testing.T) {
	cl := newClient(t)
	alice, aliceId := cl.signup("alice")
	_, bobId := cl.signup("bobby")

	status, body := cl.do(http.MethodPost, "/follow", alice, map[string]string{"followingId": bobId})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "Followed Successfully", body["message"])
	assert.EqualValues(t, 1, cl.userCounter(bobId, "followersCount"))
	assert.EqualValues(t, 1, cl.userCounter(aliceId, "followingCount"))

	status, body = cl.do(http.MethodPost, "/follow", alice, map[string]string{"followingId": bobId})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["isFollowing"])
	assert.EqualValues(t, 1, cl.userCounter(bobId, "followersCount"))

	status, body = cl.do(http.MethodGet, "/follow/check?userId="+bobId, alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["isFollowing"])

	status, body = cl.do(http.MethodGet, "/users/"+bobId+"/followers", "", nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body["users"], 1)

	status, _ = cl.do(http.MethodDelete, "/follow?followingId="+bobId, alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Zero(t, cl.userCounter(bobId, "followersCount"))
	assert.Zero(t, cl.userCounter(aliceId, "followingCount"))

	status, body = cl.do(http.MethodDelete, "/follow?followingId="+bobId, alice, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Not Following", body["error"])

	status, body = cl.do(http.MethodPost, "/follow", alice, map[string]string{"followingId": aliceId})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Cannot follow yourself", body["error"])

	status, body = cl.do(http.MethodPost, "/follow", alice, map[string]string{"followingId": "424242"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "User to follow not found", body["error"])
}

func TestCommentScenario(t *testing.T) {
	cl := newClient(t)
	alice, _ := cl.signup("alice")
	bob, _ := cl.signup("bobby")
	videoId := cl.publish(bob)

	status, body := cl.do(http.MethodPost, "/comment", alice, map[string]string{"videoId": videoId, "content": "nice"})
	require.Equal(t, http.StatusCreated, status, body)
	comment := body["comment"].(map[string]interface{})
	assert.Equal(t, "nice", comment["content"])
	assert.Equal(t, "alice", comment["author"].(map[string]interface{})["username"])
	assert.EqualValues(t, 1, cl.videoCounter(videoId, "commentsCount"))

	status, body = cl.do(http.MethodGet, "/comment?videoId="+videoId, "", nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body["comments"], 1)

	status, body = cl.do(http.MethodGet, "/comment", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Missing videoId", body["error"])

	commentId := comment["id"].(string)
	status, body = cl.do(http.MethodPost, "/like", alice, map[string]string{"commentId": commentId})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "comment liked", body["message"])
	assert.Zero(t, cl.videoCounter(videoId, "likesCount"))
}

func TestUnauthenticatedRequestsMutateNothing(t *testing.T) {
	cl := newClient(t)
	_, bobId := cl.signup("bobby")
	carol, _ := cl.signup("carol")
	videoId := cl.publish(carol)

	requests := []struct {
		method, url string
		body        interface{}
	}{
		{http.MethodPost, "/follow", map[string]string{"followingId": bobId}},
		{http.MethodDelete, "/follow?followingId=" + bobId, nil},
		{http.MethodGet, "/follow/check?userId=" + bobId, nil},
		{http.MethodPost, "/like", map[string]string{"videoId": videoId}},
		{http.MethodGet, "/like/check?videoId=" + videoId, nil},
		{http.MethodPost, "/comment", map[string]string{"videoId": videoId, "content": "hi"}},
		{http.MethodPost, "/videos", map[string]string{"title": "x", "videoUrl": "v", "thumbnailUrl": "t"}},
	}
	for _, req := range requests {
		status, body := cl.do(req.method, req.url, "", req.body)
		assert.Equal(t, http.StatusUnauthorized, status, req.url)
		assert.Equal(t, "Unauthorized", body["error"])
		status, _ = cl.do(req.method, req.url, "not-a-token", req.body)
		assert.Equal(t, http.StatusUnauthorized, status, req.url)
	}

	assert.Zero(t, cl.userCounter(bobId, "followersCount"))
	assert.Zero(t, cl.videoCounter(videoId, "likesCount"))
	assert.Zero(t, cl.videoCounter(videoId, "commentsCount"))
}

func TestVideoRoutes(t *testing.T) {
	cl := newClient(t)
	bob, _ := cl.signup("bobby")
	videoId := cl.publish(bob)

	status, body := cl.do(http.MethodGet, "/videos?limit=5", "", nil)
	require.Equal(t, http.StatusOK, status)
	videos := body["videos"].([]interface{})
	require.Len(t, videos, 1)
	assert.Equal(t, []interface{}{"fun"}, videos[0].(map[string]interface{})["hashtags"])

	status, _ = cl.do(http.MethodPost, "/videos/"+videoId+"/view", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, cl.videoCounter(videoId, "viewsCount"))

	status, _ = cl.do(http.MethodGet, "/videos/424242", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = cl.do(http.MethodGet, "/upload/auth", bob, nil)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Upload storage not configured", body["error"])
}
