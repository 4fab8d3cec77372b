package main

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/middlewares/server/recovery"
	"github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverHandlerWritesGenericError(t *testing.T) {
	r := route.NewEngine(config.NewOptions([]config.Option{}))
	r.Use(recovery.Recovery(recovery.WithRecoveryHandler(recoverHandler)))
	r.GET("/boom", func(ctx context.Context, c *app.RequestContext) {
		panic("db handle is nil")
	})

	resp := ut.PerformRequest(r, http.MethodGet, "/boom", nil).Result()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode())

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Server error", body["error"])
	assert.NotContains(t, string(resp.Body()), "db handle")
}
