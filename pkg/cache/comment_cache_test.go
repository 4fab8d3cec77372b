package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelhub.com/cmd/model"
	"reelhub.com/pkg/testutil"
)

func TestNilManagerIsAlwaysMiss(t *testing.T) {
	var ccm *CommentCacheManager
	ctx := context.Background()

	stored, err := ccm.SetLatest(ctx, 1, 0, []*model.Comment{{CommentId: 1}})
	assert.NoError(t, err)
	assert.False(t, stored)
	got, err := ccm.GetLatest(ctx, 1)
	assert.NoError(t, err)
	assert.Nil(t, got)
	gen, err := ccm.Generation(ctx, 1)
	assert.NoError(t, err)
	assert.Zero(t, gen)
	assert.NoError(t, ccm.Invalidate(ctx, 1))
}

func TestSetLatestRoundTrip(t *testing.T) {
	ccm := NewCommentCacheManager(testutil.NewMemRedis(), time.Minute)
	ctx := context.Background()

	gen, err := ccm.Generation(ctx, 7)
	require.NoError(t, err)
	stored, err := ccm.SetLatest(ctx, 7, gen, []*model.Comment{{CommentId: 1, Content: "hi"}})
	require.NoError(t, err)
	assert.True(t, stored)

	got, err := ccm.GetLatest(ctx, 7)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "hi", got[0].Content)

	require.NoError(t, ccm.Invalidate(ctx, 7))
	got, err = ccm.GetLatest(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSetLatestDiscardsPageReadBeforeInvalidate(t *testing.T) {
	ccm := NewCommentCacheManager(testutil.NewMemRedis(), time.Minute)
	ctx := context.Background()

	gen, err := ccm.Generation(ctx, 7)
	require.NoError(t, err)
	// 查库之后, 写回之前, 另一个请求提交了新评论
	require.NoError(t, ccm.Invalidate(ctx, 7))

	stored, err := ccm.SetLatest(ctx, 7, gen, []*model.Comment{{CommentId: 1}})
	require.NoError(t, err)
	assert.False(t, stored)
	got, err := ccm.GetLatest(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, got)

	gen, err = ccm.Generation(ctx, 7)
	require.NoError(t, err)
	assert.EqualValues(t, 1, gen)
	stored, err = ccm.SetLatest(ctx, 7, gen, []*model.Comment{{CommentId: 1}, {CommentId: 2}})
	require.NoError(t, err)
	assert.True(t, stored)
}
