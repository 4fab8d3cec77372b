package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"reelhub.com/cmd/model"
	"reelhub.com/pkg/constants"
)

// CommentCacheManager 评论列表首页缓存. nil 接收者表示未启用缓存, 所有操作都是 miss/no-op.
type CommentCacheManager struct {
	client redis.Cmdable
	expire time.Duration
}

func NewCommentCacheManager(client redis.Cmdable, expire time.Duration) *CommentCacheManager {
	if expire <= 0 {
		expire = constants.CommentCacheExpire
	}
	return &CommentCacheManager{
		client: client,
		expire: expire,
	}
}

const (
	VideoCommentsKey = "video:comments:%d:latest"
	// 每次失效自增, 回源写回时比对
	VideoCommentsGenKey = "video:comments:%d:gen"
)

// setIfGeneration 版本号未变时才写入列表
const setIfGeneration = `
local cur = redis.call('GET', KEYS[2])
if not cur then cur = '0' end
if cur ~= ARGV[1] then return 0 end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`

// GetLatest returns (nil, nil) on a miss.
func (ccm *CommentCacheManager) GetLatest(ctx context.Context, videoID int64) ([]*model.Comment, error) {
	if ccm == nil {
		return nil, nil
	}
	data, err := ccm.client.Get(ctx, fmt.Sprintf(VideoCommentsKey, videoID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // 缓存未命中
		}
		return nil, fmt.Errorf("failed to get cached comment list: %w", err)
	}

	var comments []*model.Comment
	if err := json.Unmarshal(data, &comments); err != nil {
		return nil, fmt.Errorf("failed to unmarshal comment list: %w", err)
	}
	return comments, nil
}

// Generation 读取列表的失效版本号, 须在回源查库之前调用
func (ccm *CommentCacheManager) Generation(ctx context.Context, videoID int64) (int64, error) {
	if ccm == nil {
		return 0, nil
	}
	gen, err := ccm.client.Get(ctx, fmt.Sprintf(VideoCommentsGenKey, videoID)).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get comment list generation: %w", err)
	}
	return gen, nil
}

// SetLatest 仅当版本号仍等于 gen 时写入; 期间发生过 Invalidate 则返回 false, 丢弃这份可能过期的列表
func (ccm *CommentCacheManager) SetLatest(ctx context.Context, videoID, gen int64, comments []*model.Comment) (bool, error) {
	if ccm == nil {
		return false, nil
	}
	data, err := json.Marshal(comments)
	if err != nil {
		return false, fmt.Errorf("failed to marshal comment list: %w", err)
	}
	keys := []string{fmt.Sprintf(VideoCommentsKey, videoID), fmt.Sprintf(VideoCommentsGenKey, videoID)}
	stored, err := ccm.client.Eval(ctx, setIfGeneration, keys, gen, data, ccm.expire.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("failed to set cached comment list: %w", err)
	}
	return stored == 1, nil
}

// Invalidate 先推进版本号再删除列表, 使在途的回源写回失效
func (ccm *CommentCacheManager) Invalidate(ctx context.Context, videoID int64) error {
	if ccm == nil {
		return nil
	}
	if err := ccm.client.Incr(ctx, fmt.Sprintf(VideoCommentsGenKey, videoID)).Err(); err != nil {
		return err
	}
	return ccm.client.Del(ctx, fmt.Sprintf(VideoCommentsKey, videoID)).Err()
}
