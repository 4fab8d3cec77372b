package testutil

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
)

// MemRedis is an in-process redis.Cmdable covering the commands the comment
// cache issues. Any other command panics on the nil embedded interface.
type MemRedis struct {
	redis.Cmdable

	mu     sync.Mutex
	kv     map[string]string
	onEval func()
}

func NewMemRedis() *MemRedis {
	return &MemRedis{kv: make(map[string]string)}
}

// OnEval runs fn once, right before the next EVAL is applied.
func (m *MemRedis) OnEval(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onEval = fn
}

func (m *MemRedis) Get(_ context.Context, key string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.kv[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *MemRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := m.kv[k]; ok {
			delete(m.kv, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (m *MemRedis) Incr(_ context.Context, key string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	if v, ok := m.kv[key]; ok {
		var err error
		if n, err = strconv.ParseInt(v, 10, 64); err != nil {
			return redis.NewIntResult(0, err)
		}
	}
	n++
	m.kv[key] = strconv.FormatInt(n, 10)
	return redis.NewIntResult(n, nil)
}

// Eval applies the compare-and-set the comment cache scripts:
// KEYS = [list, generation], ARGV = [gen, data, ttl ms].
func (m *MemRedis) Eval(_ context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	m.mu.Lock()
	hook := m.onEval
	m.onEval = nil
	m.mu.Unlock()
	if hook != nil {
		hook()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.kv[keys[1]]
	if !ok {
		cur = "0"
	}
	if cur != fmt.Sprint(args[0]) {
		return redis.NewCmdResult(int64(0), nil)
	}
	switch v := args[1].(type) {
	case []byte:
		m.kv[keys[0]] = string(v)
	default:
		m.kv[keys[0]] = fmt.Sprint(v)
	}
	return redis.NewCmdResult(int64(1), nil)
}
