package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"reelhub.com/cmd/interaction/dal/db"
)

// CounterSync 定期用边表重算所有冗余计数, 修复事务之外写入造成的偏差
type CounterSync struct {
	interval time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

func NewCounterSync(interval time.Duration) *CounterSync {
	return &CounterSync{interval: interval}
}

// Start 启动周期修复, 重复调用返回错误
func (cs *CounterSync) Start(ctx context.Context) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.running {
		return fmt.Errorf("counter sync is already running")
	}
	if cs.interval <= 0 {
		return fmt.Errorf("invalid counter sync interval: %s", cs.interval)
	}

	ctx, cs.cancel = context.WithCancel(ctx)
	cs.done = make(chan struct{})
	cs.running = true
	hlog.Infof("Starting counter sync, interval %s", cs.interval)

	go cs.loop(ctx, cs.done)
	return nil
}

// Stop 停止并等待当前一轮修复结束
func (cs *CounterSync) Stop() {
	cs.mu.Lock()
	if !cs.running {
		cs.mu.Unlock()
		return
	}
	cs.running = false
	cs.cancel()
	done := cs.done
	cs.mu.Unlock()
	<-done
	hlog.Info("Counter sync stopped")
}

func (cs *CounterSync) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(cs.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := cs.RunOnce(ctx); err != nil {
				hlog.CtxErrorf(ctx, "counter sync round failed: %+v", err)
			}
		}
	}
}

// RunOnce 修复一轮, 返回被修正的行数. 单个计数失败不影响其余计数.
func (cs *CounterSync) RunOnce(ctx context.Context) (int64, error) {
	var (
		total    int64
		firstErr error
	)
	for _, r := range db.CounterRepairs {
		fixed, err := db.RepairCounter(ctx, r)
		if err != nil {
			hlog.CtxErrorf(ctx, "repair %s failed: %v", r.Name, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if fixed > 0 {
			hlog.CtxWarnf(ctx, "repaired %d drifted rows of %s", fixed, r.Name)
		}
		total += fixed
	}
	return total, firstErr
}
