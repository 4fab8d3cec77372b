package mq

import (
	"context"
	"sync"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// MessageProducer 消息生产者接口
type MessageProducer interface {
	PublishNotificationEvent(ctx context.Context, event *NotificationEvent) error
	Close() error
}

type NotificationEventHandler interface {
	HandleNotificationEvent(ctx context.Context, event *NotificationEvent) error
}

var (
	_ MessageProducer = (*Producer)(nil)
	_ MessageProducer = (*LocalProducer)(nil)
	_ MessageProducer = NoopProducer{}
)

var (
	mu      sync.RWMutex
	current MessageProducer = NoopProducer{}
)

// SetProducer replaces the process-wide producer and returns the previous one.
func SetProducer(p MessageProducer) MessageProducer {
	mu.Lock()
	defer mu.Unlock()
	prev := current
	if p == nil {
		p = NoopProducer{}
	}
	current = p
	return prev
}

func GetProducer() MessageProducer {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Notify publishes best-effort: failures are logged, never returned.
func Notify(ctx context.Context, event *NotificationEvent) {
	if event == nil || event.SenderID == event.ReceiverID {
		return
	}
	if err := GetProducer().PublishNotificationEvent(ctx, event); err != nil {
		hlog.CtxWarnf(ctx, "publish notification %s failed: %v", event.EventID, err)
	}
}

// NoopProducer drops every event.
type NoopProducer struct{}

func (NoopProducer) PublishNotificationEvent(context.Context, *NotificationEvent) error { return nil }
func (NoopProducer) Close() error                                                      { return nil }

// LocalProducer hands events straight to an in-process handler, used when no broker is configured.
type LocalProducer struct {
	handler NotificationEventHandler
}

func NewLocalProducer(handler NotificationEventHandler) *LocalProducer {
	return &LocalProducer{handler: handler}
}

func (p *LocalProducer) PublishNotificationEvent(ctx context.Context, event *NotificationEvent) error {
	return p.handler.HandleNotificationEvent(ctx, event)
}

func (p *LocalProducer) Close() error { return nil }
