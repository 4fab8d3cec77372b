package mq

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	events []*NotificationEvent
	err    error
}

func (h *recordingHandler) HandleNotificationEvent(_ context.Context, e *NotificationEvent) error {
	h.events = append(h.events, e)
	return h.err
}

func TestNotifyUsesCurrentProducer(t *testing.T) {
	h := &recordingHandler{}
	prev := SetProducer(NewLocalProducer(h))
	t.Cleanup(func() { SetProducer(prev) })

	Notify(context.Background(), NewNotificationEvent(NotificationFollow, 1, 2))
	require.Len(t, h.events, 1)
	assert.Equal(t, NotificationFollow, h.events[0].Type)
	assert.NotEmpty(t, h.events[0].EventID)
	assert.Equal(t, int64(2), h.events[0].ReceiverID)
}

func TestNotifySkipsSelfAndSwallowsErrors(t *testing.T) {
	h := &recordingHandler{err: errors.New("offline")}
	prev := SetProducer(NewLocalProducer(h))
	t.Cleanup(func() { SetProducer(prev) })

	Notify(context.Background(), NewNotificationEvent(NotificationLike, 7, 7))
	assert.Empty(t, h.events)

	assert.NotPanics(t, func() {
		Notify(context.Background(), NewNotificationEvent(NotificationLike, 7, 8))
	})
	assert.Len(t, h.events, 1)
}

func TestSetProducerNilFallsBackToNoop(t *testing.T) {
	prev := SetProducer(nil)
	t.Cleanup(func() { SetProducer(prev) })
	assert.IsType(t, NoopProducer{}, GetProducer())
}
