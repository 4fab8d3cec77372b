package notify

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/hertz-contrib/websocket"

	"reelhub.com/cmd/api/handlers"
	"reelhub.com/pkg/jwt"
	"reelhub.com/pkg/mq"
)

var upgrader = websocket.HertzUpgrader{
	CheckOrigin: func(ctx *app.RequestContext) bool {
		return true // 允许所有来源连接
	},
}

const (
	// 单个连接积压的通知上限, 超出后丢弃
	sendBuffer = 16
	writeWait  = 5 * time.Second
)

type messageWriter interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// session 每个连接一个写协程, 推送方只投递到缓冲区, 不等待网络写
type session struct {
	conn messageWriter
	send chan []byte

	mu     sync.Mutex
	closed bool
}

// enqueue 缓冲区已满或连接已关闭时返回 false
func (s *session) enqueue(data []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.send <- data:
		return true
	default:
		return false
	}
}

func (s *session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.send)
	}
}

func (h *Hub) writeLoop(userId int64, s *session) {
	for data := range s.send {
		_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			hlog.Warnf("push notification to user %d failed: %v", userId, err)
			h.unregister(userId, s)
			_ = s.conn.Close()
			// 排空剩余消息, 直到 close 关闭通道
			for range s.send {
			}
			return
		}
	}
}

// Hub 按用户维护在线的通知连接, 并把通知事件推给接收者
type Hub struct {
	mu       sync.RWMutex
	sessions map[int64]map[*session]struct{}
}

var _ mq.NotificationEventHandler = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{sessions: make(map[int64]map[*session]struct{})}
}

func (h *Hub) register(userId int64, conn messageWriter) *session {
	s := &session{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	if h.sessions[userId] == nil {
		h.sessions[userId] = make(map[*session]struct{})
	}
	h.sessions[userId][s] = struct{}{}
	h.mu.Unlock()
	go h.writeLoop(userId, s)
	return s
}

func (h *Hub) unregister(userId int64, s *session) {
	h.mu.Lock()
	delete(h.sessions[userId], s)
	if len(h.sessions[userId]) == 0 {
		delete(h.sessions, userId)
	}
	h.mu.Unlock()
	s.close()
}

func (h *Hub) Online(userId int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[userId])
}

// HandleNotificationEvent 投递给接收者的所有连接后立即返回, 接收者不在线或积压已满时丢弃
func (h *Hub) HandleNotificationEvent(ctx context.Context, event *mq.NotificationEvent) error {
	h.mu.RLock()
	targets := make([]*session, 0, len(h.sessions[event.ReceiverID]))
	for s := range h.sessions[event.ReceiverID] {
		targets = append(targets, s)
	}
	h.mu.RUnlock()
	if len(targets) == 0 {
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	for _, s := range targets {
		if !s.enqueue(data) {
			hlog.CtxWarnf(ctx, "notification %s to user %d dropped, session backlog full", event.EventID, event.ReceiverID)
		}
	}
	return nil
}

// Handler 升级为 websocket, 连接在客户端断开前保持注册
func (h *Hub) Handler(ctx context.Context, c *app.RequestContext) {
	userId, err := jwt.CurrentUserId(c)
	if err != nil {
		handlers.SendError(ctx, c, err)
		return
	}
	err = upgrader.Upgrade(c, func(conn *websocket.Conn) {
		s := h.register(userId, conn)
		defer h.unregister(userId, s)
		hlog.CtxInfof(ctx, "user %d subscribed to notifications", userId)
		for {
			// 客户端无需发送内容, 读循环只用于感知断开
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	if err != nil {
		hlog.CtxWarnf(ctx, "websocket upgrade failed: %v", err)
	}
}
