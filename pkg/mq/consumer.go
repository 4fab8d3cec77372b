package mq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/rabbitmq/amqp091-go"
)

type Consumer struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

func NewConsumer(rabbitmqURL string) (*Consumer, error) {
	conn, err := amqp091.Dial(rabbitmqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	// 设置QoS，限制未确认消息数量
	if err = ch.Qos(10, 0, false); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}
	if err = declareExchange(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &Consumer{
		conn:    conn,
		channel: ch,
	}, nil
}

// ConsumeNotificationEvents binds a private queue to the fanout exchange and
// dispatches every delivery to handler until ctx is cancelled.
func (c *Consumer) ConsumeNotificationEvents(ctx context.Context, handler NotificationEventHandler) error {
	q, err := c.channel.QueueDeclare(
		"",    // server-named
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare notification queue: %w", err)
	}
	if err = c.channel.QueueBind(q.Name, "", NotificationEventExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind notification queue: %w", err)
	}

	msgs, err := c.channel.Consume(
		q.Name,
		"",    // consumer
		false, // auto-ack
		true,  // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				hlog.Info("Notification event consumer context cancelled")
				return
			case d, ok := <-msgs:
				if !ok {
					hlog.Info("Notification event consumer channel closed")
					return
				}
				dispatch(ctx, d, handler)
			}
		}
	}()
	return nil
}

func dispatch(ctx context.Context, d amqp091.Delivery, handler NotificationEventHandler) {
	var event NotificationEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		hlog.Errorf("Failed to unmarshal notification event: %v", err)
		d.Nack(false, false) // 拒绝消息，不重新入队
		return
	}
	// 推送失败(接收者不在线等)不重试, 通知是尽力而为的
	if err := handler.HandleNotificationEvent(ctx, &event); err != nil {
		hlog.Warnf("Failed to handle notification event %s: %v", event.EventID, err)
	}
	d.Ack(false)
}

func (c *Consumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
