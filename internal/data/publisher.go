package data

import (
	"fmt"
	"net/url"
	"time"

	"slotmath/internal/conf"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Publisher 测算结果上报。未配置RabbitMQ时为nil对象，Publish为空操作
type Publisher struct {
	conn       *amqp.Connection
	ch         *amqp.Channel
	exchange   string
	routingKey string
}

// buildRabbitMQURL 构建RabbitMQ连接URL（自动编码特殊字符）
func buildRabbitMQURL(c *conf.Rabbitmq) string {
	encodedUser := url.QueryEscape(c.Username)
	encodedPassword := url.QueryEscape(c.Password)
	return fmt.Sprintf("amqp://%s:%s@%s:%s/%s", encodedUser, encodedPassword, c.Host, c.Port, url.PathEscape(c.Vhost))
}

// NewPublisher .
func NewPublisher(c *conf.Data, logger *zap.Logger) (*Publisher, func(), error) {
	if c == nil || c.Rabbitmq == nil || c.Rabbitmq.Host == "" {
		logger.Info("rabbitmq not configured, report publishing disabled")
		return nil, func() {}, nil
	}

	conn, err := amqp.Dial(buildRabbitMQURL(c.Rabbitmq))
	if err != nil {
		return nil, nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("创建通道失败: %w", err)
	}

	err = ch.ExchangeDeclare(
		c.Rabbitmq.Exchange, // 交换机名称
		"direct",            // 类型
		true,                // 持久化
		false,               // 自动删除
		false,               // 内部
		false,               // 无等待
		nil,                 // 参数
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("声明交换机失败: %w", err)
	}

	p := &Publisher{
		conn:       conn,
		ch:         ch,
		exchange:   c.Rabbitmq.Exchange,
		routingKey: c.Rabbitmq.RoutingKey,
	}
	cleanup := func() {
		ch.Close()
		conn.Close()
	}
	return p, cleanup, nil
}

// Publish 将任意结果对象序列化为JSON并投递
func (p *Publisher) Publish(payload any) error {
	if p == nil {
		return nil
	}
	body, err := _json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.ch.Publish(
		p.exchange,
		p.routingKey,
		false, // 强制
		false, // 立即
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
}
