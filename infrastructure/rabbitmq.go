package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"nrro-site/domain"
)

// RabbitMQ carries notifications from the API process to the worker.
type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	log     logrus.FieldLogger
}

func NewRabbitMQ(url, queue string, log logrus.FieldLogger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		queue, // queue name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}

	log.WithField("queue", q.Name).Info("connected to RabbitMQ")
	return &RabbitMQ{conn: conn, channel: ch, queue: q, log: log}, nil
}

func (r *RabbitMQ) Close() error {
	if err := r.channel.Close(); err != nil {
		r.log.WithError(err).Warn("close RabbitMQ channel")
	}
	return r.conn.Close()
}

// Dispatch publishes n for the worker; it satisfies the same interface as the
// direct mail dispatcher.
func (r *RabbitMQ) Dispatch(ctx context.Context, n domain.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.channel.PublishWithContext(
		ctx,
		"",           // exchange
		r.queue.Name, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

// Consume hands each notification to handler until ctx is done or the channel
// closes. Failed deliveries are dropped, not requeued.
func (r *RabbitMQ) Consume(ctx context.Context, handler func(context.Context, domain.Notification) error) error {
	msgs, err := r.channel.Consume(
		r.queue.Name,
		"",
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("RabbitMQ delivery channel closed")
			}
			r.handleDelivery(ctx, d, handler)
		}
	}
}

func (r *RabbitMQ) handleDelivery(ctx context.Context, d amqp.Delivery, handler func(context.Context, domain.Notification) error) {
	n, err := DecodeNotification(d.Body)
	if err != nil {
		r.log.WithError(err).Warn("invalid notification message")
		_ = d.Nack(false, false)
		return
	}

	entry := r.log.WithField("template", n.Template)
	if err := handler(ctx, n); err != nil {
		entry.WithError(err).Error("notification failed")
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
	entry.Debug("notification delivered")
}

func DecodeNotification(body []byte) (domain.Notification, error) {
	var n domain.Notification
	if err := json.Unmarshal(body, &n); err != nil {
		return n, err
	}
	if n.Template == "" || len(n.To) == 0 {
		return n, fmt.Errorf("notification needs a template and recipients")
	}
	return n, nil
}
