package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"eventmgt/internal/domain"
)

// RabbitMQConfig configures the notification queue.
type RabbitMQConfig struct {
	URL       string
	QueueName string
	// Prefetch limits unacknowledged deliveries per consumer.
	Prefetch int
}

// RabbitMQ publishes notification jobs to a durable queue and consumes them.
type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	config  RabbitMQConfig
	logger  *slog.Logger
}

// NewRabbitMQ connects to the broker and declares the queue.
func NewRabbitMQ(config RabbitMQConfig, logger *slog.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	q, err := channel.QueueDeclare(
		config.QueueName, // name
		true,             // durable
		false,            // delete when unused
		false,            // exclusive
		false,            // no-wait
		nil,
	)
	if err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &RabbitMQ{
		conn:    conn,
		channel: channel,
		queue:   q,
		config:  config,
		logger:  logger.With("component", "rabbitmq", "queue", q.Name),
	}, nil
}

// Dispatch publishes n as a persistent JSON message.
func (r *RabbitMQ) Dispatch(ctx context.Context, n *domain.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}
	err = r.channel.PublishWithContext(
		ctx,
		"",           // exchange
		r.queue.Name, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    uuid.NewString(),
			Type:         string(n.Type),
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}

// Consume delivers queued notifications to handle until ctx is done or the
// channel closes. Messages that fail to decode are dropped; handler failures
// are requeued once and dropped on redelivery.
func (r *RabbitMQ) Consume(ctx context.Context, handle func(context.Context, *domain.Notification) error) error {
	prefetch := r.config.Prefetch
	if prefetch <= 0 {
		prefetch = 1
	}
	if err := r.channel.Qos(prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}
	msgs, err := r.channel.ConsumeWithContext(ctx,
		r.queue.Name, // queue
		"",           // consumer
		false,        // auto-ack
		false,        // exclusive
		false,        // no-local
		false,        // no-wait
		nil,          // args
	)
	if err != nil {
		return fmt.Errorf("failed to consume messages: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			r.handleDelivery(ctx, msg, handle)
		}
	}
}

func (r *RabbitMQ) handleDelivery(ctx context.Context, msg amqp.Delivery, handle func(context.Context, *domain.Notification) error) {
	logger := r.logger.With("message_id", msg.MessageId)
	var n domain.Notification
	if err := json.Unmarshal(msg.Body, &n); err != nil {
		logger.Error("dropping undecodable message", "err", err)
		_ = msg.Nack(false, false)
		return
	}
	if err := handle(ctx, &n); err != nil {
		requeue := !msg.Redelivered
		logger.Error("failed to process notification", "type", n.Type, "registration_id", n.RegistrationID, "requeue", requeue, "err", err)
		_ = msg.Nack(false, requeue)
		return
	}
	_ = msg.Ack(false)
}

func (r *RabbitMQ) Close() error {
	var errs []error
	if r.channel != nil {
		if err := r.channel.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if r.conn != nil {
		if err := r.conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors while closing RabbitMQ: %v", errs)
	}
	return nil
}
