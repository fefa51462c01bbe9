package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"enterprise-blog/pkg/config"
	"enterprise-blog/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	NotificationQueueName = "notification_queue"
	NotificationExchange  = "notifications"
)

// Routing keys, one per notification kind.
const (
	RoutingComment = "comment"
	RoutingLike    = "like"
	RoutingFollow  = "follow"
)

var routingKeys = []string{RoutingComment, RoutingLike, RoutingFollow}

var ErrMalformedTask = errors.New("malformed notification task")

// NotificationTask is the message body exchanged between the producing services
// and the notification consumer.
type NotificationTask struct {
	Type      string `json:"type"`
	UserID    string `json:"user_id"`
	ActorID   string `json:"actor_id"`
	ActorName string `json:"actor_name,omitempty"`
	PostID    string `json:"post_id,omitempty"`
	PostSlug  string `json:"post_slug,omitempty"`
	PostTitle string `json:"post_title,omitempty"`
	Priority  int    `json:"priority"`
}

// Publisher is what use cases depend on; a nil Publisher means no broker.
type Publisher interface {
	PublishNotificationTask(task NotificationTask) error
}

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *logger.Logger
}

func NewRabbitMQClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.RabbitMQURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		NotificationExchange, // name
		"direct",             // type
		true,                 // durable
		false,                // auto-deleted
		false,                // internal
		false,                // no-wait
		nil,                  // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		NotificationQueueName, // name
		true,                  // durable
		false,                 // delete when unused
		false,                 // exclusive
		false,                 // no-wait
		amqp.Table{
			"x-max-priority": 10,
		},
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	for _, key := range routingKeys {
		if err := channel.QueueBind(NotificationQueueName, key, NotificationExchange, false, nil); err != nil {
			channel.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to bind queue to %q: %w", key, err)
		}
	}

	log.Info("Connected to RabbitMQ at %s:%s", cfg.RabbitMQHost, cfg.RabbitMQPort)

	return &Client{
		conn:    conn,
		channel: channel,
		logger:  log,
	}, nil
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// PublishNotificationTask routes the task by its Type.
func (c *Client) PublishNotificationTask(task NotificationTask) error {
	body, err := EncodeTask(task)
	if err != nil {
		return err
	}

	err = c.channel.Publish(
		NotificationExchange, // exchange
		task.Type,            // routing key
		false,                // mandatory
		false,                // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			Priority:     uint8(clampPriority(task.Priority)),
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		c.logger.Error("[RABBITMQ] Failed to publish to exchange=%s, routing_key=%s: %v", NotificationExchange, task.Type, err)
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Debug("[RABBITMQ] Published notification task routing_key=%s user_id=%s", task.Type, task.UserID)
	return nil
}

// ConsumeNotificationTasks acks after handler success, requeues on handler
// failure and drops bodies that cannot be decoded.
func (c *Client) ConsumeNotificationTasks(handler func(task NotificationTask) error) error {
	msgs, err := c.channel.Consume(
		NotificationQueueName, // queue
		"",                    // consumer
		false,                 // auto-ack
		false,                 // exclusive
		false,                 // no-local
		false,                 // no-wait
		nil,                   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("[RABBITMQ] Started consuming from %s", NotificationQueueName)

	go func() {
		for msg := range msgs {
			task, err := DecodeTask(msg.Body)
			if err != nil {
				c.logger.Error("[RABBITMQ] Dropping notification task: %v, body=%s", err, string(msg.Body))
				msg.Nack(false, false)
				continue
			}

			if err := handler(task); err != nil {
				c.logger.Error("[RABBITMQ] Handler failed for %s task: %v", task.Type, err)
				msg.Nack(false, true)
				continue
			}

			msg.Ack(false)
		}
	}()

	return nil
}

// GetQueueLength returns the number of messages waiting in the queue.
func (c *Client) GetQueueLength() (int, error) {
	queue, err := c.channel.QueueInspect(NotificationQueueName)
	if err != nil {
		return 0, err
	}
	return queue.Messages, nil
}

func EncodeTask(task NotificationTask) ([]byte, error) {
	if !validType(task.Type) {
		return nil, fmt.Errorf("%w: unknown type %q", ErrMalformedTask, task.Type)
	}
	body, err := json.Marshal(task)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task: %w", err)
	}
	return body, nil
}

func DecodeTask(body []byte) (NotificationTask, error) {
	var task NotificationTask
	if err := json.Unmarshal(body, &task); err != nil {
		return task, fmt.Errorf("%w: %v", ErrMalformedTask, err)
	}
	if !validType(task.Type) || task.UserID == "" {
		return task, ErrMalformedTask
	}
	return task, nil
}

func validType(t string) bool {
	for _, key := range routingKeys {
		if key == t {
			return true
		}
	}
	return false
}

func clampPriority(p int) int {
	if p < 0 {
		return 0
	}
	if p > 10 {
		return 10
	}
	return p
}
