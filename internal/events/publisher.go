// Package events публикует доменные события платформы в RabbitMQ:
// подтверждённые покупки и изменения статусов заявок на верификацию.
// События предназначены для аудита и внутренней аналитики.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

// Имена обменника и очередей событий платформы.
const (
	Exchange               = "platform.events"
	QueuePurchases         = "platform.events.purchases"
	QueueVerifications     = "platform.events.verifications"
	RoutingKeyPurchase     = "purchase"
	RoutingKeyVerification = "verification"
)

// PurchaseCompleted — событие подтверждённой покупки.
type PurchaseCompleted struct {
	PurchaseID  string    `json:"purchase_id"`
	ContentID   string    `json:"content_id"`
	UserUID     string    `json:"user_uid"`
	Price       int       `json:"price"`
	PurchasedAt time.Time `json:"purchased_at"`
}

// VerificationChanged — событие изменения статуса заявки на верификацию.
type VerificationChanged struct {
	ApplicationID string    `json:"application_id"`
	UserUID       string    `json:"user_uid"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Channel описывает минимальный контракт канала AMQP, нужный публикатору.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher публикует доменные события в обменник platform.events.
type Publisher struct {
	ch Channel
}

// Connect устанавливает соединение с RabbitMQ с повторными попытками.
func Connect(connection string, retries int, delay time.Duration) (*amqp.Connection, error) {
	const op = "events.Connect"
	var conn *amqp.Connection
	var err error

	for range retries {
		conn, err = amqp.Dial(connection)
		if err == nil {
			return conn, nil
		}
		time.Sleep(delay)
	}

	return nil, fmt.Errorf("%s: %w", op, err)
}

// SetupChannel открывает канал, объявляет обменник и очереди событий.
func SetupChannel(conn *amqp.Connection) (*amqp.Channel, error) {
	const op = "events.SetupChannel"
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	err = ch.ExchangeDeclare(
		Exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for queue, key := range map[string]string{
		QueuePurchases:     RoutingKeyPurchase,
		QueueVerifications: RoutingKeyVerification,
	} {
		_, err = ch.QueueDeclare(queue, true, false, false, false, nil)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, queue, err)
		}
		err = ch.QueueBind(queue, key, Exchange, false, nil)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to bind queue %s: %w", op, queue, err)
		}
	}
	return ch, nil
}

// NewPublisher создаёт публикатор поверх открытого канала.
func NewPublisher(ch Channel) *Publisher {
	return &Publisher{ch: ch}
}

// PublishPurchaseCompleted публикует событие покупки.
func (p *Publisher) PublishPurchaseCompleted(event PurchaseCompleted) error {
	return p.publish(RoutingKeyPurchase, event)
}

// PublishVerificationChanged публикует событие по заявке на верификацию.
func (p *Publisher) PublishVerificationChanged(event VerificationChanged) error {
	return p.publish(RoutingKeyVerification, event)
}

func (p *Publisher) publish(routingKey string, message any) error {
	const op = "events.publish"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		Exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    uuid.NewString(),
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
