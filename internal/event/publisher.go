// Package event publishes domain events to a RabbitMQ topic exchange. The
// routing key is the event type (lesson.assigned, answer.evaluated, ...), so
// downstream consumers bind with patterns like "assignment.*".
package event

import (
	"encoding/json"
	"log"
	"time"

	"github.com/streadway/amqp"
)

const (
	LessonCreated   = "lesson.created"
	LessonUpdated   = "lesson.updated"
	LessonDeleted   = "lesson.deleted"
	LessonAssigned  = "lesson.assigned"
	StatusChanged   = "assignment.status_changed"
	Unassigned      = "assignment.unassigned"
	AnswerEvaluated = "answer.evaluated"
	ChatMessageSent = "chat.message"
)

type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewPublisher(amqpURL, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, channel: ch, exchange: exchange}, nil
}

// Publish sends one event. A nil Publisher is a no-op, so call sites don't
// have to guard for the RabbitMQ-less configuration.
func (p *Publisher) Publish(eventType string, payload interface{}) {
	if p == nil {
		return
	}

	body, err := json.Marshal(map[string]interface{}{
		"type":      eventType,
		"payload":   payload,
		"timestamp": time.Now().UTC(),
	})
	if err != nil {
		log.Printf("event %s: marshal failed: %v", eventType, err)
		return
	}

	err = p.channel.Publish(p.exchange, eventType, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		log.Printf("event %s: publish failed: %v", eventType, err)
	}
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
