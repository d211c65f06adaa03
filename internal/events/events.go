// Package events публикует доменные события инвентаря в RabbitMQ.
//
// Публикация выполняется после фиксации транзакции и не влияет на
// результат операции: ошибка брокера только логируется.
package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/inventory-manager/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/inventory-manager/internal/lib/sl"
)

// Routing keys доменных событий.
const (
	UserRegistered = "user.registered"
	UserCreated    = "user.created"
	ProductCreated = "product.created"
	ProductUpdated = "product.updated"
	ProductDeleted = "product.deleted"
)

// Event — сообщение о произошедшем изменении.
type Event struct {
	Type       string    `json:"type"`
	ActorID    int64     `json:"actor_id,omitempty"`
	EntityID   int64     `json:"entity_id"`
	Username   string    `json:"username,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher отправляет событие. Реализации не возвращают ошибок вызывающему.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Nop — Publisher, который ничего не делает. Используется без брокера.
type Nop struct{}

// Publish ничего не делает.
func (Nop) Publish(context.Context, Event) {}

// AMQPPublisher публикует события в exchange RabbitMQ.
type AMQPPublisher struct {
	mu       sync.Mutex
	ch       rabbitmq.Channel
	exchange string
	log      *slog.Logger
}

// NewAMQPPublisher создаёт AMQPPublisher поверх открытого канала.
func NewAMQPPublisher(ch rabbitmq.Channel, exchange string, log *slog.Logger) *AMQPPublisher {
	return &AMQPPublisher{
		ch:       ch,
		exchange: exchange,
		log:      log,
	}
}

// Publish отправляет событие, используя его тип как routing key.
// amqp.Channel не потокобезопасен для публикации, поэтому вызовы сериализуются.
func (p *AMQPPublisher) Publish(ctx context.Context, event Event) {
	const op = "events.Publish"
	if ctx.Err() != nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	p.mu.Lock()
	err := rabbitmq.PublishMessage(p.ch, p.exchange, event.Type, event)
	p.mu.Unlock()
	if err != nil {
		p.log.Warn("failed to publish event",
			slog.String("op", op),
			slog.String("type", event.Type),
			sl.Err(err))
		return
	}
	p.log.Debug("event published", slog.String("type", event.Type), slog.Int64("entity_id", event.EntityID))
}
