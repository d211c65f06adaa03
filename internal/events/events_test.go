package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/inventory-manager/internal/lib/sl"
)

type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

func TestAMQPPublisher_Publish(t *testing.T) {
	ch := new(MockChannel)
	ch.On("Publish", "inventory", ProductCreated, false, false, mock.MatchedBy(func(p amqp.Publishing) bool {
		var ev Event
		if err := json.Unmarshal(p.Body, &ev); err != nil {
			return false
		}
		return ev.Type == ProductCreated && ev.EntityID == 10 && ev.ActorID == 2 && !ev.OccurredAt.IsZero()
	})).Return(nil).Once()

	p := NewAMQPPublisher(ch, "inventory", sl.Discard())
	p.Publish(context.Background(), Event{Type: ProductCreated, EntityID: 10, ActorID: 2})

	ch.AssertExpectations(t)
}

func TestAMQPPublisher_BrokerErrorIsSwallowed(t *testing.T) {
	ch := new(MockChannel)
	ch.On("Publish", mock.Anything, mock.Anything, false, false, mock.Anything).Return(errors.New("connection reset"))

	p := NewAMQPPublisher(ch, "inventory", sl.Discard())
	assert.NotPanics(t, func() {
		p.Publish(context.Background(), Event{Type: UserCreated, EntityID: 1})
	})
	ch.AssertNumberOfCalls(t, "Publish", 1)
}

func TestAMQPPublisher_CanceledContext(t *testing.T) {
	ch := new(MockChannel)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	NewAMQPPublisher(ch, "inventory", sl.Discard()).Publish(ctx, Event{Type: ProductDeleted})

	ch.AssertNotCalled(t, "Publish")
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NotPanics(t, func() { p.Publish(context.Background(), Event{Type: UserRegistered}) })
}
