package rabbitmq

import (
	"errors"
	"testing"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

func TestPublishMessage(t *testing.T) {
	ch := new(MockChannel)
	ch.On("Publish", "inventory", "product.created", false, false, mock.MatchedBy(func(p amqp.Publishing) bool {
		return p.ContentType == "application/json" &&
			p.DeliveryMode == amqp.Persistent &&
			string(p.Body) == `{"id":7}`
	})).Return(nil).Once()

	err := PublishMessage(ch, "inventory", "product.created", map[string]int{"id": 7})
	require.NoError(t, err)
	ch.AssertExpectations(t)
}

func TestPublishMessage_ChannelError(t *testing.T) {
	ch := new(MockChannel)
	ch.On("Publish", mock.Anything, mock.Anything, false, false, mock.Anything).Return(errors.New("channel closed"))

	err := PublishMessage(ch, "inventory", "user.created", struct{}{})
	assert.ErrorContains(t, err, "rabbitmq.PublishMessage: channel closed")
}

func TestPublishMessage_MarshalError(t *testing.T) {
	ch := new(MockChannel)

	err := PublishMessage(ch, "inventory", "user.created", make(chan int))
	assert.Error(t, err)
	ch.AssertNotCalled(t, "Publish")
}
