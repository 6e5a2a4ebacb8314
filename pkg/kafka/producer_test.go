package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWriter struct {
	mock.Mock
}

func (m *MockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestNewMessage(t *testing.T) {
	msg := NewMessage("order.placed", []byte(`{"eventId":"1"}`))

	assert.Equal(t, []byte("order.placed"), msg.Key)
	assert.JSONEq(t, `{"eventId":"1"}`, string(msg.Value))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, EventTypeHeader, msg.Headers[0].Key)
	assert.Equal(t, "order.placed", string(msg.Headers[0].Value))
	assert.False(t, msg.Time.IsZero())
}

func TestProducer_Publish(t *testing.T) {
	writer := new(MockWriter)
	p := &Producer{w: writer}

	writer.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafka.Message) bool {
		return len(msgs) == 1 && string(msgs[0].Key) == "order.status_changed"
	})).Return(nil).Once()

	assert.NoError(t, p.Publish(context.Background(), "order.status_changed", []byte("{}")))
	writer.AssertExpectations(t)
}

func TestProducer_PublishError(t *testing.T) {
	writer := new(MockWriter)
	p := &Producer{w: writer}
	brokerDown := errors.New("dial tcp: connection refused")

	writer.On("WriteMessages", mock.Anything, mock.Anything).Return(brokerDown).Once()
	writer.On("Close").Return(nil).Once()

	err := p.Publish(context.Background(), "order.placed", []byte("{}"))
	assert.ErrorIs(t, err, brokerDown)
	assert.Contains(t, err.Error(), "order.placed")
	assert.NoError(t, p.Close())
	writer.AssertExpectations(t)
}

func TestNewProducer_DefaultTopic(t *testing.T) {
	p := NewProducer([]string{"localhost:9092"}, "")
	w, ok := p.w.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, DefaultTopic, w.Topic)
}
