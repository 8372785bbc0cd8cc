package mocks

import (
	"context"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

type StoreInterface struct {
	mock.Mock
}

func (m *StoreInterface) MarkOrdersPaid(ctx context.Context, paymentOrderID string) (int64, error) {
	args := m.Called(ctx, paymentOrderID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *StoreInterface) CachePaymentStatus(ctx context.Context, paymentOrderID, status string) error {
	return m.Called(ctx, paymentOrderID, status).Error(0)
}

func NewStoreInterface(t testingT) *StoreInterface {
	m := &StoreInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type MessageReader struct {
	mock.Mock
}

func (m *MessageReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	args := m.Called(ctx)
	return args.Get(0).(kafka.Message), args.Error(1)
}

func (m *MessageReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	return m.Called(ctx, msgs).Error(0)
}

func NewMessageReader(t testingT) *MessageReader {
	m := &MessageReader{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
