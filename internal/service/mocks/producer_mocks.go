package mocks

import (
	"context"
	"reflect"

	"github.com/golang/mock/gomock"
)

type MockEventProducer struct {
	ctrl     *gomock.Controller
	recorder *MockEventProducerMockRecorder
}

type MockEventProducerMockRecorder struct {
	mock *MockEventProducer
}

func NewMockEventProducer(ctrl *gomock.Controller) *MockEventProducer {
	mock := &MockEventProducer{ctrl: ctrl}
	mock.recorder = &MockEventProducerMockRecorder{mock}
	return mock
}

func (m *MockEventProducer) EXPECT() *MockEventProducerMockRecorder {
	return m.recorder
}

func (m *MockEventProducer) Send(ctx context.Context, topic string, message interface{}) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Send", ctx, topic, message)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockEventProducerMockRecorder) Send(ctx, topic, message interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Send", reflect.TypeOf((*MockEventProducer)(nil).Send), ctx, topic, message)
}
