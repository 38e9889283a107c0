package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mediloop/chatline/internal/domain"
	"github.com/mediloop/chatline/internal/ports"
	"github.com/mediloop/chatline/internal/ports/mocks"
)

type stubSource struct {
	mu   sync.Mutex
	sess domain.Session
}

func newStubSource(state domain.ConnState) *stubSource {
	return &stubSource{sess: domain.Session{AccountID: testAccountID, State: state}}
}

func (s *stubSource) Snapshot() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess
}

func (s *stubSource) setState(state domain.ConnState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess.State = state
}

func fastRetryConfig() DeliveryConfig {
	return DeliveryConfig{
		Deadline: 5 * time.Second,
		MaxRetry: 3,
		Backoff:  domain.BackoffPolicy{Initial: time.Millisecond, Multiplier: 2, Max: 10 * time.Millisecond},
	}
}

func newDelivery(t *testing.T, transport ports.Transport, source SessionSource, cfg DeliveryConfig) *DeliveryService {
	t.Helper()
	return NewDeliveryService(transport, source, ports.SystemClock{}, zerolog.Nop(), cfg)
}

func TestSendRejectsWhenNotReady(t *testing.T) {
	tests := []struct {
		name  string
		state domain.ConnState
	}{
		{name: "disconnected", state: domain.StateDisconnected},
		{name: "connecting", state: domain.StateConnecting},
		{name: "pairing", state: domain.StatePairing},
		{name: "reconnecting", state: domain.StateReconnecting},
		{name: "failed", state: domain.StateFailed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			transport := mocks.NewMockTransport(t)
			svc := newDelivery(t, transport, newStubSource(tc.state), fastRetryConfig())

			outcome, err := svc.Send(context.Background(), "+41791234567", "reminder: checkup at 10:00")
			require.NoError(t, err)
			assert.Equal(t, domain.Rejected(domain.RejectNotReady, 0), outcome)
			transport.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestSendRejectsInvalidInputWithoutTransportCall(t *testing.T) {
	transport := mocks.NewMockTransport(t)
	svc := newDelivery(t, transport, newStubSource(domain.StateReady), fastRetryConfig())

	outcome, err := svc.Send(context.Background(), "0791234567", "reminder")
	require.NoError(t, err)
	assert.Equal(t, domain.Rejected(domain.RejectInvalidRecipient, 0), outcome)

	outcome, err = svc.Send(context.Background(), "+41791234567", "   ")
	require.NoError(t, err)
	assert.Equal(t, domain.Rejected(domain.RejectEmptyBody, 0), outcome)

	transport.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendDeliversOnFirstAttempt(t *testing.T) {
	transport := mocks.NewMockTransport(t)
	transport.EXPECT().
		Send(mock.Anything, "+41791234567", "reminder: checkup at 10:00").
		Return(nil).
		Once()

	svc := newDelivery(t, transport, newStubSource(domain.StateReady), fastRetryConfig())

	outcome, err := svc.Send(context.Background(), "+41 79 123-45-67", "reminder: checkup at 10:00")
	require.NoError(t, err)
	assert.Equal(t, domain.Delivered(1), outcome)
}

func TestSendNonRetryableFailureStopsAfterOneAttempt(t *testing.T) {
	transport := mocks.NewMockTransport(t)
	transport.EXPECT().
		Send(mock.Anything, mock.Anything, mock.Anything).
		Return(&ports.SendFailure{Code: ports.SendFailRejected, Message: "recipient refused"}).
		Once()

	svc := newDelivery(t, transport, newStubSource(domain.StateReady), fastRetryConfig())

	outcome, err := svc.Send(context.Background(), "+41791234567", "reminder")
	require.NoError(t, err)
	assert.Equal(t, domain.Rejected(domain.RejectRemoteRejected, 1), outcome)
}

func TestSendRemoteInvalidRecipientNotRetried(t *testing.T) {
	transport := mocks.NewMockTransport(t)
	transport.EXPECT().
		Send(mock.Anything, mock.Anything, mock.Anything).
		Return(&ports.SendFailure{Code: ports.SendFailInvalidRecipient}).
		Once()

	svc := newDelivery(t, transport, newStubSource(domain.StateReady), fastRetryConfig())

	outcome, err := svc.Send(context.Background(), "+41791234567", "reminder")
	require.NoError(t, err)
	assert.Equal(t, domain.Rejected(domain.RejectInvalidRecipient, 1), outcome)
}

func TestSendRetryableFailureExhaustsAllAttempts(t *testing.T) {
	transport := mocks.NewMockTransport(t)
	transport.EXPECT().
		Send(mock.Anything, mock.Anything, mock.Anything).
		Return(&ports.SendFailure{Code: ports.SendFailUnavailable, Message: "server busy"}).
		Times(3)

	svc := newDelivery(t, transport, newStubSource(domain.StateReady), fastRetryConfig())

	outcome, err := svc.Send(context.Background(), "+41791234567", "reminder")
	require.NoError(t, err)
	assert.Equal(t, domain.Rejected(domain.RejectUnavailable, 3), outcome)
}

func TestSendUnclassifiedErrorTreatedAsRetryable(t *testing.T) {
	transport := mocks.NewMockTransport(t)
	transport.EXPECT().
		Send(mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("wire hiccup")).
		Times(3)

	svc := newDelivery(t, transport, newStubSource(domain.StateReady), fastRetryConfig())

	outcome, err := svc.Send(context.Background(), "+41791234567", "reminder")
	require.NoError(t, err)
	assert.Equal(t, domain.Rejected(domain.RejectUnavailable, 3), outcome)
}

func TestSendTimesOutWhenBackoffWouldCrossDeadline(t *testing.T) {
	transport := mocks.NewMockTransport(t)
	transport.EXPECT().
		Send(mock.Anything, mock.Anything, mock.Anything).
		Return(&ports.SendFailure{Code: ports.SendFailUnavailable}).
		Once()

	cfg := DeliveryConfig{
		Deadline: 50 * time.Millisecond,
		MaxRetry: 3,
		// The first retry wait alone exceeds the deadline.
		Backoff: domain.BackoffPolicy{Initial: time.Second, Multiplier: 2, Max: 10 * time.Second},
	}
	svc := newDelivery(t, transport, newStubSource(domain.StateReady), cfg)

	outcome, err := svc.Send(context.Background(), "+41791234567", "reminder")
	require.NoError(t, err)
	assert.Equal(t, domain.TimedOut(1), outcome)
}

func TestSendConnectionLostMidRetry(t *testing.T) {
	source := newStubSource(domain.StateReady)

	transport := mocks.NewMockTransport(t)
	transport.EXPECT().
		Send(mock.Anything, mock.Anything, mock.Anything).
		Run(func(ctx context.Context, recipient string, body string) {
			source.setState(domain.StateReconnecting)
		}).
		Return(&ports.SendFailure{Code: ports.SendFailTransport, Message: "write: broken pipe"}).
		Once()

	svc := newDelivery(t, transport, source, fastRetryConfig())

	outcome, err := svc.Send(context.Background(), "+41791234567", "reminder")
	require.NoError(t, err)
	assert.Equal(t, domain.Rejected(domain.RejectConnectionLost, 1), outcome)
}

func TestSendErrorsOnUnwiredService(t *testing.T) {
	var svc *DeliveryService
	_, err := svc.Send(context.Background(), "+41791234567", "reminder")
	require.ErrorIs(t, err, domain.ErrNotInitialized)
}

func TestSendConcurrentRequestsAreIndependent(t *testing.T) {
	transport := mocks.NewMockTransport(t)
	transport.EXPECT().
		Send(mock.Anything, mock.Anything, mock.Anything).
		Return(nil).
		Times(8)

	svc := newDelivery(t, transport, newStubSource(domain.StateReady), fastRetryConfig())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome, err := svc.Send(context.Background(), "+41791234567", "reminder")
			assert.NoError(t, err)
			assert.True(t, outcome.Delivered())
		}()
	}
	wg.Wait()
}
