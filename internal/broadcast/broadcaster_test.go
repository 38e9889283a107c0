package broadcast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediloop/chatline/internal/ports"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	b := New()
	defer b.Close()

	_, first := b.Subscribe("first")
	_, second := b.Subscribe("second")

	b.Publish(Event{Kind: EventReady, At: time.Now()})

	for _, ch := range []<-chan Event{first, second} {
		select {
		case ev := <-ch:
			assert.Equal(t, EventReady, ev.Kind)
		default:
			t.Fatal("subscriber did not receive the event")
		}
	}
}

func TestPublishDropsWhenSubscriberBufferFull(t *testing.T) {
	b := New()
	defer b.Close()

	_, slow := b.Subscribe("slow")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < subscriberBufCap+10; i++ {
			b.Publish(Event{Kind: EventClosed, Reason: ports.CloseNetworkError})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}

	assert.Len(t, slow, subscriberBufCap)
}

func TestSubscribeIdempotent(t *testing.T) {
	b := New()
	defer b.Close()

	id, first := b.Subscribe("ui")
	require.Equal(t, "ui", id)

	_, second := b.Subscribe("ui")

	b.Publish(Event{Kind: EventPairingIssued, PairingCode: "T1"})

	ev := <-first
	assert.Equal(t, "T1", ev.PairingCode)
	assert.Empty(t, second, "same id must share one channel, not fan out twice")
}

func TestSubscribeGeneratesID(t *testing.T) {
	b := New()
	defer b.Close()

	id, ch := b.Subscribe("")
	assert.NotEmpty(t, id)
	require.NotNil(t, ch)
}

func TestUnsubscribeIdempotent(t *testing.T) {
	b := New()
	defer b.Close()

	id, ch := b.Subscribe("diag")
	b.Unsubscribe(id)
	b.Unsubscribe(id)
	b.Unsubscribe("never-registered")

	_, open := <-ch
	assert.False(t, open)
}

func TestCloseTerminatesSubscribers(t *testing.T) {
	b := New()

	_, ch := b.Subscribe("ui")
	b.Close()
	b.Close()

	_, open := <-ch
	assert.False(t, open)

	// Publishing and subscribing after close must not panic.
	b.Publish(Event{Kind: EventReady})
	_, late := b.Subscribe("late")
	_, open = <-late
	assert.False(t, open)
}
