package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisherSync(t *testing.T) {
	store := NewInMemoryStore()
	p := NewPublisher(store)

	event := Event{Action: EventDatasetCreated, Actor: "alice", DatasetID: "d1"}
	require.NoError(t, p.Emit(context.Background(), event))

	events := store.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "alice", events[0].Actor)
}

func TestPublisherAsyncFlushesOnClose(t *testing.T) {
	store := NewInMemoryStore()
	p := NewPublisher(store, WithAsyncBuffer(16))

	for i := 0; i < 5; i++ {
		require.NoError(t, p.Emit(context.Background(), Event{Action: EventDatasetUpdated}))
	}
	p.Close()

	assert.Eventually(t, func() bool {
		return len(store.Events()) == 5
	}, time.Second, 10*time.Millisecond)
}

func TestPublisherCloseIsIdempotent(t *testing.T) {
	p := NewPublisher(NewInMemoryStore(), WithAsyncBuffer(1))
	p.Close()
	p.Close()
}
