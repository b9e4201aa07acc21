package realtime

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	hub := NewHub(4, zap.NewNop())

	ch1, cancel1 := hub.Subscribe()
	ch2, cancel2 := hub.Subscribe()
	defer cancel1()
	defer cancel2()

	event := mustEvent(t, EntityInvoice, ActionUpdated, uuid.New(), map[string]string{"status": "Paid"})
	hub.Broadcast(event)

	got1 := <-ch1
	got2 := <-ch2
	assert.Equal(t, event.EntityID, got1.EntityID)
	assert.Equal(t, event.EntityID, got2.EntityID)
}

func TestHub_SlowClientDoesNotBlockBroadcast(t *testing.T) {
	hub := NewHub(1, zap.NewNop())

	ch, cancel := hub.Subscribe()
	defer cancel()

	first := mustEvent(t, EntityCustomer, ActionCreated, uuid.New(), nil)
	second := mustEvent(t, EntityCustomer, ActionCreated, uuid.New(), nil)

	// The buffer holds one event; the second is dropped, not blocked on.
	hub.Broadcast(first)
	hub.Broadcast(second)

	got := <-ch
	assert.Equal(t, first.EntityID, got.EntityID)
	select {
	case unexpected := <-ch:
		t.Fatalf("expected second event to be dropped, got %v", unexpected.EntityID)
	default:
	}
}

func TestHub_UnsubscribeRemovesClient(t *testing.T) {
	hub := NewHub(4, zap.NewNop())

	_, cancel := hub.Subscribe()
	require.Equal(t, 1, hub.ClientCount())

	cancel()
	assert.Equal(t, 0, hub.ClientCount())

	// cancelling twice is safe
	cancel()
	assert.Equal(t, 0, hub.ClientCount())
}
