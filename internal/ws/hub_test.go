package ws

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_SendToUserReachesAllChannels(t *testing.T) {
	hub := NewHub()
	a := NewClient(1, 8)
	b := NewClient(1, 8)
	other := NewClient(2, 8)
	hub.Register(a)
	hub.Register(b)
	hub.Register(other)

	hub.SendToUser(1, map[string]string{"hello": "world"})

	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.Send:
			var got map[string]string
			require.NoError(t, json.Unmarshal(msg, &got))
			assert.Equal(t, "world", got["hello"])
		default:
			t.Fatal("expected a message")
		}
	}
	assert.Empty(t, other.Send)
}

func TestHub_NoChannelIsSilentMiss(t *testing.T) {
	hub := NewHub()
	// no registrations at all: must not panic or block
	hub.SendToUser(7, map[string]string{"x": "y"})
	assert.Equal(t, 0, hub.ConnectionCount(7))
}

func TestHub_CloseUnregisters(t *testing.T) {
	hub := NewHub()
	c := NewClient(1, 8)
	hub.Register(c)
	require.Equal(t, 1, hub.ConnectionCount(1))

	c.Close()
	c.Close() // idempotent

	assert.Equal(t, 0, hub.ConnectionCount(1))
	hub.SendToUser(1, "after close") // dropped, no panic

	select {
	case <-c.Done():
	default:
		t.Fatal("Done must be closed after Close")
	}
}

func TestHub_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()
	c := NewClient(1, 1)
	hub.Register(c)

	hub.SendToUser(1, "first")
	hub.SendToUser(1, "second") // buffer full, dropped

	assert.Len(t, c.Send, 1)
}

func TestHub_SendRacingCloseDoesNotPanic(t *testing.T) {
	// A client may disconnect between the broadcast snapshotting the client
	// set and the actual send. That must drop the message, never panic.
	hub := NewHub()
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				hub.SendToUser(1, "tick")
			}
		}
	}()

	for i := 0; i < 10000; i++ {
		c := NewClient(1, 1)
		hub.Register(c)
		c.Close()
	}
	close(stop)
	wg.Wait()
	assert.Equal(t, 0, hub.ConnectionCount(1))
}

func TestHub_ConcurrentRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			c := NewClient(id%5, 8)
			hub.Register(c)
			hub.SendToUser(id%5, "ping")
			c.Close()
		}(uint(i))
	}
	wg.Wait()
	for id := uint(0); id < 5; id++ {
		assert.Equal(t, 0, hub.ConnectionCount(id))
	}
}
