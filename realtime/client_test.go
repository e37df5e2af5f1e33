package realtime

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientDeliver(t *testing.T) {
	t.Run("queues frames until the buffer fills", func(t *testing.T) {
		client := NewClient(nil, NewRegistry())

		for i := 0; i < sendBuffer; i++ {
			assert.True(t, client.Deliver([]byte(fmt.Sprintf("frame %d", i))))
		}
		// The queue is full and nobody is draining it; the frame is
		// dropped instead of blocking the sender.
		assert.False(t, client.Deliver([]byte("one too many")))
	})

	t.Run("a finished client accepts nothing", func(t *testing.T) {
		client := NewClient(nil, NewRegistry())
		close(client.done)

		assert.False(t, client.Deliver([]byte("frame")))
	})
}

func TestClientHandleFrame(t *testing.T) {
	t.Run("join subscribes the client", func(t *testing.T) {
		registry := NewRegistry()
		client := NewClient(nil, registry)

		client.handleFrame([]byte(`{"type":"join","roomId":"r1"}`))

		members := registry.MembersOf("r1")
		require.Len(t, members, 1)
		assert.Same(t, client, members[0].(*Client))
	})

	t.Run("a second join switches rooms", func(t *testing.T) {
		registry := NewRegistry()
		client := NewClient(nil, registry)

		client.handleFrame([]byte(`{"type":"join","roomId":"r1"}`))
		client.handleFrame([]byte(`{"type":"join","roomId":"r2"}`))

		assert.Empty(t, registry.MembersOf("r1"))
		assert.Len(t, registry.MembersOf("r2"), 1)
	})

	t.Run("bad and unknown frames change nothing", func(t *testing.T) {
		registry := NewRegistry()
		client := NewClient(nil, registry)

		client.handleFrame([]byte(`{"type":"join","roomId":"r1"}`))
		client.handleFrame([]byte(`not json`))
		client.handleFrame([]byte(`{"type":"join"}`))
		client.handleFrame([]byte(`{"type":"cursor","roomId":"r2"}`))

		assert.Len(t, registry.MembersOf("r1"), 1)
		assert.Empty(t, registry.MembersOf("r2"))
	})
}
