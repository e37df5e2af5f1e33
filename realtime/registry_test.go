package realtime

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMember records every frame delivered to it. reject simulates a
// member whose send queue is full.
type fakeMember struct {
	mu     sync.Mutex
	name   string
	frames [][]byte
	reject bool
}

func (m *fakeMember) Deliver(message []byte) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reject {
		return false
	}
	m.frames = append(m.frames, message)
	return true
}

func (m *fakeMember) delivered() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.frames...)
}

func TestRegistryJoinAndMembersOf(t *testing.T) {
	t.Run("join adds member to room", func(t *testing.T) {
		registry := NewRegistry()
		member := &fakeMember{name: "a"}

		registry.Join("r1", member)

		members := registry.MembersOf("r1")
		require.Len(t, members, 1)
		assert.Same(t, member, members[0].(*fakeMember))
	})

	t.Run("join is idempotent for the same room", func(t *testing.T) {
		registry := NewRegistry()
		member := &fakeMember{name: "a"}

		registry.Join("r1", member)
		registry.Join("r1", member)

		assert.Len(t, registry.MembersOf("r1"), 1)
	})

	t.Run("joining a second room moves the member", func(t *testing.T) {
		registry := NewRegistry()
		member := &fakeMember{name: "a"}

		registry.Join("r1", member)
		registry.Join("r2", member)

		assert.Empty(t, registry.MembersOf("r1"))
		assert.Len(t, registry.MembersOf("r2"), 1)
	})

	t.Run("unknown room reads as empty", func(t *testing.T) {
		registry := NewRegistry()
		assert.Empty(t, registry.MembersOf("nope"))
	})
}

func TestRegistryLeave(t *testing.T) {
	t.Run("leave removes the member", func(t *testing.T) {
		registry := NewRegistry()
		member := &fakeMember{name: "a"}

		registry.Join("r1", member)
		registry.Leave(member)

		assert.Empty(t, registry.MembersOf("r1"))
	})

	t.Run("leave is safe to repeat", func(t *testing.T) {
		registry := NewRegistry()
		member := &fakeMember{name: "a"}

		registry.Join("r1", member)
		registry.Leave(member)
		registry.Leave(member)

		assert.Empty(t, registry.MembersOf("r1"))
	})

	t.Run("leave of a member that never joined is a no-op", func(t *testing.T) {
		registry := NewRegistry()
		registry.Leave(&fakeMember{name: "stranger"})
	})

	t.Run("leave does not disturb other members", func(t *testing.T) {
		registry := NewRegistry()
		leaving := &fakeMember{name: "a"}
		staying := &fakeMember{name: "b"}

		registry.Join("r1", leaving)
		registry.Join("r1", staying)
		registry.Leave(leaving)

		members := registry.MembersOf("r1")
		require.Len(t, members, 1)
		assert.Same(t, staying, members[0].(*fakeMember))
	})
}

func TestRegistryMembersOfIsASnapshot(t *testing.T) {
	registry := NewRegistry()
	first := &fakeMember{name: "a"}
	registry.Join("r1", first)

	snapshot := registry.MembersOf("r1")
	registry.Join("r1", &fakeMember{name: "b"})
	registry.Leave(first)

	// The slice taken before the mutations still reflects that instant.
	require.Len(t, snapshot, 1)
	assert.Same(t, first, snapshot[0].(*fakeMember))
}

func TestRegistryBroadcast(t *testing.T) {
	t.Run("every member of the room gets the identical frame", func(t *testing.T) {
		registry := NewRegistry()
		first := &fakeMember{name: "a"}
		second := &fakeMember{name: "b"}
		registry.Join("r1", first)
		registry.Join("r1", second)

		frame := []byte(`{"type":"shape","shape":{"id":"s1","type":"rect","x":10,"y":20}}`)
		registry.Broadcast("r1", frame)

		require.Len(t, first.delivered(), 1)
		require.Len(t, second.delivered(), 1)
		assert.Equal(t, frame, first.delivered()[0])
		assert.Equal(t, frame, second.delivered()[0])
	})

	t.Run("members of other rooms receive nothing", func(t *testing.T) {
		registry := NewRegistry()
		inRoom := &fakeMember{name: "a"}
		elsewhere := &fakeMember{name: "b"}
		registry.Join("r1", inRoom)
		registry.Join("r2", elsewhere)

		registry.Broadcast("r1", []byte(`{"type":"shape"}`))

		assert.Len(t, inRoom.delivered(), 1)
		assert.Empty(t, elsewhere.delivered())
	})

	t.Run("a failing member does not block the rest", func(t *testing.T) {
		registry := NewRegistry()
		broken := &fakeMember{name: "a", reject: true}
		healthy := &fakeMember{name: "b"}
		registry.Join("r1", broken)
		registry.Join("r1", healthy)

		registry.Broadcast("r1", []byte(`{"type":"shape"}`))

		assert.Len(t, healthy.delivered(), 1)
	})

	t.Run("broadcast to an empty room is a no-op", func(t *testing.T) {
		registry := NewRegistry()
		registry.Broadcast("empty", []byte(`{"type":"shape"}`))
	})
}

func TestRegistryConcurrentAccess(t *testing.T) {
	registry := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		member := &fakeMember{name: fmt.Sprintf("m%d", i)}
		roomId := fmt.Sprintf("r%d", i%4)

		wg.Add(1)
		go func() {
			defer wg.Done()
			registry.Join(roomId, member)
			registry.Broadcast(roomId, []byte("frame"))
			for _, m := range registry.MembersOf(roomId) {
				m.Deliver([]byte("again"))
			}
			registry.Leave(member)
		}()
	}
	wg.Wait()

	for i := 0; i < 4; i++ {
		assert.Empty(t, registry.MembersOf(fmt.Sprintf("r%d", i)))
	}
}
