// Package realtime holds the live side of a room: the presence registry
// mapping room keys to connected clients, and the websocket session that
// feeds it. Nothing in this package touches the database; presence lives
// and dies with the process.
package realtime

import (
	"sync"

	"github.com/mayankbisht-tech/excelidraw/logger"
)

// Member is a live connection that can receive fan-out frames. Deliver
// must not block; it reports false when the frame had to be dropped.
type Member interface {
	Deliver(message []byte) bool
}

// Registry is the process-wide mapping of room key to the set of live
// members subscribed to it. A member belongs to at most one room at a
// time; joining a second room moves it. The registry is built once at
// server start and handed to everything that needs it, so tests can swap
// in their own.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[string]map[Member]struct{}
	joined map[Member]string
}

func NewRegistry() *Registry {
	return &Registry{
		rooms:  make(map[string]map[Member]struct{}),
		joined: make(map[Member]string),
	}
}

// Join subscribes member to roomId, first unsubscribing it from any room
// it was in. Joining the room it is already in is a no-op.
func (r *Registry) Join(roomId string, member Member) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.joined[member]; ok {
		if current == roomId {
			return
		}
		r.remove(current, member)
	}

	set, ok := r.rooms[roomId]
	if !ok {
		set = make(map[Member]struct{})
		r.rooms[roomId] = set
	}
	set[member] = struct{}{}
	r.joined[member] = roomId
}

// Leave unsubscribes member from whichever room it is in. Safe to call
// repeatedly or for a member that never joined.
func (r *Registry) Leave(member Member) {
	r.mu.Lock()
	defer r.mu.Unlock()

	roomId, ok := r.joined[member]
	if !ok {
		return
	}
	r.remove(roomId, member)
	delete(r.joined, member)
}

// remove drops member from a room's set and prunes the set when it empties.
// Callers must hold the write lock.
func (r *Registry) remove(roomId string, member Member) {
	set, ok := r.rooms[roomId]
	if !ok {
		return
	}
	delete(set, member)
	if len(set) == 0 {
		delete(r.rooms, roomId)
	}
}

// MembersOf returns a point-in-time copy of the room's member set. The
// returned slice is safe to iterate while joins and leaves continue
// elsewhere. An unknown room is an empty room.
func (r *Registry) MembersOf(roomId string) []Member {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.rooms[roomId]
	members := make([]Member, 0, len(set))
	for member := range set {
		members = append(members, member)
	}
	return members
}

// Broadcast pushes message to every member of the room. Delivery is
// best-effort and failure-isolated: a member that cannot keep up is
// skipped, never waited on, and never stops delivery to the rest.
func (r *Registry) Broadcast(roomId string, message []byte) {
	for _, member := range r.MembersOf(roomId) {
		if !member.Deliver(message) {
			logger.Debug("dropped frame for a member of room %s", roomId)
		}
	}
}
