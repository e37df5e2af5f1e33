package services

import (
	"context"
	"encoding/json"

	"github.com/mayankbisht-tech/excelidraw/logger"
	"github.com/mayankbisht-tech/excelidraw/realtime"
	"github.com/mayankbisht-tech/excelidraw/shared"
)

// ShapeStore is the persistence surface the service writes through. The
// gorm-backed implementation lives in the database package; tests use a spy.
type ShapeStore interface {
	UpsertShape(ctx context.Context, roomId, shapeId, shapeType string, props json.RawMessage) (*shared.Shape, error)
	ListShapes(ctx context.Context, roomId string) ([]shared.Shape, error)
}

// Broadcaster pushes a frame to every live member of a room, best-effort.
type Broadcaster interface {
	Broadcast(roomId string, message []byte)
}

// ShapeService ingests shape mutations and assembles room snapshots. The
// ordering contract is persist-then-broadcast: a frame only ever goes out
// for a mutation that is already durable, so a client that misses the
// frame still sees the mutation on its next snapshot fetch.
type ShapeService struct {
	store       ShapeStore
	broadcaster Broadcaster
}

func NewShapeService(store ShapeStore, broadcaster Broadcaster) *ShapeService {
	return &ShapeService{
		store:       store,
		broadcaster: broadcaster,
	}
}

// Submit validates, persists, and fans out one shape mutation. It returns
// the submitted payload verbatim as the acknowledgment. A store failure
// aborts before any frame is sent; a delivery failure to one member never
// surfaces here because the mutation is already durable by then.
func (shapeService *ShapeService) Submit(ctx context.Context, roomId string, payload []byte) (json.RawMessage, error) {
	mutation, err := shared.ParseShapeMutation(payload)
	if err != nil {
		return nil, err
	}

	if _, err := shapeService.store.UpsertShape(ctx, roomId, mutation.Id, mutation.Type, mutation.Props); err != nil {
		logger.Error("failed to persist shape %s in room %s: %v", mutation.Id, roomId, err)
		return nil, err
	}

	frame, err := realtime.NewShapeFrame(mutation.Payload)
	if err != nil {
		// The mutation is durable; the room just misses one push and
		// reconciles via snapshot.
		logger.Error("failed to build fan-out frame for shape %s: %v", mutation.Id, err)
		return mutation.Payload, nil
	}
	shapeService.broadcaster.Broadcast(roomId, frame)

	return mutation.Payload, nil
}

// Snapshot returns the room's current shapes in their flattened wire form.
// It reads straight through to the store, so it always reflects the latest
// committed state; an unknown room is just an empty one.
func (shapeService *ShapeService) Snapshot(ctx context.Context, roomId string) ([]map[string]interface{}, error) {
	shapes, err := shapeService.store.ListShapes(ctx, roomId)
	if err != nil {
		return nil, err
	}

	normalized := make([]map[string]interface{}, 0, len(shapes))
	for i := range shapes {
		flat, err := shapes[i].Normalized()
		if err != nil {
			return nil, err
		}
		normalized = append(normalized, flat)
	}
	return normalized, nil
}
