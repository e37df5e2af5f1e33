package database

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mayankbisht-tech/excelidraw/shared"
)

// ShapeStore is the persistence boundary for rooms and shapes: point
// upserts keyed by shape id plus a per-room scan. The upsert is the only
// serialization point for concurrent edits to the same shape; last write
// committed wins.
type ShapeStore struct {
	db *gorm.DB
}

func NewShapeStore(db *gorm.DB) *ShapeStore {
	return &ShapeStore{db: db}
}

// UpsertShape makes sure the room row exists, then writes the shape row,
// fully replacing type and props when the id is already present. A shape
// id found under a different room is rejected with
// shared.ErrShapeRoomMismatch instead of moving the shape between rooms.
func (store *ShapeStore) UpsertShape(
	ctx context.Context,
	roomId string,
	shapeId string,
	shapeType string,
	props json.RawMessage,
) (*shared.Shape, error) {
	var shape shared.Shape

	err := store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room := shared.Room{
			Id:        uuid.New().String(),
			RoomId:    roomId,
			CreatedAt: time.Now(),
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "room_id"}},
			DoNothing: true,
		}).Create(&room).Error; err != nil {
			return err
		}
		// Reload to pick up the surrogate id when the room already existed.
		if err := tx.Where("room_id = ?", roomId).First(&room).Error; err != nil {
			return err
		}

		var existing shared.Shape
		err := tx.Select("room_id").Where("id = ?", shapeId).Take(&existing).Error
		if err == nil && existing.RoomId != room.Id {
			return shared.ErrShapeRoomMismatch
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := time.Now()
		shape = shared.Shape{
			Id:        shapeId,
			Type:      shapeType,
			Props:     props,
			RoomId:    room.Id,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"type", "props", "updated_at"}),
		}).Create(&shape).Error
	})
	if err != nil {
		if errors.Is(err, shared.ErrShapeRoomMismatch) {
			return nil, err
		}
		return nil, shared.NewStoreError(err)
	}

	return &shape, nil
}

// ListShapes returns the room's shapes in creation order. An unknown room
// is indistinguishable from an empty one: both come back as an empty
// slice with no error.
func (store *ShapeStore) ListShapes(ctx context.Context, roomId string) ([]shared.Shape, error) {
	var room shared.Room
	err := store.db.WithContext(ctx).Where("room_id = ?", roomId).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, shared.NewStoreError(err)
	}

	var shapes []shared.Shape
	if err := store.db.WithContext(ctx).
		Where("room_id = ?", room.Id).
		Order("created_at, id").
		Find(&shapes).Error; err != nil {
		return nil, shared.NewStoreError(err)
	}
	return shapes, nil
}
