package services

import (
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/mayankbisht-tech/excelidraw/logger"
	"github.com/mayankbisht-tech/excelidraw/shared"
)

// RoomService handles explicit room creation. Rooms are also created
// implicitly on the first shape write, so this exists for clients that
// want a fresh shareable key up front.
type RoomService struct {
	state *shared.State
}

func NewRoomService(state *shared.State) *RoomService {
	return &RoomService{
		state: state,
	}
}

func (roomService *RoomService) Create() (*shared.Room, error) {
	roomId, err := gonanoid.Generate(shared.RoomKeyAlphabet, shared.RoomKeyLength)
	if err != nil {
		logger.Error("failed to generate room id: %v", err)
		return nil, err
	}

	room := &shared.Room{
		Id:        uuid.New().String(),
		RoomId:    roomId,
		CreatedAt: time.Now(),
	}

	result := roomService.state.Database.Create(room)
	if result.Error != nil {
		logger.Error("failed to create room in database: %v", result.Error)
		return nil, result.Error
	}

	return room, nil
}
