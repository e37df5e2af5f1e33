package realtime

import (
	"encoding/json"

	"github.com/mayankbisht-tech/excelidraw/shared"
)

// Client-to-server frame types.
const (
	FrameJoin = "join"
)

// ServerFrameShape is the type tag on server-to-client shape fan-out frames.
const ServerFrameShape = "shape"

// ClientFrame is a message received from a client over the live channel.
// The only frame the server acts on is join, which subscribes (or moves)
// the connection to a room.
type ClientFrame struct {
	Type   string `json:"type"`
	RoomId string `json:"roomId"`
}

// ParseClientFrame decodes a client frame and checks it carries a usable
// type. Unknown types are the caller's problem; malformed JSON is an error.
func ParseClientFrame(data []byte) (*ClientFrame, error) {
	var frame ClientFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, shared.NewClientError("malformed frame")
	}
	if frame.Type == "" {
		return nil, shared.NewClientError("frame is missing a type")
	}
	if frame.Type == FrameJoin && frame.RoomId == "" {
		return nil, shared.NewClientError("join frame is missing a roomId")
	}
	return &frame, nil
}

// NewShapeFrame builds the fan-out frame for a shape mutation. The shape
// payload is embedded verbatim, exactly as the originator submitted it.
func NewShapeFrame(shape json.RawMessage) ([]byte, error) {
	return json.Marshal(struct {
		Type  string          `json:"type"`
		Shape json.RawMessage `json:"shape"`
	}{
		Type:  ServerFrameShape,
		Shape: shape,
	})
}
