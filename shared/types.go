package shared

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// State carries the process-wide dependencies handed to every handler.
type State struct {
	Database    *gorm.DB
	Environment string
}

// Room is a named collaboration session. RoomId is the externally-chosen
// key clients address the room by; Id is the surrogate primary key that
// shapes reference. Rooms are created explicitly via the room endpoint or
// implicitly on the first shape write.
type Room struct {
	Id        string    `json:"-"         gorm:"column:id;primaryKey"`
	RoomId    string    `json:"roomId"    gorm:"column:room_id"`
	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at"`
}

// Shape is a persisted drawable object. Props is an opaque attribute bag
// stored as jsonb; the server never inspects its contents. A shape id is
// unique across the whole system, not just within its room.
type Shape struct {
	Id        string          `json:"id"   gorm:"column:id;primaryKey"`
	Type      string          `json:"type" gorm:"column:type"`
	Props     json.RawMessage `json:"-"    gorm:"column:props"`
	RoomId    string          `json:"-"    gorm:"column:room_id"`
	CreatedAt time.Time       `json:"-"    gorm:"column:created_at"`
	UpdatedAt time.Time       `json:"-"    gorm:"column:updated_at"`
}

// Normalized flattens a stored shape into the wire form clients work with:
// id and type as sibling fields of every custom prop, nothing nested under
// a props key.
func (s *Shape) Normalized() (map[string]interface{}, error) {
	flat := map[string]interface{}{}
	if len(s.Props) > 0 {
		if err := json.Unmarshal(s.Props, &flat); err != nil {
			return nil, err
		}
	}
	flat["id"] = s.Id
	flat["type"] = s.Type
	return flat, nil
}
