package shared

import (
	"encoding/json"
)

// ShapeMutation is a client-submitted shape edit, split into the fields the
// core cares about and the opaque remainder. Payload keeps the submitted
// body verbatim so the ack and the fan-out frame echo exactly what the
// client sent, never the normalized stored form.
type ShapeMutation struct {
	Id      string
	Type    string
	Props   json.RawMessage
	Payload json.RawMessage
}

// ParseShapeMutation decodes and validates a submitted shape body. The id
// and type fields must be present, non-empty strings; everything else is
// carried along as props without inspection.
func ParseShapeMutation(payload []byte) (*ShapeMutation, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, NewClientError("Invalid shape data. 'id' and 'type' are required.")
	}

	id := stringField(fields, "id")
	shapeType := stringField(fields, "type")
	if id == "" || shapeType == "" {
		return nil, NewClientError("Invalid shape data. 'id' and 'type' are required.")
	}

	delete(fields, "id")
	delete(fields, "type")
	props, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}

	return &ShapeMutation{
		Id:      id,
		Type:    shapeType,
		Props:   props,
		Payload: append(json.RawMessage(nil), payload...),
	}, nil
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}
	return value
}
