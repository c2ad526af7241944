package headless

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/amalg/go-labyrinth/internal/maze"
)

// RecordType identifies the type of trace record.
type RecordType string

const (
	RecordStart RecordType = "start"
	RecordFrame RecordType = "frame"
	RecordEnd   RecordType = "end"
)

// Envelope wraps all records with a type discriminator for deserialization.
type Envelope struct {
	Type    RecordType      `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// StartRecord describes the scene a run starts from.
type StartRecord struct {
	Pose   maze.Pose   `json:"pose"`
	Entity maze.Entity `json:"entity"`
	Walls  int         `json:"walls"`
	Ticks  int         `json:"ticks"`
}

// FrameRecord is written after every tick.
type FrameRecord struct {
	Tick      uint64      `json:"tick"`
	Keys      []string    `json:"keys,omitempty"`
	Pose      maze.Pose   `json:"pose"`
	Entity    string      `json:"entity"`
	Animation string      `json:"animation,omitempty"`
	Moving    bool        `json:"moving"`
	Blocked   bool        `json:"blocked"`
	Camera    maze.Camera `json:"camera"`
}

// EndRecord summarizes a run.
type EndRecord struct {
	Pose     maze.Pose `json:"pose"`
	Ticks    uint64    `json:"ticks"`
	Rejected uint64    `json:"rejected"`
}

// Encode serializes a record and writes it as one JSON line.
func Encode(w io.Writer, typ RecordType, payload interface{}) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	env := Envelope{
		Type:    typ,
		Payload: json.RawMessage(payloadBytes),
	}

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	body = append(body, '\n')
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

// Decode reads the next record from a trace stream.
func Decode(d *json.Decoder) (*Envelope, error) {
	var env Envelope
	if err := d.Decode(&env); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &env, nil
}

// DecodePayload unmarshals the payload from an envelope into the target struct.
func DecodePayload(env *Envelope, target interface{}) error {
	return json.Unmarshal(env.Payload, target)
}
