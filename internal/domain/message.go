package domain

import "encoding/json"

// Client -> server message types.
const (
	TypeCommand       = "command"
	TypeSetMode       = "set_mode"
	TypeControlStream = "control_stream"
)

// Server -> client message types.
const (
	TypeResponse     = "response"
	TypeModeStatus   = "mode_status"
	TypeStreamStatus = "stream_status"
	TypeError        = "error"
)

// control_stream actions.
const (
	ActionWatch = "WATCH"
	ActionStop  = "STOP"
)

// stream_status values.
const (
	StreamStarted = "started"
	StreamStopped = "stopped"
	StreamFailed  = "failed"
)

// Envelope is the wire format in both directions: exactly one type tag and
// one payload per message.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope wraps a payload for sending.
func NewEnvelope(typ string, payload any) Envelope {
	raw, _ := json.Marshal(payload)
	return Envelope{Type: typ, Payload: raw}
}

type CommandPayload struct {
	Text string `json:"text"`
}

type SetModePayload struct {
	Mode string `json:"mode"`
}

type ControlStreamPayload struct {
	Action string `json:"action"`
}

type ResponsePayload struct {
	Text string `json:"text"`
}

type ModeStatusPayload struct {
	Mode Mode `json:"mode"`
}

type StreamStatusPayload struct {
	Status string `json:"status"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
