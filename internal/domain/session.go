package domain

import "time"

// Mode is the per-session execution-risk posture consulted before a command
// is relayed to the executor.
type Mode string

const (
	ModeSafe Mode = "SAFE"
	ModeYolo Mode = "YOLO"
)

// ParseMode validates a client-provided mode string.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeSafe:
		return ModeSafe, true
	case ModeYolo:
		return ModeYolo, true
	}
	return "", false
}

// Counter kinds tracked per session.
const (
	CountCommand    = "command"
	CountModeChange = "mode"
	CountStreamOp   = "stream"
	CountError      = "error"
)

type MessageCounters struct {
	Commands    int `json:"commands"`
	ModeChanges int `json:"modeChanges"`
	StreamOps   int `json:"streamOps"`
	Errors      int `json:"errors"`
}

// Session is the registry record of one authenticated bidirectional
// connection. The live mode/streaming state is owned by the session's own
// dispatch loop; the record mirrors it for the read-only API.
type Session struct {
	ID         string          `json:"id"`
	ClientID   string          `json:"clientId"`
	ClientAddr string          `json:"clientAddr"`
	Mode       Mode            `json:"mode"`
	Streaming  bool            `json:"streaming"`
	StartedAt  time.Time       `json:"startedAt"`
	ClosedAt   *time.Time      `json:"closedAt"`
	Error      *string         `json:"error"`
	Messages   MessageCounters `json:"messages"`
	Evicted    bool            `json:"evicted"`
}
