package ws

import "time"

// MessageType represents the type of WebSocket message.
type MessageType string

// Client → Server message types
const (
	MsgJoin    MessageType = "join"
	MsgShuffle MessageType = "shuffle"
	MsgGuess   MessageType = "guess"
	MsgRestart MessageType = "restart"
	MsgPing    MessageType = "ping"
)

// Server → Client message types. Game notifications are delivered as
// domain.GameEvent values; these cover the connection-level rest.
const (
	MsgConnected MessageType = "connected"
	MsgError     MessageType = "error"
	MsgPong      MessageType = "pong"
)

// ClientMessage represents a message from client to server.
type ClientMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// ServerMessage represents a connection-level message from server to
// client.
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp.
func NewServerMessage(msgType MessageType, payload interface{}) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Client message payloads

// JoinPayload is the payload for the join message.
type JoinPayload struct {
	Name string `json:"name"`
}

// GuessPayload is the payload for the guess message. The target is a
// participant ID; there is no name-based fallback.
type GuessPayload struct {
	TargetID string `json:"targetId"`
}

// Server message payloads

// ConnectedPayload is the payload for the connected message.
type ConnectedPayload struct {
	PlayerID string `json:"playerId"`
}

// ErrorPayload is the payload for the error message.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeInvalidMessage  = "INVALID_MESSAGE"
	ErrCodeEmptyName       = "EMPTY_NAME"
	ErrCodeAlreadyJoined   = "ALREADY_JOINED"
	ErrCodeNoGame          = "NO_GAME"
	ErrCodeNotReady        = "NOT_READY"
	ErrCodeRoundInProgress = "ROUND_IN_PROGRESS"
	ErrCodeNotAwaiting     = "NOT_AWAITING_GUESS"
	ErrCodeNotGuesser      = "NOT_GUESSER"
	ErrCodeInvalidTarget   = "INVALID_TARGET"
	ErrCodeInternalError   = "INTERNAL_ERROR"
)
