package domain

import "time"

// EventType represents the type of game event.
type EventType string

const (
	EventRosterUpdate   EventType = "ROSTER_UPDATE"
	EventGameStarted    EventType = "GAME_STARTED"
	EventRolesAssigned  EventType = "ROLES_ASSIGNED"
	EventGuessRequested EventType = "GUESS_REQUESTED"
	EventRoundResolved  EventType = "ROUND_RESOLVED"
	EventRoundReady     EventType = "ROUND_READY"
	EventGameOver       EventType = "GAME_OVER"
	EventPlayerLeft     EventType = "PLAYER_LEFT"
	EventGameReset      EventType = "GAME_RESET"
)

// GameEvent is an outbound notification, either broadcast to a whole
// table or addressed to a single participant.
type GameEvent struct {
	Type      EventType   `json:"type"`
	TableID   string      `json:"tableId,omitempty"`
	PlayerID  string      `json:"playerId,omitempty"` // If event is player-specific
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a table-wide game event.
func NewEvent(eventType EventType, tableID string, payload interface{}) *GameEvent {
	return &GameEvent{
		Type:      eventType,
		TableID:   tableID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// NewPlayerEvent creates a game event addressed to a single player.
func NewPlayerEvent(eventType EventType, tableID, playerID string, payload interface{}) *GameEvent {
	return &GameEvent{
		Type:      eventType,
		TableID:   tableID,
		PlayerID:  playerID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// Payload types for different events

// RosterUpdatePayload lists the names waiting in the lobby.
type RosterUpdatePayload struct {
	Waiting []string `json:"waiting"`
}

// GameStartedPayload is broadcast when four players are seated.
type GameStartedPayload struct {
	TableID   string       `json:"tableId"`
	Players   []ScoreEntry `json:"players"`
	MaxRounds int          `json:"maxRounds"`
	Policy    string       `json:"policy"`
}

// RoleAssignedPayload is sent to each player with their own role.
type RoleAssignedPayload struct {
	Role       Role           `json:"role"`
	Round      int            `json:"round"`
	MaxRounds  int            `json:"maxRounds"`
	Scoreboard []ScoreEntry   `json:"scoreboard"`
	History    []RoundSummary `json:"history"`
}

// GuessRequestPayload is sent to the guesser only.
type GuessRequestPayload struct {
	TargetRole Role  `json:"targetRole"`
	Suspects   []Ref `json:"suspects"`
}

// RoundResultPayload is broadcast when a guess resolves the round.
type RoundResultPayload struct {
	Round           int            `json:"round"`
	Correct         bool           `json:"correct"`
	Message         string         `json:"message"`
	Scoreboard      []ScoreEntry   `json:"scoreboard"`
	History         []RoundSummary `json:"history"`
	CooldownSeconds int            `json:"cooldownSeconds"`
	GameOver        bool           `json:"gameOver"`
}

// GameOverPayload is broadcast after the final round resolves.
type GameOverPayload struct {
	Winners    []string       `json:"winners"`
	Scoreboard []ScoreEntry   `json:"scoreboard"`
	History    []RoundSummary `json:"history"`
}

// PlayerLeftPayload is sent to survivors when a seated player leaves.
type PlayerLeftPayload struct {
	Name string `json:"name"`
}

// GameResetPayload is broadcast when a table is torn down.
type GameResetPayload struct {
	Reason string `json:"reason"`
}

// RoundSummary is the immutable wire form of a finalized round.
type RoundSummary struct {
	Number     int     `json:"number"`
	TargetRole Role    `json:"targetRole"`
	Outcome    Outcome `json:"outcome"`
	Message    string  `json:"message"`
}
