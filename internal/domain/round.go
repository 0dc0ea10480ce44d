package domain

import "time"

// Outcome is the resolution state of a round.
type Outcome string

const (
	OutcomePending   Outcome = "PENDING"
	OutcomeCorrect   Outcome = "CORRECT"
	OutcomeIncorrect Outcome = "INCORRECT"
)

// Round records one deal of roles through its guess resolution. Once
// resolved and appended to the game history it is never mutated again.
type Round struct {
	Number     int             `json:"number"`
	Roles      map[string]Role `json:"roles"` // participant ID -> role
	TargetRole Role            `json:"targetRole"`
	GuesserID  string          `json:"guesserId"`
	GuessedID  string          `json:"guessedId,omitempty"`
	Outcome    Outcome         `json:"outcome"`
	Deltas     map[string]int  `json:"deltas"` // all points applied this round
	Message    string          `json:"message,omitempty"`
	StartedAt  time.Time       `json:"startedAt"`
	ResolvedAt time.Time       `json:"resolvedAt,omitempty"`
}

// NewRound creates a pending round for the given assignment.
func NewRound(number int, assignment map[string]Role, target Role, guesserID string) *Round {
	return &Round{
		Number:     number,
		Roles:      assignment,
		TargetRole: target,
		GuesserID:  guesserID,
		Outcome:    OutcomePending,
		Deltas:     make(map[string]int),
		StartedAt:  time.Now(),
	}
}

// HolderOf returns the participant holding the given role this round.
func (r *Round) HolderOf(role Role) (string, bool) {
	for id, held := range r.Roles {
		if held == role {
			return id, true
		}
	}
	return "", false
}

// Resolved reports whether the round's guess has been resolved.
func (r *Round) Resolved() bool {
	return r.Outcome != OutcomePending
}

// Summary returns the round's wire representation for history lists.
func (r *Round) Summary() RoundSummary {
	return RoundSummary{
		Number:     r.Number,
		TargetRole: r.TargetRole,
		Outcome:    r.Outcome,
		Message:    r.Message,
	}
}
