package domain

import "time"

// Participant is a named player, either waiting in the lobby or seated
// at a table. The zero score and empty role are the lobby state.
type Participant struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Score    int       `json:"score"`
	Role     Role      `json:"role,omitempty"`
	JoinedAt time.Time `json:"joinedAt"`
}

// NewParticipant creates a participant with the given connection ID
// and display name.
func NewParticipant(id, name string) *Participant {
	return &Participant{
		ID:       id,
		Name:     name,
		JoinedAt: time.Now(),
	}
}

// ClearRole removes the participant's current role between rounds.
func (p *Participant) ClearRole() {
	p.Role = ""
}

// ResetForLobby clears all game state before returning to the waiting
// pool.
func (p *Participant) ResetForLobby() {
	p.Score = 0
	p.Role = ""
}

// Ref identifies a participant without exposing score or role.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Ref returns the participant's wire identifier.
func (p *Participant) Ref() Ref {
	return Ref{ID: p.ID, Name: p.Name}
}

// ScoreEntry is one scoreboard line.
type ScoreEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// ScoreEntry returns the participant's scoreboard line.
func (p *Participant) ScoreEntry() ScoreEntry {
	return ScoreEntry{ID: p.ID, Name: p.Name, Score: p.Score}
}
