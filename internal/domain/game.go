package domain

import (
	"math/rand"
	"time"
)

// Game is one run of MaxRounds rounds among exactly four fixed
// participants. All methods assume the caller serializes access.
type Game struct {
	ID           string
	Participants map[string]*Participant
	Seats        []string // participant IDs in join order
	CurrentRound *Round
	History      []*Round
	Phase        Phase
	MaxRounds    int
	Policy       Policy
	CreatedAt    time.Time

	rng *rand.Rand
}

// NewGame seats exactly four participants at a fresh table.
func NewGame(id string, policy Policy, maxRounds int, seats []*Participant) (*Game, error) {
	if len(seats) != TableSize {
		return nil, ErrRosterSize
	}

	participants := make(map[string]*Participant, TableSize)
	order := make([]string, 0, TableSize)
	for _, p := range seats {
		if _, dup := participants[p.ID]; dup {
			return nil, ErrRosterSize
		}
		participants[p.ID] = p
		order = append(order, p.ID)
	}

	return &Game{
		ID:           id,
		Participants: participants,
		Seats:        order,
		History:      make([]*Round, 0, maxRounds),
		Phase:        PhaseReady,
		MaxRounds:    maxRounds,
		Policy:       policy,
		CreatedAt:    time.Now(),
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// StartRound deals roles for the next round. The starter must be
// seated and the table must be ready (not mid-round, not cooling
// down, not over).
func (g *Game) StartRound(starterID string) error {
	if _, ok := g.Participants[starterID]; !ok {
		return ErrNotSeated
	}
	if g.Phase == PhaseRound {
		return ErrRoundInProgress
	}
	if g.Phase != PhaseReady {
		return ErrNotReady
	}

	assignment, err := AssignRoles(g.rng, g.Seats)
	if err != nil {
		return err
	}

	number := len(g.History) + 1
	target := g.Policy.TargetForRound(number)
	guesserID, ok := holderOf(assignment, g.Policy.GuesserRole)
	if !ok {
		return ErrRoleHolderMissing
	}

	round := NewRound(number, assignment, target, guesserID)

	for id, p := range g.Participants {
		p.Role = assignment[id]
	}
	for id, pts := range ImmediateGrants(g.Policy, assignment) {
		g.Participants[id].Score += pts
		round.Deltas[id] += pts
	}

	g.CurrentRound = round
	g.Phase = PhaseRound

	return nil
}

// SubmitGuess resolves the active round with the guesser's pick and
// appends it to history. Contract violations during resolution leave
// all scores untouched.
func (g *Game) SubmitGuess(guesserID, targetID string) (*Round, error) {
	if g.Phase != PhaseRound || g.CurrentRound == nil {
		return nil, ErrNotAwaitingGuess
	}
	if guesserID != g.CurrentRound.GuesserID {
		return nil, ErrNotGuesser
	}

	correct, deltas, message, err := ResolveGuess(g.Policy, g.CurrentRound, g.Participants, targetID)
	if err != nil {
		return nil, err
	}

	round := g.CurrentRound
	for id, pts := range deltas {
		g.Participants[id].Score += pts
		round.Deltas[id] += pts
	}

	round.GuessedID = targetID
	round.Message = message
	round.ResolvedAt = time.Now()
	if correct {
		round.Outcome = OutcomeCorrect
	} else {
		round.Outcome = OutcomeIncorrect
	}

	g.History = append(g.History, round)
	if len(g.History) >= g.MaxRounds {
		g.Phase = PhaseGameOver
	} else {
		g.Phase = PhaseResolved
	}

	return round, nil
}

// FinishCooldown re-arms the start signal after a resolved round.
// Returns false if the game is not in the cooldown window.
func (g *Game) FinishCooldown() bool {
	if g.Phase != PhaseResolved {
		return false
	}
	for _, p := range g.Participants {
		p.ClearRole()
	}
	g.Phase = PhaseReady
	return true
}

// Over reports whether the final round has been resolved.
func (g *Game) Over() bool {
	return g.Phase == PhaseGameOver
}

// RoundsPlayed returns the number of resolved rounds.
func (g *Game) RoundsPlayed() int {
	return len(g.History)
}

// Winners returns the participant(s) holding the maximum cumulative
// score, in seat order. Ties report everyone tied.
func (g *Game) Winners() []*Participant {
	best := 0
	for i, id := range g.Seats {
		if i == 0 || g.Participants[id].Score > best {
			best = g.Participants[id].Score
		}
	}

	winners := make([]*Participant, 0, 1)
	for _, id := range g.Seats {
		if g.Participants[id].Score == best {
			winners = append(winners, g.Participants[id])
		}
	}
	return winners
}

// Scoreboard returns the cumulative scores in seat order.
func (g *Game) Scoreboard() []ScoreEntry {
	entries := make([]ScoreEntry, 0, len(g.Seats))
	for _, id := range g.Seats {
		entries = append(entries, g.Participants[id].ScoreEntry())
	}
	return entries
}

// Suspects returns the participants the guesser may accuse this
// round: holders of non-exempt roles, excluding the guesser.
func (g *Game) Suspects() []Ref {
	if g.CurrentRound == nil {
		return nil
	}

	suspects := make([]Ref, 0, TableSize-len(g.Policy.ExemptRoles))
	for _, id := range g.Seats {
		role := g.CurrentRound.Roles[id]
		if id == g.CurrentRound.GuesserID || g.Policy.IsExempt(role) {
			continue
		}
		suspects = append(suspects, g.Participants[id].Ref())
	}
	return suspects
}

// HistorySummaries returns the wire form of the finalized rounds.
func (g *Game) HistorySummaries() []RoundSummary {
	summaries := make([]RoundSummary, 0, len(g.History))
	for _, r := range g.History {
		summaries = append(summaries, r.Summary())
	}
	return summaries
}

func holderOf(assignment map[string]Role, role Role) (string, bool) {
	for id, held := range assignment {
		if held == role {
			return id, true
		}
	}
	return "", false
}
