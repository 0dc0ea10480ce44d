package domain

// Phase represents the current phase of a game.
type Phase string

const (
	PhaseReady    Phase = "READY"        // Shuffle may be sent
	PhaseRound    Phase = "ROUND_ACTIVE" // Roles dealt, awaiting the guess
	PhaseResolved Phase = "RESOLVED"     // Guess resolved, cooldown pending
	PhaseGameOver Phase = "GAME_OVER"    // Final round resolved, awaiting restart
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	return string(p)
}

// CanTransitionTo checks if a transition from the current phase to the
// target phase is valid.
func (p Phase) CanTransitionTo(target Phase) bool {
	validTransitions := map[Phase][]Phase{
		PhaseReady:    {PhaseRound},
		PhaseRound:    {PhaseResolved, PhaseGameOver},
		PhaseResolved: {PhaseReady},
		PhaseGameOver: {},
	}

	allowed, ok := validTransitions[p]
	if !ok {
		return false
	}

	for _, phase := range allowed {
		if phase == target {
			return true
		}
	}
	return false
}
