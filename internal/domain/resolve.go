package domain

import (
	"fmt"
	"strings"
)

// ResolveGuess scores the guesser's pick against the round's actual
// assignment. It is a pure function of (policy, round, guess): it
// returns correctness, the contingent point deltas for the round and a
// human-readable outcome line, and mutates nothing. Immediate grants
// were applied when roles were dealt and are not re-applied here.
func ResolveGuess(p Policy, r *Round, roster map[string]*Participant, targetID string) (bool, map[string]int, string, error) {
	actualID, ok := r.HolderOf(r.TargetRole)
	if !ok {
		return false, nil, "", ErrRoleHolderMissing
	}

	target, ok := roster[targetID]
	if !ok {
		return false, nil, "", ErrInvalidTarget
	}
	targetRole, ok := r.Roles[targetID]
	if !ok {
		return false, nil, "", ErrInvalidTarget
	}
	if targetID == r.GuesserID || p.IsExempt(targetRole) {
		return false, nil, "", ErrInvalidTarget
	}

	correct := targetID == actualID
	guesserGrant := p.Grants[p.GuesserRole]

	deltas := make(map[string]int)
	for id, role := range r.Roles {
		g, ok := p.Grants[role]
		if !ok || g.Kind != GrantContingent {
			continue
		}
		switch {
		case role == p.GuesserRole:
			if correct {
				deltas[id] = g.Points
			}
		case role == r.TargetRole:
			// Caught: forfeits own grant. Escaped: keeps it and
			// collects the guesser's forfeited points on top.
			if !correct {
				deltas[id] = g.Points + guesserGrant.Points
			}
		default:
			deltas[id] = g.Points
		}
	}

	message := outcomeMessage(p, r, roster, target, correct)
	return correct, deltas, message, nil
}

func outcomeMessage(p Policy, r *Round, roster map[string]*Participant, target *Participant, correct bool) string {
	guesserName := target.Name
	if guesser, ok := roster[r.GuesserID]; ok {
		guesserName = guesser.Name
	}

	if correct {
		return fmt.Sprintf("%s guessed right: %s was the %s.", guesserName, target.Name, r.TargetRole)
	}

	// Reveal the true holders of every guessable role.
	reveals := make([]string, 0, 2)
	for _, role := range AllRoles() {
		if p.IsExempt(role) {
			continue
		}
		if id, ok := r.HolderOf(role); ok {
			if holder, ok := roster[id]; ok {
				reveals = append(reveals, fmt.Sprintf("%s was the %s", holder.Name, role))
			}
		}
	}
	return fmt.Sprintf("%s guessed wrong: %s.", guesserName, strings.Join(reveals, ", "))
}
