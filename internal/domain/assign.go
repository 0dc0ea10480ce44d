package domain

import "math/rand"

// AssignRoles deals the four roles to the given participant IDs as a
// uniform random permutation (Fisher-Yates via rand.Shuffle, so every
// one of the 24 assignments is equally likely).
func AssignRoles(rng *rand.Rand, ids []string) (map[string]Role, error) {
	if len(ids) != TableSize {
		return nil, ErrRosterSize
	}

	roles := AllRoles()
	rng.Shuffle(len(roles), func(i, j int) {
		roles[i], roles[j] = roles[j], roles[i]
	})

	assignment := make(map[string]Role, TableSize)
	for i, id := range ids {
		if _, dup := assignment[id]; dup {
			return nil, ErrRosterSize
		}
		assignment[id] = roles[i]
	}

	return assignment, nil
}

// ImmediateGrants returns the fixed points owed at assignment time,
// keyed by participant ID. Contingent grants wait for the guess.
func ImmediateGrants(p Policy, assignment map[string]Role) map[string]int {
	deltas := make(map[string]int)
	for id, role := range assignment {
		if g, ok := p.Grants[role]; ok && g.Kind == GrantImmediate && g.Points != 0 {
			deltas[id] = g.Points
		}
	}
	return deltas
}
