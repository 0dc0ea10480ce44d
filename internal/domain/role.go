package domain

// Role represents one of the four fixed roles dealt each round.
type Role string

const (
	RoleBabu   Role = "BABU"
	RolePolice Role = "POLICE"
	RoleChor   Role = "CHOR"
	RoleDakat  Role = "DAKAT"
)

// TableSize is the fixed number of participants in a game.
const TableSize = 4

// AllRoles returns the four roles in canonical order.
func AllRoles() []Role {
	return []Role{RoleBabu, RolePolice, RoleChor, RoleDakat}
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// GrantKind says when a role's points are awarded.
type GrantKind string

const (
	// GrantImmediate points are credited the moment roles are dealt.
	GrantImmediate GrantKind = "IMMEDIATE"

	// GrantContingent points depend on the outcome of the guess.
	GrantContingent GrantKind = "CONTINGENT"
)

// Grant is the point value attached to a role and when it pays out.
type Grant struct {
	Points int       `json:"points"`
	Kind   GrantKind `json:"kind"`
}

// Policy is a scoring table plus the rule for picking the round's
// guess target. Both shipped variants are instances of it.
type Policy struct {
	Name        string         `json:"name"`
	Grants      map[Role]Grant `json:"grants"`
	GuesserRole Role           `json:"guesserRole"`
	ExemptRoles []Role         `json:"exemptRoles"` // never suspects
	OddTarget   Role           `json:"oddTarget"`
	EvenTarget  Role           `json:"evenTarget"`
}

// ClassicPolicy returns the 1000/500/300/0 table where Police always
// hunts the Chor.
func ClassicPolicy() Policy {
	return Policy{
		Name: "classic",
		Grants: map[Role]Grant{
			RoleBabu:   {Points: 1000, Kind: GrantImmediate},
			RolePolice: {Points: 500, Kind: GrantContingent},
			RoleDakat:  {Points: 300, Kind: GrantImmediate},
			RoleChor:   {Points: 0, Kind: GrantContingent},
		},
		GuesserRole: RolePolice,
		ExemptRoles: []Role{RoleBabu, RolePolice},
		OddTarget:   RoleChor,
		EvenTarget:  RoleChor,
	}
}

// ExtendedPolicy returns the 900/800/600/400 table where the target
// alternates between Chor (odd rounds) and Dakat (even rounds).
func ExtendedPolicy() Policy {
	return Policy{
		Name: "extended",
		Grants: map[Role]Grant{
			RoleBabu:   {Points: 900, Kind: GrantImmediate},
			RolePolice: {Points: 800, Kind: GrantContingent},
			RoleDakat:  {Points: 600, Kind: GrantContingent},
			RoleChor:   {Points: 400, Kind: GrantContingent},
		},
		GuesserRole: RolePolice,
		ExemptRoles: []Role{RoleBabu, RolePolice},
		OddTarget:   RoleChor,
		EvenTarget:  RoleDakat,
	}
}

// PolicyByName resolves a configured policy name.
func PolicyByName(name string) (Policy, error) {
	switch name {
	case "classic":
		return ClassicPolicy(), nil
	case "extended":
		return ExtendedPolicy(), nil
	default:
		return Policy{}, ErrUnknownPolicy
	}
}

// TargetForRound returns the role the guesser must identify in the
// given 1-based round.
func (p Policy) TargetForRound(number int) Role {
	if number%2 == 0 {
		return p.EvenTarget
	}
	return p.OddTarget
}

// IsExempt reports whether holders of the role are above suspicion.
func (p Policy) IsExempt(r Role) bool {
	for _, e := range p.ExemptRoles {
		if e == r {
			return true
		}
	}
	return false
}
