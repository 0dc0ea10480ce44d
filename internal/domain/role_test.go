package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyByName(t *testing.T) {
	classic, err := PolicyByName("classic")
	require.NoError(t, err)
	assert.Equal(t, "classic", classic.Name)

	extended, err := PolicyByName("extended")
	require.NoError(t, err)
	assert.Equal(t, "extended", extended.Name)

	_, err = PolicyByName("bogus")
	assert.ErrorIs(t, err, ErrUnknownPolicy)
}

func TestClassicPolicyAlwaysTargetsChor(t *testing.T) {
	p := ClassicPolicy()
	for round := 1; round <= 10; round++ {
		assert.Equal(t, RoleChor, p.TargetForRound(round), "round %d", round)
	}
}

func TestExtendedPolicyAlternatesTarget(t *testing.T) {
	p := ExtendedPolicy()

	assert.Equal(t, RoleChor, p.TargetForRound(1))
	assert.Equal(t, RoleDakat, p.TargetForRound(2))
	assert.Equal(t, RoleChor, p.TargetForRound(3))
	assert.Equal(t, RoleDakat, p.TargetForRound(10))
}

func TestPolicyExemptions(t *testing.T) {
	for _, p := range []Policy{ClassicPolicy(), ExtendedPolicy()} {
		assert.True(t, p.IsExempt(RoleBabu), "%s: Babu is above suspicion", p.Name)
		assert.True(t, p.IsExempt(RolePolice), "%s: Police is above suspicion", p.Name)
		assert.False(t, p.IsExempt(RoleChor), "%s", p.Name)
		assert.False(t, p.IsExempt(RoleDakat), "%s", p.Name)
		assert.Equal(t, RolePolice, p.GuesserRole, "%s", p.Name)
	}
}

func TestPhaseTransitions(t *testing.T) {
	assert.True(t, PhaseReady.CanTransitionTo(PhaseRound))
	assert.True(t, PhaseRound.CanTransitionTo(PhaseResolved))
	assert.True(t, PhaseRound.CanTransitionTo(PhaseGameOver))
	assert.True(t, PhaseResolved.CanTransitionTo(PhaseReady))

	assert.False(t, PhaseReady.CanTransitionTo(PhaseResolved))
	assert.False(t, PhaseResolved.CanTransitionTo(PhaseRound))
	assert.False(t, PhaseGameOver.CanTransitionTo(PhaseRound))
	assert.False(t, PhaseGameOver.CanTransitionTo(PhaseReady))
}
