package affect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoDefensesWhenSafeAndOpen(t *testing.T) {
	s := newTestState()
	s.Internal[Vulnerability] = 0.8
	s.Internal[Safety] = 0.8
	assert.Empty(t, evaluateDefenses(&s))
}

func TestEveryDefenseHasRule(t *testing.T) {
	for k, rule := range defenseRules {
		assert.NotNil(t, rule.strength, Defense(k).String())
	}
	assert.Nil(t, defenseRules[Displacement].distort, "displacement only redirects attitude")
	for _, k := range []Defense{ReactionFormation, Denial, Projection} {
		assert.NotNil(t, defenseRules[k].distort, k.String())
	}
}

func TestProjectionOnLostAutonomy(t *testing.T) {
	s := newTestState()
	s.Internal[Autonomy] = 0.1

	got := evaluateDefenses(&s)
	require.Len(t, got, 1)
	assert.Equal(t, Projection, got[0].Kind)
	assert.InDelta(t, 0.72, got[0].Strength, 1e-9)

	s.Defenses = got
	express(&s, Regulation{Suppression: 1})
	assert.Greater(t, s.Expressed[Anger], s.Internal[Anger])
}

func TestDefensesRankedAndCapped(t *testing.T) {
	s := newTestState()
	s.Internal[Vulnerability] = 0.9
	s.Internal[Safety] = 0.1
	s.Internal[Anger] = 0.9

	got := evaluateDefenses(&s)
	require.Len(t, got, maxActiveDefenses)
	assert.Equal(t, ReactionFormation, got[0].Kind)
	assert.Equal(t, Intellectualization, got[1].Kind)
	assert.Equal(t, Compensation, got[2].Kind)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Strength, got[i].Strength)
	}
}

func TestFatigueLowersDefenseGate(t *testing.T) {
	s := newTestState()
	s.Personality[Pride] = 0.3
	s.Personality[FearOfVulnerability] = 0.3
	s.Patterns[Perfectionism] = 0.3
	s.Internal[Anger] = 0.6
	s.Internal[Shame] = 0.4
	assert.Empty(t, evaluateDefenses(&s))

	s.Fatigue = MaxFatigue
	got := evaluateDefenses(&s)
	require.Len(t, got, 1)
	assert.Equal(t, Displacement, got[0].Kind)
}

func TestExpressPrideMasksVulnerability(t *testing.T) {
	s := newTestState()
	express(&s, Regulation{Suppression: 1})
	assert.Less(t, s.Expressed[Vulnerability], s.Internal[Vulnerability])
	assert.Greater(t, s.Facade, 0.0)
	assert.LessOrEqual(t, s.Facade, 1.0)
}

func TestExpressSuppression(t *testing.T) {
	s := newTestState()
	s.Personality[Pride] = 0.3
	express(&s, Regulation{Suppression: 1})
	open := s.Expressed[Fear]

	express(&s, Regulation{Suppression: 0.4})
	assert.Less(t, s.Expressed[Fear], open)
}

func TestExpressFatigueUnmasks(t *testing.T) {
	s := newTestState()
	express(&s, Regulation{Suppression: 0.3})
	rested := s.Facade

	s.Fatigue = MaxFatigue
	express(&s, Regulation{Suppression: 0.3})
	assert.Less(t, s.Facade, rested)
}
