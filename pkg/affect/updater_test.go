package affect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReflect(t *testing.T) {
	assert.InDelta(t, 0.94, reflect(1.2), 1e-9)
	assert.InDelta(t, 0.06, reflect(-0.2), 1e-9)
	assert.Equal(t, 0.5, reflect(0.5))
	assert.InDelta(t, 0.3, reflect(-1), 1e-9)
}

func TestMaxChange(t *testing.T) {
	d := Dynamics{Volatility: 0.5}
	assert.InDelta(t, 0.55, maxChange(d, false), 1e-9)
	assert.InDelta(t, 0.99, maxChange(d, true), 1e-9)
}

func TestUpdateInternalRespectsInertia(t *testing.T) {
	s := newTestState()
	s.Dynamics.Inertia = 1
	before := s.Internal[Joy]
	updateInternal(&s, EmotionVector{Joy: 0.5}, Context{}, TraumaActivation{})
	assert.InDelta(t, before, s.Internal[Joy], 0.1, "full inertia leaves the impact out")
}

func TestUpdateInternalBounded(t *testing.T) {
	s := newTestState()
	var impact EmotionVector
	for i := range impact {
		impact[i] = 1.4
	}
	for i := 0; i < 20; i++ {
		updateInternal(&s, impact, Context{HighImpactEvent: true}, TraumaActivation{})
		for e, v := range s.Internal {
			assert.GreaterOrEqual(t, v, 0.0, Emotion(e).String())
			assert.LessOrEqual(t, v, 1.0, Emotion(e).String())
		}
	}
}

func TestUpdateInternalDissociationPullsToMidpoint(t *testing.T) {
	s := newTestState()
	s.Patterns[RejectionSensitivity] = 0
	s.Internal[Shame] = 1
	updateInternal(&s, EmotionVector{}, Context{}, TraumaActivation{Activated: true, Intensity: 1, Response: Dissociation})
	assert.Less(t, s.Internal[Shame], 1.0)
}

func TestDifferentiateLowGranularity(t *testing.T) {
	s := newTestState()
	s.Dynamics.Granularity = 0.1
	s.Internal[Fear] = 1
	s.Internal[Vulnerability] = 0
	differentiate(&s)
	assert.Less(t, s.Internal[Fear], 1.0)
	assert.Greater(t, s.Internal[Vulnerability], 0.0)

	s.Dynamics.Granularity = 0.8
	s.Internal[Fear] = 1
	s.Internal[Vulnerability] = 0
	differentiate(&s)
	assert.Equal(t, 1.0, s.Internal[Fear])
}

func TestPostProcessors(t *testing.T) {
	s := newTestState()
	s.Internal[Joy] = 0.5
	fired := runRules(postProcessors, &s, ruleInput{ctx: Context{Location: "public"}})
	assert.Contains(t, fired, "public_display")
	assert.Contains(t, fired, "unsafe_withdrawal")
	assert.NotContains(t, fired, "recent_failure")
	assert.Less(t, s.Internal[Joy], 0.5)
}

func TestRecentFailure(t *testing.T) {
	s := newTestState()
	shame := s.Internal[Shame]
	eff := s.Tendencies[SelfEfficacy]
	runRules(postProcessors, &s, ruleInput{ctx: Context{RecentFailure: true}, impact: EmotionVector{Validation: -0.2}})
	assert.Greater(t, s.Internal[Shame], shame)
	assert.InDelta(t, eff-0.15, s.Tendencies[SelfEfficacy], 1e-9)
}

func TestPatternRules(t *testing.T) {
	s := newTestState()
	fired := runRules(patternRules, &s, ruleInput{})
	assert.Contains(t, fired, RejectionSensitivity.String())
	assert.NotContains(t, fired, SpotlightEffect.String())

	s = newTestState()
	s.Patterns[SpotlightEffect] = 0.8
	fired = runRules(patternRules, &s, ruleInput{ctx: Context{SocialSituation: true}})
	assert.Contains(t, fired, SpotlightEffect.String())
}
