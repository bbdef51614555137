package affect

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateLabelsDefault(t *testing.T) {
	s := newTestState()
	assert.Equal(t,
		[]string{LabelGuarded, LabelIsolated, LabelInControl, LabelInvalidated, LabelUnsafe},
		stateLabels(&s))
}

func TestStateLabelsNeutral(t *testing.T) {
	s := newTestState()
	for i := range s.Internal {
		s.Internal[i] = 0.5
	}
	assert.Equal(t, []string{LabelNeutral}, stateLabels(&s))

	s.Fatigue = 80
	assert.Equal(t, []string{LabelFatigued}, stateLabels(&s))
}

func TestStateLabelsVulnerability(t *testing.T) {
	s := newTestState()
	s.Internal[Vulnerability] = 0.8
	assert.Contains(t, stateLabels(&s), LabelExposed)

	s.Internal[Safety] = 0.8
	labels := stateLabels(&s)
	assert.Contains(t, labels, LabelOpeningUp)
	assert.NotContains(t, labels, LabelExposed)

	s.Internal[Vulnerability] = 0.2
	assert.NotContains(t, stateLabels(&s), LabelGuarded, "low vulnerability is only guarded when unsafe")
}

func TestAttitude(t *testing.T) {
	s := newTestState()
	assert.Equal(t, "Resentful", attitude(&s, TraumaActivation{}))
	assert.Equal(t, "Aggressive", attitude(&s, TraumaActivation{Activated: true, Response: Fight}))

	s.Internal[Grieving] = 0.9
	assert.Equal(t, "Grieving", attitude(&s, TraumaActivation{}))

	s.Internal[Grieving] = 0
	s.Defenses = []ActiveDefense{{Kind: Displacement}, {Kind: Intellectualization}}
	assert.Equal(t, "Analytical", attitude(&s, TraumaActivation{}), "defenses resolve by priority")
}

func TestTone(t *testing.T) {
	s := newTestState()
	assert.Equal(t, "Resentful", tone(&s, attitude(&s, TraumaActivation{}), fixedRand{}))

	s.Fatigue = 70
	assert.Equal(t, "Resentful (tiredly)", tone(&s, attitude(&s, TraumaActivation{}), fixedRand{}))

	s.Fatigue = 90
	assert.Equal(t, "Exhausted", tone(&s, attitude(&s, TraumaActivation{}), fixedRand{}))

	s.Internal[Anger] = 0.9
	assert.Equal(t, "Hostile", attitude(&s, TraumaActivation{}))
	assert.Equal(t, "Flat", tone(&s, "Hostile", fixedRand{}))

	s.Fatigue = 0
	assert.Equal(t, "Neutral", tone(&s, "Bewildered", fixedRand{}))
}

func TestNonverbalCues(t *testing.T) {
	s := newTestState()
	assert.Equal(t,
		[]string{"Forced smile", "Adjusts clothing", "Shifts weight"},
		nonverbalCues(&s, TraumaActivation{}, fixedRand{}))

	cues := nonverbalCues(&s, TraumaActivation{Activated: true, Response: Freeze}, fixedRand{})
	assert.Equal(t, []string{"Motionless", "Vacant stare", "Forced smile"}, cues)
}

func TestNonverbalCuesAlwaysThreeDistinct(t *testing.T) {
	r := NewSeededRand(3)
	for i := 0; i < 200; i++ {
		s := newTestState()
		for e := range s.Expressed {
			s.Expressed[e] = r.Float64()
		}
		s.Facade = r.Float64()
		s.Fatigue = r.Float64() * MaxFatigue
		trauma := TraumaActivation{Activated: r.Float64() < 0.3, Response: TraumaResponse(r.IntN(NumTraumaResponses))}

		cues := nonverbalCues(&s, trauma, r)
		require.Len(t, cues, numCues)
		seen := map[string]bool{}
		for _, c := range cues {
			assert.False(t, seen[c], "duplicate cue %q", c)
			seen[c] = true
		}
	}
}

func TestRelationshipLabel(t *testing.T) {
	tests := []struct {
		rel  Relational
		want string
	}{
		{Relational{Trust: 0.5, Intimacy: 0.1, Distance: 0.9}, "Very Distant"},
		{Relational{Trust: 0.2, Distance: 0.9}, "Hostile"},
		{Relational{Trust: 0.35, Distance: 0.8}, "Antagonistic"},
		{Relational{Trust: 0.2, Distance: 0.7}, "Distrustful"},
		{Relational{Trust: 0.5, Distance: 0.7}, "Distant"},
		{Relational{Trust: 0.8, Intimacy: 0.8, Distance: 0.2}, "Intimate"},
		{Relational{Trust: 0.65, Intimacy: 0.6, Distance: 0.2}, "Very Close"},
		{Relational{Trust: 0.5, Intimacy: 0.2, Distance: 0.2}, "Close"},
		{Relational{Trust: 0.6, Intimacy: 0.5, Distance: 0.4}, "Friendly"},
		{Relational{Trust: 0.7, Intimacy: 0.1, Distance: 0.4}, "Cordial"},
		{Relational{Trust: 0.5, Intimacy: 0.1, Distance: 0.4}, "Acquainted"},
		{Relational{Trust: 0.7, Intimacy: 0.4, Distance: 0.55}, "Establishing"},
		{Relational{Trust: 0.3, Distance: 0.55}, "Tense"},
		{Relational{Trust: 0.5, Distance: 0.55}, "Neutral"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, relationshipLabel(tt.rel))
		})
	}
}

func TestBuildGuidanceJSON(t *testing.T) {
	s := newTestState()
	g := buildGuidance(&s, TraumaActivation{}, fixedRand{})
	assert.Nil(t, g.TraumaResponseType)
	assert.Equal(t, "Very Distant", g.Relationship)
	assert.Equal(t, Autonomy.String(), g.InternalFeeling)
	assert.Len(t, g.InternalEmotionsDetailed, NumEmotions)
	assert.NotNil(t, g.ActiveDefenses)

	data, err := json.Marshal(g)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"trauma_response_type":null`)
	assert.Contains(t, string(data), `"active_defenses":[]`)

	g = buildGuidance(&s, TraumaActivation{Activated: true, Intensity: 0.9, Response: Fawn}, fixedRand{})
	require.NotNil(t, g.TraumaResponseType)
	assert.Equal(t, "fawn", *g.TraumaResponseType)
	assert.True(t, g.TraumaActivated)
	assert.Equal(t, "Appeasing", g.Attitude)
	assert.Equal(t, "Conciliatory", g.Tone)
}
