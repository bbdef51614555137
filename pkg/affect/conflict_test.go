package affect

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectConflictsDefaultCalm(t *testing.T) {
	s := newTestState()
	assert.Empty(t, detectConflicts(&s))
}

func TestDetectEmotionPair(t *testing.T) {
	s := newTestState()
	s.Internal[Connection] = 0.8
	s.Internal[Autonomy] = 0.9

	got := detectConflicts(&s)
	require.Len(t, got, 1)
	assert.Equal(t, EmotionVsEmotion, got[0].Kind)
	assert.Equal(t, "connection vs autonomy", got[0].Label())
	assert.InDelta(t, 0.085, got[0].Magnitude, 1e-9)
}

func TestDetectConflictsCappedAndSorted(t *testing.T) {
	s := newTestState()
	s.Internal[Connection] = 0.9
	s.Internal[Autonomy] = 0.7
	s.Internal[Joy] = 0.9
	s.Internal[Shame] = 0.7
	s.Internal[Anger] = 0.95
	s.Internal[Fear] = 0.7
	s.Facade = 0.9

	got := detectConflicts(&s)
	require.Len(t, got, maxConflicts)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Magnitude, got[i].Magnitude)
	}
	assert.Equal(t, InternalVsExternal, got[0].Kind)
}

func TestConflictRules(t *testing.T) {
	s := newTestState()
	s.Attachment[Anxiety] = 0.8
	s.Attachment[Avoidance] = 0.8
	s.Fatigue = 90
	s.Internal[Autonomy] = 0.5

	got := detectConflicts(&s)
	kinds := make([]ConflictKind, 0, len(got))
	for _, c := range got {
		kinds = append(kinds, c.Kind)
	}
	assert.Contains(t, kinds, AttachmentConflict)
	assert.NotContains(t, kinds, FatigueVsWill)

	s.Internal[Autonomy] = 0.7
	got = detectConflicts(&s)
	require.NotEmpty(t, got)
	assert.Equal(t, FatigueVsWill, got[0].Kind)
}

func TestResolveConflicts(t *testing.T) {
	s := newTestState()
	s.Internal[Connection] = 0.8
	s.Internal[Autonomy] = 0.9
	insight := s.Growth[InsightDevelopment]

	resolveConflicts(&s, detectConflicts(&s))
	assert.Less(t, s.Internal[Connection], 0.8)
	assert.Less(t, s.Internal[Autonomy], 0.9)
	assert.Greater(t, s.Growth[InsightDevelopment], insight)
}

func TestResolveAttachmentConflict(t *testing.T) {
	s := newTestState()
	before := s.Attachment
	resolveConflicts(&s, []Conflict{{Kind: AttachmentConflict, Magnitude: 0.8}})
	assert.Greater(t, s.Attachment[Security], before[Security])
	assert.Less(t, s.Attachment[Anxiety], before[Anxiety])
}

func TestIntegrateIdentity(t *testing.T) {
	s := newTestState()
	integrateIdentity(&s)
	calm := s.Identity
	assert.GreaterOrEqual(t, calm.Coherence, 0.05)
	assert.LessOrEqual(t, calm.Coherence, 0.95)

	s.Conflicts = []Conflict{{Kind: InternalVsExternal, Magnitude: 0.9}}
	integrateIdentity(&s)
	assert.Less(t, s.Identity.Coherence, calm.Coherence)
	assert.Less(t, s.Identity.Stability, calm.Stability)
}

func TestConflictJSON(t *testing.T) {
	data, err := json.Marshal(Conflict{Kind: BeliefVsEmotion, Description: "x", Magnitude: 0.5})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"belief_vs_emotion"`)

	var c Conflict
	require.NoError(t, json.Unmarshal(data, &c))
	assert.Equal(t, BeliefVsEmotion, c.Kind)
}
