package affect

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(clock *fakeClock, opts ...Option) *Engine {
	base := []Option{
		WithRand(fixedRand{}),
		WithClock(clock.Now),
		WithIDGenerator(counterIDs()),
	}
	return New(append(base, opts...)...)
}

func TestNewEngineDefaults(t *testing.T) {
	clock := newFakeClock()
	eng := newTestEngine(clock)
	st := eng.State()

	def := DefaultProfile()
	assert.Equal(t, def.Emotions, st.Internal)
	assert.Equal(t, def.Personality, st.Personality)
	assert.Equal(t, 0.5, st.Relational.Trust)
	assert.Equal(t, 0.9, st.Relational.Distance)
	assert.Zero(t, st.Fatigue)
	assert.Zero(t, st.Memory.Len())
	assert.Equal(t, clock.Now(), st.LastInteraction)
}

func TestEngineWithProfile(t *testing.T) {
	p := DefaultProfile()
	p.Personality[Neuroticism] = 0.2
	p.Emotions[Joy] = 0.7
	eng := New(WithProfile(p), WithRand(fixedRand{}))
	st := eng.State()
	assert.Equal(t, 0.7, st.Internal[Joy])
	assert.Equal(t, deriveDynamics(p.Personality), st.Dynamics)
}

// Scenario A: a rejection message lowers connection and raises fear and shame.
func TestScenarioRejection(t *testing.T) {
	clock := newFakeClock()
	eng := newTestEngine(clock)
	def := DefaultProfile().Emotions

	g := eng.ProcessInteraction("nobody loves me, I'm always alone", Context{})
	st := eng.State()

	assert.Less(t, st.Internal[Connection], def[Connection])
	assert.Greater(t, st.Internal[Fear], def[Fear])
	assert.Greater(t, st.Internal[Shame], def[Shame])
	assert.Len(t, g.NonverbalCues, 3)
}

// Scenario B: a threatening message full of trauma cues activates a flight or
// freeze response.
func TestScenarioThreat(t *testing.T) {
	clock := newFakeClock()
	eng := newTestEngine(clock)

	g := eng.ProcessInteraction("you'll always betray me, I feel so trapped and helpless",
		Context{UserThreatening: true})

	require.True(t, g.TraumaActivated)
	require.NotNil(t, g.TraumaResponseType)
	assert.Contains(t, []string{"flight", "freeze"}, *g.TraumaResponseType)
}

func TestScenarioThreatWithRandomness(t *testing.T) {
	counts := map[string]int{}
	for seed := uint64(0); seed < 40; seed++ {
		eng := New(WithRand(NewSeededRand(seed)), WithClock(newFakeClock().Now))
		g := eng.ProcessInteraction("you'll always betray me, I feel so trapped and helpless",
			Context{UserThreatening: true})
		require.True(t, g.TraumaActivated)
		require.NotNil(t, g.TraumaResponseType)
		_, ok := ParseTraumaResponse(*g.TraumaResponseType)
		require.True(t, ok)
		counts[*g.TraumaResponseType]++
	}
	assert.Equal(t, 40, counts["flight"]+counts["freeze"], "threat biases toward flight or freeze")
}

// Scenario C: sustained warmth and safety move attachment toward security.
func TestScenarioSecureAttachment(t *testing.T) {
	clock := newFakeClock()
	eng := newTestEngine(clock)
	initial := eng.State().Attachment

	const msg = "I'm here for you. I love you, you are safe, I trust you, we are together and I support you."
	for i := 0; i < 50; i++ {
		clock.Advance(time.Minute)
		eng.ProcessInteraction(msg, Context{})
	}
	st := eng.State()

	assert.Greater(t, st.Attachment[Security], initial[Security])
	assert.Less(t, st.Attachment[Anxiety], initial[Anxiety])
	assert.Less(t, st.Attachment[Avoidance], initial[Avoidance])
	assert.Greater(t, st.Relational.Trust, 0.5)
}

func TestScenarioSecureAttachmentSeeded(t *testing.T) {
	const msg = "I'm here for you. I love you, you are safe, I trust you, we are together and I support you."
	for seed := uint64(0); seed < 20; seed++ {
		clock := newFakeClock()
		eng := New(WithRand(NewSeededRand(seed)), WithClock(clock.Now), WithIDGenerator(counterIDs()))
		initial := eng.State().Attachment
		for i := 0; i < 50; i++ {
			clock.Advance(time.Minute)
			eng.ProcessInteraction(msg, Context{})
		}
		got := eng.State().Attachment
		assert.Greater(t, got[Security], initial[Security], "seed %d", seed)
		assert.Less(t, got[Anxiety], initial[Anxiety], "seed %d", seed)
		assert.Less(t, got[Avoidance], initial[Avoidance], "seed %d", seed)
	}
}

// Scenario D: a snapshot restored into a fresh engine reproduces the state.
func TestScenarioSnapshotRoundTrip(t *testing.T) {
	clock := newFakeClock()
	eng := newTestEngine(clock, WithCharacterName("alyssa"))
	for _, m := range []string{
		"nobody loves me, I'm always alone",
		"I'm here for you",
		"you failed again, it's your fault",
	} {
		clock.Advance(5 * time.Minute)
		eng.ProcessInteraction(m, Context{RecentFailure: true, TraumaTriggers: []string{"fault"}})
	}
	eng.UpdateFatigue(3, false)
	require.NotZero(t, eng.State().Memory.Len())

	snap := eng.Snapshot()
	fresh := newTestEngine(newFakeClock())
	require.NoError(t, fresh.Restore(snap))
	assert.Equal(t, eng.State(), fresh.State())
}

func TestEngineDeterministic(t *testing.T) {
	messages := []string{
		"nobody loves me, I'm always alone",
		"I'm here for you. I love you",
		"you'll always betray me",
		"what did you have for breakfast?",
		"you did a great job today, I'm proud of you",
	}
	run := func() ([]Guidance, State) {
		clock := newFakeClock()
		eng := New(WithRand(NewSeededRand(11)), WithClock(clock.Now), WithIDGenerator(counterIDs()))
		var out []Guidance
		for _, m := range messages {
			clock.Advance(2 * time.Minute)
			out = append(out, eng.ProcessInteraction(m, Context{SocialSituation: true}))
		}
		return out, eng.State()
	}
	g1, s1 := run()
	g2, s2 := run()
	assert.Equal(t, g1, g2)
	assert.Equal(t, s1, s2)
}

func TestEngineBounded(t *testing.T) {
	clock := newFakeClock()
	r := NewSeededRand(99)
	eng := New(WithRand(r), WithClock(clock.Now))
	messages := []string{
		"nobody loves me, I'm always alone",
		"I'm here for you. I love you, you are safe",
		"you'll always betray me, I feel so trapped and helpless",
		"you are pathetic and useless, a failure",
		"she died yesterday, the funeral is tomorrow",
		"hate rage furious unfair",
		"",
		"let's plan a trip together soon, I hope you'll come",
	}
	for i := 0; i < 300; i++ {
		clock.Advance(time.Duration(r.IntN(600)) * time.Second)
		ctx := Context{
			HighImpactEvent:             r.Float64() < 0.2,
			UserThreatening:             r.Float64() < 0.2,
			UserPleading:                r.Float64() < 0.2,
			FeelsCornered:               r.Float64() < 0.2,
			PreviousInteractionNegative: r.Float64() < 0.3,
			RecentFailure:               r.Float64() < 0.2,
			SocialSituation:             r.Float64() < 0.3,
			InsightGained:               r.Float64() < 0.1,
			InterlocutorEmotions:        map[Emotion]float64{Anger: r.Float64(), Joy: r.Float64()},
		}
		if r.Float64() < 0.2 {
			ctx.Location = "public"
		}
		g := eng.ProcessInteraction(messages[r.IntN(len(messages))], ctx)
		if i%25 == 0 {
			eng.UpdateFatigue(r.Float64()*4, r.Float64() < 0.5)
		}

		st := eng.State()
		require.NoError(t, validateState(&st), "turn %d", i)
		require.Len(t, g.NonverbalCues, 3)
		require.LessOrEqual(t, len(g.ActiveDefenses), maxActiveDefenses)
		require.LessOrEqual(t, len(g.DetectedConflicts), maxConflicts)
	}
}

func TestEngineFatigueAndSleep(t *testing.T) {
	eng := newTestEngine(newFakeClock())
	eng.UpdateFatigue(0.01, false)
	awake := eng.State().Fatigue
	assert.Greater(t, awake, 0.0)

	eng.UpdateFatigue(2, true)
	assert.Zero(t, eng.State().Fatigue)

	eng.ProcessInteraction("hate rage furious unfair", Context{})
	before := eng.State().Internal
	eng.ProcessSleepCycle()
	after := eng.State().Internal
	for e := range after {
		assert.LessOrEqual(t, after[e], before[e], Emotion(e).String())
	}
}

func TestEngineReset(t *testing.T) {
	clock := newFakeClock()
	eng := newTestEngine(clock)
	eng.ProcessInteraction("nobody loves me, I'm always alone", Context{})
	eng.UpdateFatigue(2, false)

	eng.Reset()
	st := eng.State()
	assert.Equal(t, DefaultProfile().Emotions, st.Internal)
	assert.Zero(t, st.Fatigue)
	assert.Zero(t, st.Memory.Len())
}

func TestEngineStateIsACopy(t *testing.T) {
	eng := newTestEngine(newFakeClock())
	eng.ProcessInteraction("you failed, it's a disaster and your fault", Context{})
	st := eng.State()
	require.NotZero(t, st.Memory.Len())

	st.Internal[Joy] = 1
	st.Memory.Memories[0].Content = "tampered"
	fresh := eng.State()
	assert.NotEqual(t, 1.0, fresh.Internal[Joy])
	assert.NotEqual(t, "tampered", fresh.Memory.Memories[0].Content)
}

func TestEngineConcurrentCallsSerialize(t *testing.T) {
	eng := New(WithRand(NewSeededRand(5)))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				eng.ProcessInteraction("I'm here for you", Context{})
				eng.UpdateFatigue(0.01, false)
				_ = eng.Snapshot()
			}
		}()
	}
	wg.Wait()
	st := eng.State()
	assert.NoError(t, validateState(&st))
}

func TestEngineMemoryRecallAcrossTurns(t *testing.T) {
	clock := newFakeClock()
	eng := newTestEngine(clock)
	eng.ProcessInteraction("you failed everyone, a terrible, horrible disaster and your fault", Context{RecentFailure: true})
	st := eng.State()
	require.NotZero(t, st.Memory.Len())
	require.NotEmpty(t, st.Memory.Triggers)

	var word string
	for _, w := range st.Memory.triggerWords() {
		word = w
		break
	}
	clock.Advance(time.Minute)
	withTrigger := eng.State()
	ids := recall(&withTrigger, newText("remember "+word), clock.Now(), fixedRand{f: 0.99})
	assert.NotEmpty(t, ids)
}
