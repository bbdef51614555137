package affect

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func busyEngine(t *testing.T) (*Engine, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	eng := newTestEngine(clock, WithCharacterName("alyssa"))
	for _, m := range []string{
		"you failed everyone, a terrible, horrible disaster and your fault",
		"I'm here for you. I love you",
		"nobody loves me, I'm always alone",
	} {
		clock.Advance(time.Minute)
		eng.ProcessInteraction(m, Context{Location: "home", TraumaTriggers: []string{"disaster"}})
	}
	return eng, clock
}

func TestSnapshotJSONRoundTrip(t *testing.T) {
	eng, _ := busyEngine(t)
	snap := eng.Snapshot()
	assert.Equal(t, SnapshotVersion, snap.Version)
	assert.Equal(t, "alyssa", snap.Character)

	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var decoded Snapshot
	require.NoError(t, json.Unmarshal(data, &decoded))

	fresh := newTestEngine(newFakeClock())
	require.NoError(t, fresh.Restore(decoded))
	assert.Equal(t, eng.State(), fresh.State())
}

func TestRestoreRejectsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Snapshot)
	}{
		{"version", func(s *Snapshot) { s.Version = 99 }},
		{"emotion out of range", func(s *Snapshot) { s.State.Internal[Joy] = 1.5 }},
		{"negative trait", func(s *Snapshot) { s.State.Personality[Pride] = -0.1 }},
		{"fatigue", func(s *Snapshot) { s.State.Fatigue = 101 }},
		{"unknown defense", func(s *Snapshot) { s.State.Defenses = []ActiveDefense{{Kind: Defense(42)}} }},
		{"duplicate memory id", func(s *Snapshot) {
			s.State.Memory.Memories = append(s.State.Memory.Memories, s.State.Memory.Memories[0])
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, _ := busyEngine(t)
			before := eng.State()

			snap := eng.Snapshot()
			tt.mutate(&snap)
			err := eng.Restore(snap)
			require.ErrorIs(t, err, ErrInvalidSnapshot)
			assert.Equal(t, before, eng.State(), "a failed restore leaves the engine unchanged")
		})
	}
}

func TestRestoreDropsDanglingIDs(t *testing.T) {
	eng, _ := busyEngine(t)
	want := eng.State()
	require.NotEmpty(t, want.Memory.Triggers)

	snap := eng.Snapshot()
	snap.State.Memory.Core = append(snap.State.Memory.Core, "mem_missing")
	snap.State.Memory.Triggers["ghost"] = []string{"mem_missing"}
	word := want.Memory.triggerWords()[0]
	snap.State.Memory.Triggers[word] = append(snap.State.Memory.Triggers[word], "mem_gone")

	fresh := newTestEngine(newFakeClock())
	require.NoError(t, fresh.Restore(snap))
	got := fresh.State()
	assert.Equal(t, want.Memory, got.Memory)
	assert.NotContains(t, got.Memory.Triggers, "ghost")
	assert.Contains(t, snap.State.Memory.Core, "mem_missing", "the caller's snapshot is not modified")
}

func TestRestoreThenContinue(t *testing.T) {
	eng, clock := busyEngine(t)
	snap := eng.Snapshot()

	fresh := newTestEngine(clock)
	require.NoError(t, fresh.Restore(snap))
	clock.Advance(time.Minute)
	g1 := eng.ProcessInteraction("I'm here for you", Context{})
	g2 := fresh.ProcessInteraction("I'm here for you", Context{})
	assert.Equal(t, g1.InternalEmotionsDetailed, g2.InternalEmotionsDetailed)
}
