package affect

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMemory(id string, sig float64, at time.Time) Memory {
	return Memory{ID: id, Content: id, Significance: sig, CreatedAt: at}
}

func TestMemoryStoreCapacity(t *testing.T) {
	now := newFakeClock().Now()
	store := newMemoryStore()
	for i := 0; i < maxMemories+5; i++ {
		store.add(testMemory(fmt.Sprintf("m%03d", i), 0.4+float64(i)*0.001, now))
	}
	assert.Equal(t, maxMemories, store.Len())
	for i := 0; i < 5; i++ {
		_, ok := store.Get(fmt.Sprintf("m%03d", i))
		assert.False(t, ok, "least significant memory m%03d should be evicted", i)
	}
	require.NoError(t, store.validate())
}

func TestMemoryStoreEvictionSweepsIndex(t *testing.T) {
	now := newFakeClock().Now()
	store := newMemoryStore()
	store.add(testMemory("weak", 0.1, now))
	store.promote("weak")
	store.addTrigger("storm", "weak")
	for i := 0; i < maxMemories; i++ {
		store.add(testMemory(fmt.Sprintf("m%03d", i), 0.5, now))
	}
	assert.False(t, store.IsCore("weak"))
	assert.NotContains(t, store.Triggers, "storm")
	require.NoError(t, store.validate())
}

func TestMemoryStoreCoreCapacity(t *testing.T) {
	now := newFakeClock().Now()
	store := newMemoryStore()
	for i := 0; i < maxCoreMemories+5; i++ {
		id := fmt.Sprintf("c%02d", i)
		store.add(testMemory(id, 0.5+float64(i)*0.01, now))
		store.promote(id)
	}
	assert.Len(t, store.Core, maxCoreMemories)
	assert.False(t, store.IsCore("c00"))
	assert.True(t, store.IsCore("c19"))

	store.promote("c19")
	assert.Len(t, store.Core, maxCoreMemories, "promotion is idempotent")
}

func TestMemoryStoreTriggerCapacity(t *testing.T) {
	now := newFakeClock().Now()
	store := newMemoryStore()
	for i := 0; i < maxTriggerIDs+3; i++ {
		id := fmt.Sprintf("t%02d", i)
		store.add(testMemory(id, 0.5, now))
		store.addTrigger("rain", id)
	}
	ids := store.Triggers["rain"]
	require.Len(t, ids, maxTriggerIDs)
	assert.Equal(t, "t03", ids[0], "oldest links are dropped first")
}

func TestMemoryDecay(t *testing.T) {
	now := newFakeClock().Now()
	store := newMemoryStore()
	store.add(testMemory("plain", 0.5, now))
	store.add(testMemory("core", 0.5, now))
	store.add(testMemory("faint", 0.035, now))
	store.promote("core")
	store.addTrigger("fog", "faint")

	pruned := store.decay(time.Hour)
	assert.Equal(t, 1, pruned)
	_, ok := store.Get("faint")
	assert.False(t, ok)
	assert.NotContains(t, store.Triggers, "fog")

	plain, _ := store.Get("plain")
	core, _ := store.Get("core")
	assert.Less(t, plain.Significance, 0.5)
	assert.Less(t, core.Significance, 0.5)
	assert.Greater(t, core.Significance, plain.Significance, "core memories decay slower")
}

func TestMemoryDecayMonotonic(t *testing.T) {
	now := newFakeClock().Now()
	store := newMemoryStore()
	store.add(testMemory("a", 0.9, now))
	prev := 0.9
	for i := 0; i < 10; i++ {
		store.decay(10 * time.Minute)
		m, ok := store.Get("a")
		require.True(t, ok)
		assert.LessOrEqual(t, m.Significance, prev)
		prev = m.Significance
	}

	assert.Zero(t, store.decay(0))
	assert.Zero(t, store.decay(-time.Hour))
}

func TestMemoryValidate(t *testing.T) {
	now := newFakeClock().Now()
	store := newMemoryStore()
	store.add(testMemory("a", 0.5, now))
	require.NoError(t, store.validate())

	store.Core = append(store.Core, "ghost")
	assert.Error(t, store.validate())

	store.Core = nil
	store.Triggers["wind"] = []string{"ghost"}
	assert.Error(t, store.validate())

	delete(store.Triggers, "wind")
	store.Memories = append(store.Memories, testMemory("a", 0.5, now))
	assert.Error(t, store.validate())
}

func TestMemorySignificance(t *testing.T) {
	flat := memorySignificance(EmotionVector{}, Appraisal{}, 0)
	assert.InDelta(t, 0.3, flat, 1e-9)

	charged := memorySignificance(EmotionVector{}, Appraisal{SelfRelated: true, Valence: -0.8, ThreatDetected: true}, 0.7)
	assert.Greater(t, charged, flat)
	assert.LessOrEqual(t, charged, 1.0)
}

func TestFormMemory(t *testing.T) {
	clock := newFakeClock()
	s := newTestState()
	in := memoryInput{
		text:      newText("Everyone abandoned me yesterday, remember"),
		impact:    EmotionVector{Fear: 0.6, Connection: -0.4, Joy: 0.1},
		ctx:       Context{Location: "home", TraumaTriggers: []string{"storm"}},
		appraisal: Appraisal{SelfRelated: true, Valence: -0.8, ThreatDetected: true},
		now:       clock.Now(),
	}

	mem, ok := formMemory(&s, in, fixedRand{}, newMemoryID)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(mem.ID, "mem_"))
	assert.Equal(t, 0.6, mem.Response[Fear])
	assert.Equal(t, -0.4, mem.Response[Connection])
	assert.Zero(t, mem.Response[Joy], "small responses are not recorded")
	assert.Equal(t, "home", mem.Context.Location)
	assert.Equal(t, []string{"storm"}, mem.Context.TraumaTriggers)
	assert.Equal(t, s.Internal[Shame], mem.StateAtTime[Shame])
	assert.Equal(t, clock.Now(), mem.CreatedAt)

	assert.True(t, s.Memory.IsCore(mem.ID))
	assert.NotEmpty(t, s.Memory.Triggers)
	assert.LessOrEqual(t, len(s.Memory.Triggers), maxTriggerSeeds)
	require.NoError(t, s.Memory.validate())

	in.ctx.TraumaTriggers[0] = "changed"
	stored, _ := s.Memory.Get(mem.ID)
	assert.Equal(t, "storm", stored.Context.TraumaTriggers[0], "context is captured by value")
}

func TestFormMemoryBelowThreshold(t *testing.T) {
	s := newTestState()
	s.Personality[Neuroticism] = 0
	_, ok := formMemory(&s, memoryInput{text: newText("ok")}, fixedRand{}, newMemoryID)
	assert.False(t, ok)
	assert.Zero(t, s.Memory.Len())
}
