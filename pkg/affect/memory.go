package affect

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

const (
	memoryFormationThreshold = 0.35
	consolidationThreshold   = 0.75
	triggerSeedThreshold     = 0.8
	memoryFloor              = 0.03

	maxMemories       = 100
	maxCoreMemories   = 15
	maxTriggerIDs     = 8
	maxTriggerSeeds   = 3
	responseThreshold = 0.15

	decayPerSecond = 0.00005
	coreDecayMod   = 0.7

	// memoryDecayRate scales the age discount applied when recalling and
	// amplifying memories.
	memoryDecayRate = 0.01
)

// Memory is one episodic record. Only Significance changes after creation.
type Memory struct {
	ID           string          `json:"id"`
	Content      string          `json:"content"`
	Context      ContextSnapshot `json:"context"`
	Response     EmotionVector   `json:"emotional_response"`
	StateAtTime  EmotionVector   `json:"internal_state_at_time"`
	Appraisal    Appraisal       `json:"cognitive_appraisal"`
	Significance float64         `json:"significance"`
	Themes       []Theme         `json:"themes,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// MemoryStore holds episodic memories plus the id-based core set and trigger
// index that point into them.
type MemoryStore struct {
	Memories []Memory           `json:"memories"`
	Core     []string           `json:"core_memories"`
	Triggers map[string][]string `json:"emotional_triggers"`
}

func newMemoryStore() MemoryStore {
	return MemoryStore{Triggers: make(map[string][]string)}
}

func newMemoryID() string { return "mem_" + uuid.NewString() }

func (m MemoryStore) clone() MemoryStore {
	c := MemoryStore{
		Memories: make([]Memory, len(m.Memories)),
		Core:     append([]string(nil), m.Core...),
		Triggers: make(map[string][]string, len(m.Triggers)),
	}
	for i, mem := range m.Memories {
		mem.Themes = append([]Theme(nil), mem.Themes...)
		mem.Context.TraumaTriggers = append([]string(nil), mem.Context.TraumaTriggers...)
		c.Memories[i] = mem
	}
	for k, ids := range m.Triggers {
		c.Triggers[k] = append([]string(nil), ids...)
	}
	return c
}

// Len returns the number of stored memories.
func (m MemoryStore) Len() int { return len(m.Memories) }

// Get returns the memory with the given id.
func (m *MemoryStore) Get(id string) (Memory, bool) {
	if i := m.indexOf(id); i >= 0 {
		return m.Memories[i], true
	}
	return Memory{}, false
}

func (m *MemoryStore) indexOf(id string) int {
	for i := range m.Memories {
		if m.Memories[i].ID == id {
			return i
		}
	}
	return -1
}

// IsCore reports whether the id is in the core set.
func (m *MemoryStore) IsCore(id string) bool {
	for _, c := range m.Core {
		if c == id {
			return true
		}
	}
	return false
}

func (m *MemoryStore) significance(id string) float64 {
	if i := m.indexOf(id); i >= 0 {
		return m.Memories[i].Significance
	}
	return 0
}

// decay discounts every memory by the elapsed time and prunes those falling
// below the floor. It reports how many memories were pruned.
func (m *MemoryStore) decay(elapsed time.Duration) int {
	factor := math.Exp(-decayPerSecond * elapsed.Seconds())
	if factor >= 0.999 {
		return 0
	}
	core := make(map[string]bool, len(m.Core))
	for _, id := range m.Core {
		core[id] = true
	}
	kept := m.Memories[:0]
	pruned := 0
	for _, mem := range m.Memories {
		mod := 1.0
		if core[mem.ID] {
			mod = coreDecayMod
		}
		mem.Significance *= 1 - (1-factor)*mod
		if mem.Significance < memoryFloor {
			pruned++
			continue
		}
		kept = append(kept, mem)
	}
	m.Memories = kept
	if pruned > 0 {
		m.sweep()
	}
	return pruned
}

// add appends a memory and evicts the least significant records while the
// store is over capacity.
func (m *MemoryStore) add(mem Memory) {
	m.Memories = append(m.Memories, mem)
	evicted := false
	for len(m.Memories) > maxMemories {
		lowest := 0
		for i := range m.Memories {
			if m.Memories[i].Significance < m.Memories[lowest].Significance {
				lowest = i
			}
		}
		m.Memories = append(m.Memories[:lowest], m.Memories[lowest+1:]...)
		evicted = true
	}
	if evicted {
		m.sweep()
	}
}

// promote adds an id to the core set, evicting the least significant core
// memory on overflow.
func (m *MemoryStore) promote(id string) {
	if m.IsCore(id) {
		return
	}
	m.Core = append(m.Core, id)
	for len(m.Core) > maxCoreMemories {
		lowest := 0
		for i, cid := range m.Core {
			if m.significance(cid) < m.significance(m.Core[lowest]) {
				lowest = i
			}
		}
		m.Core = append(m.Core[:lowest], m.Core[lowest+1:]...)
	}
}

// addTrigger links a keyword to a memory, dropping the oldest link when the
// keyword already holds the maximum.
func (m *MemoryStore) addTrigger(word, id string) {
	if m.Triggers == nil {
		m.Triggers = make(map[string][]string)
	}
	ids := m.Triggers[word]
	for _, x := range ids {
		if x == id {
			return
		}
	}
	ids = append(ids, id)
	if len(ids) > maxTriggerIDs {
		ids = ids[len(ids)-maxTriggerIDs:]
	}
	m.Triggers[word] = ids
}

// sweep removes ids that no longer name a stored memory.
func (m *MemoryStore) sweep() {
	live := make(map[string]bool, len(m.Memories))
	for _, mem := range m.Memories {
		live[mem.ID] = true
	}
	core := m.Core[:0]
	for _, id := range m.Core {
		if live[id] {
			core = append(core, id)
		}
	}
	m.Core = core
	for k, ids := range m.Triggers {
		kept := ids[:0]
		for _, id := range ids {
			if live[id] {
				kept = append(kept, id)
			}
		}
		if len(kept) == 0 {
			delete(m.Triggers, k)
			continue
		}
		m.Triggers[k] = kept
	}
}

func (m *MemoryStore) triggerWords() []string {
	keys := make([]string, 0, len(m.Triggers))
	for k := range m.Triggers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *MemoryStore) validate() error {
	if len(m.Memories) > maxMemories {
		return fmt.Errorf("%d memories exceed capacity %d", len(m.Memories), maxMemories)
	}
	if len(m.Core) > maxCoreMemories {
		return fmt.Errorf("%d core memories exceed capacity %d", len(m.Core), maxCoreMemories)
	}
	seen := make(map[string]bool, len(m.Memories))
	for _, mem := range m.Memories {
		if mem.ID == "" {
			return fmt.Errorf("memory without id")
		}
		if seen[mem.ID] {
			return fmt.Errorf("duplicate memory id %s", mem.ID)
		}
		seen[mem.ID] = true
		if mem.Significance < 0 || mem.Significance > 1 || math.IsNaN(mem.Significance) {
			return fmt.Errorf("memory %s significance %v out of range", mem.ID, mem.Significance)
		}
	}
	for _, id := range m.Core {
		if !seen[id] {
			return fmt.Errorf("core memory %s not found", id)
		}
	}
	for _, k := range m.triggerWords() {
		ids := m.Triggers[k]
		if len(ids) > maxTriggerIDs {
			return fmt.Errorf("trigger %q holds %d ids", k, len(ids))
		}
		for _, id := range ids {
			if !seen[id] {
				return fmt.Errorf("trigger %q references unknown memory %s", k, id)
			}
		}
	}
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════════
// FORMATION
// ═══════════════════════════════════════════════════════════════════════════════

// memorySignificance scores a turn for retention.
func memorySignificance(impact EmotionVector, a Appraisal, neuroticism float64) float64 {
	var intensity float64
	for _, v := range impact {
		intensity += math.Abs(v - 0.5)
	}
	intensity /= float64(NumEmotions)

	var cognitive float64
	if a.SelfRelated {
		cognitive += 0.4
	}
	if math.Abs(a.Valence) > 0.65 {
		cognitive += 0.5
	}
	if a.ThreatDetected {
		cognitive += 0.35
	}
	return clamp01((intensity*0.6 + cognitive*0.4) * (1 + neuroticism*0.7))
}

type memoryInput struct {
	text      text
	impact    EmotionVector
	ctx       Context
	appraisal Appraisal
	now       time.Time
}

// formMemory stores the turn when it is significant enough and reports the
// new record.
func formMemory(s *State, in memoryInput, r Rand, newID func() string) (Memory, bool) {
	sig := memorySignificance(in.impact, in.appraisal, s.Personality[Neuroticism])
	if sig <= memoryFormationThreshold {
		return Memory{}, false
	}
	mem := Memory{
		ID:           newID(),
		Content:      in.text.raw,
		Context:      in.ctx.Snapshot(),
		Appraisal:    in.appraisal,
		Significance: round(sig, 3),
		Themes:       extractThemes(in.text),
		CreatedAt:    in.now,
	}
	for e, v := range in.impact {
		if math.Abs(v) > responseThreshold {
			mem.Response[e] = round(v, 3)
		}
	}
	for e, v := range s.Internal {
		mem.StateAtTime[e] = round(v, 3)
	}

	store := &s.Memory
	store.add(mem)
	if store.indexOf(mem.ID) < 0 {
		return mem, true
	}
	if sig > consolidationThreshold {
		store.promote(mem.ID)
	}
	if sig > triggerSeedThreshold {
		for _, w := range sampleStrings(r, triggerCandidates(in.text), maxTriggerSeeds) {
			store.addTrigger(w, mem.ID)
		}
	}
	return mem, true
}
