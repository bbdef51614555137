package affect

import (
	"math"
	"time"
)

const (
	keywordRecallFloor  = 0.15
	themeRecallFloor    = 0.25
	dominantRecallFloor = 0.55
	responseRecallFloor = 0.45
	maxRecallChance     = 0.75
	amplifiedImpactCap  = 0.95
)

// dominantEmotion returns the emotion furthest from the 0.5 midpoint together
// with its actual value. ok is false when every value sits exactly at 0.5.
func dominantEmotion(v EmotionVector) (e Emotion, value float64, ok bool) {
	best := 0.0
	for i, x := range v {
		if d := math.Abs(x - 0.5); d > best {
			best, e, ok = d, Emotion(i), true
		}
	}
	return e, v[e], ok
}

// recall returns the ids of memories reactivated by the message, in store
// order. Sources: trigger keywords, theme overlap with core memories, and a
// probabilistic recall of memories matching the dominant emotion.
func recall(s *State, t text, now time.Time, r Rand) []string {
	store := &s.Memory
	hit := make(map[string]bool)

	for _, word := range store.triggerWords() {
		if !t.has(word) {
			continue
		}
		for _, id := range store.Triggers[word] {
			if store.significance(id) > keywordRecallFloor {
				hit[id] = true
			}
		}
	}

	if themes := extractThemes(t); len(themes) > 0 {
		for _, id := range store.Core {
			mem, ok := store.Get(id)
			if ok && mem.Significance > themeRecallFloor && sharesTheme(themes, mem.Themes) {
				hit[id] = true
			}
		}
	}

	if dom, intensity, ok := dominantEmotion(s.Internal); ok && intensity > dominantRecallFloor {
		for _, mem := range store.Memories {
			resp := mem.Response[dom]
			if resp == 0 || math.Abs(resp) <= responseRecallFloor {
				continue
			}
			age := now.Sub(mem.CreatedAt).Seconds()
			p := min(maxRecallChance, intensity*mem.Significance*math.Exp(-memoryDecayRate*age/720)*0.7)
			if r.Float64() < p {
				hit[mem.ID] = true
			}
		}
	}

	var ids []string
	for _, mem := range store.Memories {
		if hit[mem.ID] {
			ids = append(ids, mem.ID)
		}
	}
	return ids
}

// amplify adds the recorded responses of recalled memories to the impact.
// Core memories weigh more; neuroticism raises the gain.
func amplify(impact *EmotionVector, s *State, ids []string, now time.Time) {
	gain := 1 + s.Personality[Neuroticism]*0.6
	for _, id := range ids {
		mem, ok := s.Memory.Get(id)
		if !ok {
			continue
		}
		age := now.Sub(mem.CreatedAt).Seconds()
		weight := 0.55
		if s.Memory.IsCore(id) {
			weight = 0.75
		}
		strength := weight * mem.Significance * math.Exp(-memoryDecayRate*age/3600) * gain
		for e, v := range mem.Response {
			if v == 0 {
				continue
			}
			impact[e] = clamp(impact[e]+v*strength, -amplifiedImpactCap, amplifiedImpactCap)
		}
	}
}

// contagion blends the interlocutor's reported emotions into the internal
// state.
func contagion(s *State, other map[Emotion]float64) {
	if len(other) == 0 {
		return
	}
	p := s.Personality
	strength := s.Dynamics.Contagion * (0.5 + p[Extraversion])
	if s.Internal[Vulnerability] > 0.7 {
		strength *= 1.4
	}
	if s.Internal[Safety] < 0.3 {
		strength *= 0.6
	}
	negativeGain := 1 + max(0, p[Neuroticism]-0.5)*0.6
	for _, e := range sortedEmotions(other) {
		value := other[e]
		diff := value - s.Internal[e]
		effect := diff * strength * p[Empathy] * (1 + math.Abs(diff)*0.5) * 0.18
		if value < 0.5 {
			effect *= negativeGain
		}
		s.Internal[e] = clamp01(s.Internal[e] + effect)
	}
}
