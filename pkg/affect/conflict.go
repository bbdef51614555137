package affect

import (
	"math"
	"sort"
)

// ConflictKind classifies an internal tension.
type ConflictKind int

const (
	EmotionVsEmotion ConflictKind = iota
	InternalVsExternal
	CognitiveDissonance
	BeliefVsEmotion
	AttachmentConflict
	FatigueVsWill
)

var conflictNames = []string{
	"emotion_vs_emotion", "internal_vs_external", "cognitive_dissonance",
	"belief_vs_emotion", "attachment_conflict", "fatigue_vs_will",
}

func (k ConflictKind) String() string { return nameOf(conflictNames, int(k)) }

func (k ConflictKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *ConflictKind) UnmarshalText(b []byte) error { return parseText(b, conflictNames, (*int)(k)) }

// Conflict is a tension detected this turn.
type Conflict struct {
	Kind        ConflictKind `json:"type"`
	Drives      [2]string    `json:"drives,omitempty"`
	Description string       `json:"description"`
	Magnitude   float64      `json:"magnitude"`
}

// Label is the guidance text for the conflict.
func (c Conflict) Label() string {
	if c.Description != "" {
		return c.Description
	}
	return c.Kind.String()
}

const (
	conflictThreshold = 0.65
	maxConflicts      = 3
	resolveBase       = 0.1
)

// drivePair is an emotion opposed by another drive, which may be an emotion,
// a trait or an attachment dimension.
type drivePair struct {
	emotion Emotion
	other   string
	value   func(s *State) float64
}

func emotionDrive(e Emotion) (string, func(*State) float64) {
	return e.String(), func(s *State) float64 { return s.Internal[e] }
}

func pair(e Emotion, name string, value func(*State) float64) drivePair {
	return drivePair{emotion: e, other: name, value: value}
}

func emotionPair(a, b Emotion) drivePair {
	name, value := emotionDrive(b)
	return pair(a, name, value)
}

var opposingDrives = []drivePair{
	emotionPair(Connection, Autonomy),
	pair(Vulnerability, Pride.String(), func(s *State) float64 { return s.Personality[Pride] }),
	emotionPair(Authenticity, Validation),
	emotionPair(Joy, Shame),
	emotionPair(Anger, Fear),
	pair(Connection, Avoidance.String(), func(s *State) float64 { return s.Attachment[Avoidance] }),
	pair(Vulnerability, NeedForControl.String(), func(s *State) float64 { return s.Personality[NeedForControl] }),
	emotionPair(Joy, Grieving),
}

type conflictRule struct {
	kind        ConflictKind
	description string
	magnitude   func(s *State) (float64, bool)
}

var conflictRules = []conflictRule{
	{
		kind:        InternalVsExternal,
		description: "High internal/external dissonance",
		magnitude:   func(s *State) (float64, bool) { return s.Facade, s.Facade > 0.8 },
	},
	{
		kind:        CognitiveDissonance,
		description: "Low self-efficacy vs High validation",
		magnitude: func(s *State) (float64, bool) {
			eff, val := s.Tendencies[SelfEfficacy], s.Internal[Validation]
			return ((1 - eff) + val) / 2, eff < 0.3 && val > 0.7
		},
	},
	{
		kind:        BeliefVsEmotion,
		description: "Need for control vs High fear",
		magnitude: func(s *State) (float64, bool) {
			ctl, fear := s.Personality[NeedForControl], s.Internal[Fear]
			return (ctl + fear) / 2, ctl > 0.7 && fear > 0.7
		},
	},
	{
		kind:        AttachmentConflict,
		description: "Anxious-Avoidant Attachment (Disorganized)",
		magnitude: func(s *State) (float64, bool) {
			anx, avo := s.Attachment[Anxiety], s.Attachment[Avoidance]
			return (anx + avo) / 2, anx > conflictThreshold && avo > conflictThreshold
		},
	},
	{
		kind:        FatigueVsWill,
		description: "Fatigue vs Need to Act",
		magnitude: func(s *State) (float64, bool) {
			f := s.fatigueNorm()
			return f, f > 0.7 && s.Internal[Autonomy] > 0.6
		},
	},
}

// detectConflicts returns the strongest tensions, at most three.
func detectConflicts(s *State) []Conflict {
	var out []Conflict
	for _, d := range opposingDrives {
		a, b := s.Internal[d.emotion], d.value(s)
		if a > conflictThreshold && b > conflictThreshold {
			out = append(out, Conflict{
				Kind:        EmotionVsEmotion,
				Drives:      [2]string{d.emotion.String(), d.other},
				Description: d.emotion.String() + " vs " + d.other,
				Magnitude:   round((a+b)/2*math.Abs(a-b), 3),
			})
		}
	}
	for _, rule := range conflictRules {
		if m, ok := rule.magnitude(s); ok {
			out = append(out, Conflict{Kind: rule.kind, Description: rule.description, Magnitude: round(m, 3)})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Magnitude > out[j].Magnitude })
	if len(out) > maxConflicts {
		out = out[:maxConflicts]
	}
	return out
}

// resolveConflicts nudges state toward reduced tension and feeds growth.
func resolveConflicts(s *State, conflicts []Conflict) {
	adapt := 1 + s.Personality[Adaptability]*0.6
	for _, c := range conflicts {
		amount := resolveBase * c.Magnitude * adapt
		switch c.Kind {
		case EmotionVsEmotion:
			for _, name := range c.Drives {
				if e, ok := ParseEmotion(name); ok {
					s.Internal[e] = max(0, s.Internal[e]-amount/2)
				}
			}
			s.Growth[InsightDevelopment] = min(1, s.Growth[InsightDevelopment]+amount*0.12)
		case InternalVsExternal:
			if s.Personality[Resilience] > 0.45 {
				s.Personality[TraitAuthenticity] = min(1, s.Personality[TraitAuthenticity]+amount*0.35)
				s.Personality[EmotionalAwareness] = min(1, s.Personality[EmotionalAwareness]+amount*0.35)
			} else {
				s.Skills[ExpressiveSuppression] = min(1, s.Skills[ExpressiveSuppression]+amount*0.25)
			}
			s.Personality[Neuroticism] = max(0.1, s.Personality[Neuroticism]-amount*0.12)
		case CognitiveDissonance:
			s.Growth[SchemaRestructuring] = min(1, s.Growth[SchemaRestructuring]+amount*0.25)
			s.Internal[Validation] *= 1 - amount*0.15
		case BeliefVsEmotion:
			s.Growth[SchemaRestructuring] = min(1, s.Growth[SchemaRestructuring]+amount*0.18)
			s.Internal[Fear] *= 1 - amount*0.12
		case AttachmentConflict:
			s.Attachment[Security] = min(0.9, s.Attachment[Security]+amount*0.12)
			s.Attachment[Anxiety] = max(0.1, s.Attachment[Anxiety]-amount*0.06)
			s.Attachment[Avoidance] = max(0.1, s.Attachment[Avoidance]-amount*0.06)
		case FatigueVsWill:
			s.Internal[Autonomy] *= 1 - amount*0.1
			s.Skills[Acceptance] = min(1, s.Skills[Acceptance]+amount*0.1)
		}
	}
}

// integrateIdentity recomputes coherence and stability, penalized by the
// total magnitude of the current conflicts.
func integrateIdentity(s *State) {
	p, att, g := s.Personality, s.Attachment, s.Growth
	var penalty float64
	for _, c := range s.Conflicts {
		penalty += c.Magnitude
	}
	penalty *= 0.2

	coherence := p[TraitAuthenticity]*0.35 +
		att[Security]*0.25 +
		(1-s.Facade)*0.20 +
		g[EmotionalIntegration]*0.10 +
		g[IdentityCoherence]*0.10 -
		att[Disorganization]*0.15 -
		penalty
	stability := (1-p[Neuroticism])*0.35 +
		p[Resilience]*0.30 +
		s.Tendencies[CertaintyTendency]*0.10 +
		g[IdentityCoherence]*0.15 -
		att[Disorganization]*0.20 -
		penalty

	s.Identity = IdentityMetrics{
		Coherence: round(clamp(coherence, 0.05, 0.95), 3),
		Stability: round(clamp(stability, 0.05, 0.95), 3),
	}
}
