package affect

import (
	"math"
	"sort"
)

// Defense is a defense mechanism distorting expressed emotion.
type Defense int

const (
	ReactionFormation Defense = iota
	Intellectualization
	Compensation
	Displacement
	Denial
	Rationalization
	Splitting
	Projection

	NumDefenses = int(Projection) + 1
)

var defenseNames = []string{
	"reaction_formation", "intellectualization", "compensation", "displacement",
	"denial", "rationalization", "splitting", "projection",
}

func (d Defense) String() string { return nameOf(defenseNames, int(d)) }

// ParseDefense resolves a defense name.
func ParseDefense(s string) (Defense, bool) {
	i, ok := indexOf(defenseNames, s)
	return Defense(i), ok
}

func (d Defense) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Defense) UnmarshalText(b []byte) error { return parseText(b, defenseNames, (*int)(d)) }

const maxActiveDefenses = 3

// defenseGate carries the per-turn values every defense predicate reads.
type defenseGate struct {
	fatigue   float64 // multiplier >= 1 from fatigue
	threshold float64 // vulnerability threshold
}

type defenseRule struct {
	strength func(s *State, g defenseGate) (float64, bool)
	distort  func(exp *EmotionVector, internal EmotionVector, strength float64)
}

func vulnerabilityGated(g defenseGate, s *State) bool {
	return s.Internal[Vulnerability]*g.fatigue > g.threshold
}

// defenseRules are evaluated in enum order; candidates are then ranked by strength.
var defenseRules = [NumDefenses]defenseRule{
	ReactionFormation: {
		strength: func(s *State, g defenseGate) (float64, bool) {
			ok := vulnerabilityGated(g, s) && s.Personality[Pride] > 0.6
			return s.Personality[Pride] * s.Internal[Vulnerability] * 0.9, ok
		},
		distort: func(exp *EmotionVector, in EmotionVector, st float64) {
			exp[Vulnerability] = max(0, 0.1-in[Vulnerability]*st*0.9)
			exp[Autonomy] = min(1, exp[Autonomy]+st*0.5)
			exp[Validation] = min(1, exp[Validation]+st*0.4)
		},
	},
	Intellectualization: {
		strength: func(s *State, g defenseGate) (float64, bool) {
			ok := vulnerabilityGated(g, s) && s.Personality[FearOfVulnerability] > 0.5
			return s.Personality[FearOfVulnerability] * s.Internal[Vulnerability], ok
		},
		distort: func(exp *EmotionVector, _ EmotionVector, st float64) {
			for i := range exp {
				exp[i] *= 1 - st*0.65
			}
			exp[Authenticity] *= 1 - st*0.85
			exp[Autonomy] = min(1, exp[Autonomy]+st*0.25)
		},
	},
	Compensation: {
		strength: func(s *State, g defenseGate) (float64, bool) {
			ok := vulnerabilityGated(g, s) && s.Patterns[Perfectionism] > 0.7
			return s.Patterns[Perfectionism] * s.Internal[Vulnerability] * 0.8, ok
		},
		distort: func(exp *EmotionVector, _ EmotionVector, st float64) {
			exp[Validation] = min(1, 0.65+st*0.45)
			exp[Autonomy] = min(1, 0.55+st*0.55)
			exp[Vulnerability] *= 1 - st*0.65
			exp[Shame] *= 1 - st*0.65
		},
	},
	Displacement: {
		strength: func(s *State, g defenseGate) (float64, bool) {
			safety := s.Internal[Safety]
			ok := s.Internal[Anger]*g.fatigue > 0.65 && safety < 0.35
			return s.Internal[Anger] * (1 - safety) * 0.7, ok
		},
	},
	Denial: {
		strength: func(s *State, g defenseGate) (float64, bool) {
			var overwhelm float64
			for _, v := range s.Internal {
				overwhelm += max(0, v-0.75)
			}
			overwhelm *= g.fatigue
			return overwhelm * 0.9, overwhelm > 0.6
		},
		distort: func(exp *EmotionVector, _ EmotionVector, st float64) {
			for _, e := range []Emotion{Fear, Grieving, Vulnerability, Shame, Anger} {
				exp[e] *= 1 - st*0.9
			}
			exp[Joy] = min(1, exp[Joy]+st*0.35)
		},
	},
	Rationalization: {
		strength: func(s *State, g defenseGate) (float64, bool) {
			safety := s.Internal[Safety]
			ok := s.Internal[Shame]*g.fatigue > 0.65 && safety < 0.45
			return s.Internal[Shame] * (1 - safety) * 0.8, ok
		},
		distort: func(exp *EmotionVector, _ EmotionVector, st float64) {
			exp[Shame] *= 1 - st*0.75
			exp[Autonomy] = min(1, exp[Autonomy]+st*0.25)
		},
	},
	Splitting: {
		strength: func(s *State, _ defenseGate) (float64, bool) {
			safety := s.Internal[Safety]
			ambivalence := 1 - math.Abs(s.Internal[Connection]-0.5)*2
			return ambivalence * (1 - safety) * 0.6, ambivalence > 0.65 && safety < 0.35
		},
		distort: func(exp *EmotionVector, _ EmotionVector, st float64) {
			split := st * 0.45
			for i, v := range exp {
				if v > 0.5 {
					exp[i] = min(1, v+split)
				} else {
					exp[i] = max(0, v-split)
				}
			}
		},
	},
	Projection: {
		strength: func(s *State, _ defenseGate) (float64, bool) {
			a := s.Internal[Autonomy]
			return (1 - a) * 0.8, a < 0.25
		},
		distort: func(exp *EmotionVector, _ EmotionVector, st float64) {
			exp[Anger] = min(1, exp[Anger]+st*0.45)
		},
	},
}

func defenseThreshold(s *State) float64 {
	return s.DefenseActivation * (1 - s.EI.SelfManagement*0.3)
}

// evaluateDefenses selects up to three active defenses. Nothing activates
// when the character is opening up or authentic and feels safe.
func evaluateDefenses(s *State) []ActiveDefense {
	labels := stateLabels(s)
	if (containsLabel(labels, LabelOpeningUp) || containsLabel(labels, LabelAuthentic)) && s.Internal[Safety] > 0.65 {
		return nil
	}
	g := defenseGate{
		fatigue:   1 + s.fatigueNorm()*0.3,
		threshold: defenseThreshold(s),
	}
	var out []ActiveDefense
	for k, rule := range defenseRules {
		if st, ok := rule.strength(s, g); ok {
			out = append(out, ActiveDefense{Kind: Defense(k), Strength: st})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Strength > out[j].Strength })
	if len(out) > maxActiveDefenses {
		out = out[:maxActiveDefenses]
	}
	return out
}

// suppressionTargets are hidden more effectively by expressive suppression.
var suppressionTargets = []Emotion{Vulnerability, Fear, Shame, Grieving, Anger}

// express computes the expressed emotion vector and facade intensity.
func express(s *State, reg Regulation) {
	in := s.Internal
	exp := in

	if reg.Suppression < 1 {
		for i := range exp {
			eff := 0.45
			if containsEmotion(suppressionTargets, Emotion(i)) {
				eff = 0.75
			}
			exp[i] *= 1 - (1-reg.Suppression)*eff
		}
	}

	for _, d := range s.Defenses {
		if rule := defenseRules[d.Kind]; rule.distort != nil {
			rule.distort(&exp, in, d.Strength)
		}
	}

	if pride := s.Personality[Pride]; pride > 0.6 {
		exp[Vulnerability] *= 1 - pride*0.55
		exp[Shame] *= 1 - pride*0.55
		exp[Fear] *= 1 - pride*0.35
	}
	if gap := 1 - s.Personality[EmotionalAwareness]; gap > 0.1 {
		for i := range exp {
			exp[i] += (in[i] - exp[i]) * gap * 0.45
		}
	}
	if f := s.fatigueNorm(); f > 0.6 {
		unmask := (f - 0.6) * 0.5
		for i := range exp {
			exp[i] += (in[i] - exp[i]) * unmask
		}
	}

	var divergence float64
	for i := range exp {
		exp[i] = clamp01(exp[i])
		divergence += math.Abs(in[i] - exp[i])
	}
	s.Expressed = exp
	s.Facade = min(1, divergence/float64(NumEmotions)*2)
}
