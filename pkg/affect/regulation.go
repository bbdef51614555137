package affect

// Regulation is the outcome of the regulation step.
type Regulation struct {
	Applied  bool     `json:"applied"`
	Strategy Strategy `json:"strategy"`
	// Suppression scales expressed emotion; 1 means no suppression.
	Suppression    float64   `json:"suppression_factor"`
	InternalChange bool      `json:"internal_change"`
	Targets        []Emotion `json:"targets,omitempty"`
}

const proficiencyGain = 0.008

// regulationExempt are positive emotions only regulated when extreme.
var regulationExempt = []Emotion{Joy, Anticipation, Validation}

type strategySpec struct {
	cognitive bool
	available func(ctx Context) bool
	fit       func(s *State, targets []Emotion) float64
	apply     func(s *State, targets []Emotion, skill float64, out *Regulation)
}

var strategies = [NumStrategies]strategySpec{
	CognitiveReappraisal: {
		cognitive: true,
		fit: func(s *State, _ []Emotion) float64 {
			if s.Personality[Openness] > 0.5 {
				return 1.2
			}
			return 1
		},
		apply: func(s *State, targets []Emotion, skill float64, out *Regulation) {
			cut := skill * 0.45 * (1 - s.fatigueNorm()*0.5)
			for _, e := range targets {
				if s.Internal[e] > 0.5 {
					before := s.Internal[e]
					s.Internal[e] *= 1 - cut
					out.InternalChange = out.InternalChange || s.Internal[e] != before
				}
			}
		},
	},
	ExpressiveSuppression: {
		fit: func(s *State, _ []Emotion) float64 {
			if s.Patterns[EmotionalRepression] > 0.6 {
				return 1.3
			}
			return 1
		},
		apply: func(s *State, _ []Emotion, skill float64, out *Regulation) {
			out.Suppression = 1 - skill*0.75
			s.Internal[Authenticity] *= 1 - skill*0.25
		},
	},
	SituationSelection: {
		available: func(ctx Context) bool { return !ctx.SituationLocked },
		apply: func(s *State, targets []Emotion, skill float64, out *Regulation) {
			s.Internal[Safety] = min(1, s.Internal[Safety]+skill*0.35)
			s.Internal[Connection] *= 1 - skill*0.15
			scaleTargets(s, targets, 1-skill*0.55, out)
		},
	},
	AttentionDeployment: {
		apply: func(s *State, targets []Emotion, skill float64, out *Regulation) {
			if len(targets) == 0 {
				return
			}
			top := targets[0]
			for _, e := range targets[1:] {
				if s.Internal[e] > s.Internal[top] {
					top = e
				}
			}
			s.Internal[top] *= 1 - skill*0.25
			out.InternalChange = true
		},
	},
	ProblemSolving: {
		cognitive: true,
		fit: func(_ *State, targets []Emotion) float64 {
			if containsEmotion(targets, Anger) || containsEmotion(targets, Fear) {
				return 1.4
			}
			return 1
		},
		apply: func(s *State, targets []Emotion, skill float64, out *Regulation) {
			s.Internal[Fear] *= 1 - skill*0.25
			s.Internal[Autonomy] = min(1, s.Internal[Autonomy]+skill*0.3)
			if containsEmotion(targets, Anger) {
				s.Internal[Anger] *= 1 - skill*0.35
			}
			out.InternalChange = true
		},
	},
	Acceptance: {
		fit: func(_ *State, targets []Emotion) float64 {
			if containsEmotion(targets, Grieving) || containsEmotion(targets, Shame) {
				return 1.5
			}
			return 1
		},
		apply: func(s *State, _ []Emotion, skill float64, out *Regulation) {
			s.Internal[Authenticity] = min(1, s.Internal[Authenticity]*(1+skill*0.2))
			s.Internal[Anger] *= 1 - skill*0.15
			s.Internal[Shame] *= 1 - skill*0.15
			out.InternalChange = true
		},
	},
	SelfSoothing: {
		fit: func(s *State, _ []Emotion) float64 {
			if s.Internal[Safety] < 0.4 {
				return 1.4
			}
			return 1
		},
		apply: func(s *State, _ []Emotion, skill float64, out *Regulation) {
			scaleTargets(s, []Emotion{Fear, Shame, Anger, Grieving, Vulnerability}, 1-skill*0.35, out)
		},
	},
	SeekingSupport: {
		available: func(ctx Context) bool { return !ctx.SupportUnavailable },
		apply: func(s *State, targets []Emotion, skill float64, out *Regulation) {
			s.Internal[Connection] = min(1, s.Internal[Connection]+skill*0.45)
			scaleTargets(s, targets, 1-skill*0.3, out)
			if s.Internal[Connection] > 0 {
				out.InternalChange = true
			}
		},
	},
}

// adaptiveStrategies count toward emotional integration growth.
var adaptiveStrategies = []Strategy{
	CognitiveReappraisal, Acceptance, ProblemSolving, SelfSoothing, SeekingSupport,
}

func isAdaptive(st Strategy) bool {
	for _, a := range adaptiveStrategies {
		if a == st {
			return true
		}
	}
	return false
}

func scaleTargets(s *State, targets []Emotion, factor float64, out *Regulation) {
	for _, e := range targets {
		before := s.Internal[e]
		s.Internal[e] *= factor
		out.InternalChange = out.InternalChange || s.Internal[e] != before
	}
}

// regulationThreshold is the intensity above which an emotion is regulated.
func regulationThreshold(ei EmotionalIntelligence) float64 {
	return 0.65 - ei.SelfManagement*0.2
}

// regulationTargets lists, in catalog order, the emotions that need
// regulating this turn.
func regulationTargets(s *State, ctx Context) []Emotion {
	threshold := regulationThreshold(s.EI)
	var out []Emotion
	for i, v := range s.Internal {
		e := Emotion(i)
		switch {
		case v > threshold:
			if !containsEmotion(regulationExempt, e) || v > 0.9 {
				out = append(out, e)
			}
		case ctx.inappropriate(e):
			out = append(out, e)
		}
	}
	return out
}

// regulate picks the best-fitting strategy, applies it to the internal
// emotions and raises its proficiency.
func regulate(s *State, ctx Context, r Rand) Regulation {
	out := Regulation{Suppression: 1}
	targets := regulationTargets(s, ctx)
	if len(targets) == 0 {
		return out
	}

	fatigue := s.fatigueNorm()
	chosen, best := Strategy(-1), 0.0
	for i, st := range strategies {
		if st.available != nil && !st.available(ctx) {
			continue
		}
		fit := 1.0
		if st.fit != nil {
			fit = st.fit(s, targets)
		}
		if st.cognitive {
			fit *= 1 - fatigue*0.3
		}
		score := s.Skills[i] * fit * (1 + uniform(r, -0.15, 0.15))
		if chosen < 0 || score > best {
			chosen, best = Strategy(i), score
		}
	}
	if chosen < 0 {
		return out
	}

	skill := s.Skills[chosen]
	out.Applied = true
	out.Strategy = chosen
	out.Targets = targets
	strategies[chosen].apply(s, targets, skill, &out)
	s.Skills[chosen] = min(1, skill+proficiencyGain)
	s.clampInternal()
	return out
}
