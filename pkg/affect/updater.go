package affect

// ruleInput is what post-processing and pattern rules may read besides state.
type ruleInput struct {
	ctx    Context
	impact EmotionVector
}

// stateRule is one entry of an ordered rule table. Rules run in order and
// each sees the effects of the rules before it.
type stateRule struct {
	name    string
	applies func(s *State, in ruleInput) bool
	apply   func(s *State, in ruleInput)
}

func runRules(rules []stateRule, s *State, in ruleInput) []string {
	var fired []string
	for _, r := range rules {
		if r.applies(s, in) {
			r.apply(s, in)
			fired = append(fired, r.name)
		}
	}
	return fired
}

// similarityPairs are emotions a low-granularity character tends to blur.
var similarityPairs = [][2]Emotion{
	{Fear, Vulnerability},
	{Anger, Disgust},
	{Joy, Anticipation},
	{Validation, Connection},
	{Authenticity, Autonomy},
	{Shame, Grieving},
}

// postProcessors are the contextual adjustments run after the main update.
var postProcessors = []stateRule{
	{
		name:    "public_display",
		applies: func(_ *State, in ruleInput) bool { return in.ctx.Location == "public" },
		apply: func(s *State, _ ruleInput) {
			f := 1 - s.Cultural[DisplayRules]*0.35
			s.Internal[Vulnerability] *= f
			s.Internal[Anger] *= f
			s.Internal[Grieving] *= f
			s.Internal[Joy] *= f * 0.8
			s.Internal[Safety] *= 0.85
		},
	},
	{
		name:    "recent_failure",
		applies: func(_ *State, in ruleInput) bool { return in.ctx.RecentFailure },
		apply: func(s *State, in ruleInput) {
			if v := in.impact[Validation]; v < 0 {
				s.Internal[Validation] += v * 0.6
			}
			s.Internal[Shame] = min(1, s.Internal[Shame]+0.2*(1+s.Personality[Neuroticism]))
			s.Tendencies[SelfEfficacy] = max(0.05, s.Tendencies[SelfEfficacy]-0.15)
		},
	},
	{
		name:    "exposure_costs_autonomy",
		applies: func(s *State, _ ruleInput) bool { return s.Internal[Vulnerability] > 0.75 },
		apply:   func(s *State, _ ruleInput) { s.Internal[Autonomy] *= 0.85 },
	},
	{
		name:    "unsafe_withdrawal",
		applies: func(s *State, _ ruleInput) bool { return s.Internal[Safety] < 0.25 },
		apply: func(s *State, _ ruleInput) {
			s.Internal[Vulnerability] *= 0.75
			s.Internal[Authenticity] *= 0.75
			s.Internal[Fear] = min(1, s.Internal[Fear]+0.25)
		},
	},
	{
		name:    "anger_mutes_joy",
		applies: func(s *State, _ ruleInput) bool { return s.Internal[Anger] > 0.75 },
		apply:   func(s *State, _ ruleInput) { s.Internal[Joy] *= 0.65 },
	},
	{
		name:    "shame_erodes_validation",
		applies: func(s *State, _ ruleInput) bool { return s.Internal[Shame] > 0.75 },
		apply:   func(s *State, _ ruleInput) { s.Internal[Validation] *= 0.75 },
	},
}

// patternRules are the unconscious patterns that fire on their trigger
// condition and push specific emotions.
var patternRules = []stateRule{
	{
		name: FearOfAbandonment.String(),
		applies: func(s *State, _ ruleInput) bool {
			return s.Patterns[FearOfAbandonment] > 0.6 && s.Internal[Connection] < 0.35
		},
		apply: func(s *State, _ ruleInput) {
			f := s.Patterns[FearOfAbandonment] * 0.35
			s.Internal[Vulnerability] += f
			s.Internal[Fear] += f
			s.Internal[Safety] -= f * 0.6
		},
	},
	{
		name: ImpostorSyndrome.String(),
		applies: func(s *State, _ ruleInput) bool {
			return s.Patterns[ImpostorSyndrome] > 0.7 && s.Internal[Validation] > 0.75
		},
		apply: func(s *State, _ ruleInput) {
			f := s.Patterns[ImpostorSyndrome] * 0.25
			s.Internal[Fear] += f
			s.Internal[Shame] += f * 0.6
		},
	},
	{
		name: RejectionSensitivity.String(),
		applies: func(s *State, _ ruleInput) bool {
			return s.Patterns[RejectionSensitivity] > 0.75 &&
				(s.Internal[Connection] < 0.4 || s.Internal[Validation] < 0.3)
		},
		apply: func(s *State, _ ruleInput) {
			f := s.Patterns[RejectionSensitivity] * 0.35
			s.Internal[Shame] += f
			s.Internal[Anger] += f * 0.8
			s.Internal[Fear] += f * 0.6
		},
	},
	{
		name: SpotlightEffect.String(),
		applies: func(s *State, in ruleInput) bool {
			return s.Patterns[SpotlightEffect] > 0.7 && in.ctx.SocialSituation
		},
		apply: func(s *State, _ ruleInput) {
			f := s.Patterns[SpotlightEffect] * 0.25
			s.Internal[Vulnerability] += f
			s.Internal[Fear] += f * 0.6
			s.Internal[Safety] -= f * 0.6
		},
	},
}

// maxChange bounds a single emotion's change in one update.
func maxChange(d Dynamics, highImpact bool) float64 {
	m := 0.35 + 0.4*d.Volatility
	if highImpact {
		m *= 1.8
	}
	return m
}

// reflect folds values that overshoot [0,1] back inward at 30% strength, then
// clamps.
func reflect(v float64) float64 {
	if v > 1 {
		v = 1 - (v-1)*0.3
	}
	if v < 0 {
		v = -v * 0.3
	}
	return clamp01(v)
}

// updateInternal merges the impact into the internal emotions and runs the
// differentiation, post-processing and pattern rules.
func updateInternal(s *State, impact EmotionVector, ctx Context, trauma TraumaActivation) {
	high := ctx.HighImpactEvent || trauma.Activated
	fatigue := s.fatigueNorm() * 0.3
	dissociating := trauma.Activated && trauma.Response == Dissociation
	limit := maxChange(s.Dynamics, high)

	for i := range s.Internal {
		e := Emotion(i)
		change := impact[e] * (1 - s.Dynamics.Inertia)
		switch e {
		case Joy:
			change -= fatigue * 0.1
		case Anger:
			change += fatigue * 0.05
		}
		change *= 1 - fatigue*0.2
		if dissociating {
			numb := trauma.Intensity * 0.5
			s.Internal[e] += (0.5 - s.Internal[e]) * numb
			change *= 1 - numb
		}
		s.Internal[e] = reflect(s.Internal[e] + clamp(change, -limit, limit))
	}

	differentiate(s)
	in := ruleInput{ctx: ctx, impact: impact}
	runRules(postProcessors, s, in)
	runRules(patternRules, s, in)
	s.clampInternal()
}

// differentiate blends commonly confused emotion pairs toward their mean when
// granularity is low.
func differentiate(s *State) {
	g := s.Dynamics.Granularity
	if g >= 0.5 {
		return
	}
	blend := (0.5 - g) * 0.7
	for _, pair := range similarityPairs {
		a, b := pair[0], pair[1]
		mean := (s.Internal[a] + s.Internal[b]) / 2
		s.Internal[a] = s.Internal[a]*(1-blend) + mean*blend
		s.Internal[b] = s.Internal[b]*(1-blend) + mean*blend
	}
}
