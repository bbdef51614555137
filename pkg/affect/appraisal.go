package affect

// Appraisal is the cognitive reading of a single message. It is copied by value
// into any memory formed from the turn.
type Appraisal struct {
	Valence           float64 `json:"valence"`
	SelfRelated       bool    `json:"self_related"`
	OtherBlamed       bool    `json:"other_blamed"`
	SelfBlamed        bool    `json:"self_blamed"`
	Certainty         float64 `json:"certainty"`
	FutureOriented    bool    `json:"future_oriented"`
	ThreatDetected    bool    `json:"threat_detected"`
	CopingPotential   float64 `json:"coping_potential"`
	NormCompatibility float64 `json:"norm_compatibility"`
}

const (
	lexicalIncrease = 0.15
	lexicalDecrease = 0.12
	tendencyRate    = 0.012
)

// maxImpact is the symmetric bound on any impact component.
func maxImpact(d Dynamics) float64 { return 0.8 + 0.6*d.Volatility }

// analyze turns a message into an impact vector and an appraisal. It adjusts
// inertia and nudges the appraisal tendencies as side effects on s.
func analyze(s *State, t text, ctx Context, characterName string) (EmotionVector, Appraisal) {
	var impact EmotionVector
	vf := 1 + s.Dynamics.Volatility*0.8
	for e := range emotionLexicon {
		cues := emotionLexicon[e]
		inc := float64(t.count(cues.increase))
		dec := float64(t.count(cues.decrease))
		impact[e] += (inc*lexicalIncrease - dec*lexicalDecrease) * vf
	}

	strong := false
	for _, cue := range strongCues {
		if !t.any(cue.phrases) {
			continue
		}
		for e, v := range cue.effect {
			impact[e] += v
		}
		strong = true
	}
	if strong {
		s.Dynamics.Inertia = max(0.05, s.Dynamics.Inertia*0.4)
	}

	a := appraise(s, t, ctx, characterName)
	nudgeTendencies(&s.Tendencies, a)
	tend := s.Tendencies

	if a.ThreatDetected {
		impact[Fear] += 0.4 * tend[ThreatSensitivity]
		impact[Safety] -= 0.4 * tend[ThreatSensitivity]
	}
	if a.SelfRelated {
		impact[Vulnerability] += 0.3
		switch {
		case a.Valence < -0.3:
			impact[Shame] += 0.4 * (1 + tend[SelfBlame])
			impact[Validation] -= 0.4
		case a.Valence > 0.3:
			impact[Validation] += 0.3 * tend[RewardSensitivity]
		}
	}
	if a.OtherBlamed && a.Valence < -0.3 {
		impact[Anger] += 0.4 * tend[OtherBlame]
	}
	if a.FutureOriented && a.Valence > 0.3 {
		impact[Anticipation] += 0.4 * tend[FutureExpectancy]
	}
	if a.Certainty < 0.35 {
		impact[Fear] += 0.3 * (1 - tend[CertaintyTendency])
	}

	if ctx.PreviousInteractionNegative {
		for e, v := range impact {
			if v < 0 {
				impact[e] = v * 1.5
			} else if v > 0 {
				impact[e] = v * 0.6
			}
		}
	}

	limit := maxImpact(s.Dynamics)
	for e := range impact {
		impact[e] = clamp(impact[e], -limit, limit)
	}
	if !strong && !ctx.HighImpactEvent {
		s.Dynamics.Inertia = min(0.95, s.Dynamics.Inertia+0.03)
	}
	return impact, a
}

// appraise computes the cognitive appraisal without mutating state.
func appraise(s *State, t text, ctx Context, characterName string) Appraisal {
	a := Appraisal{
		Certainty:       s.Tendencies[CertaintyTendency],
		CopingPotential: s.Tendencies[SelfEfficacy],
	}

	pos, neg := t.count(positiveWords), t.count(negativeWords)
	switch {
	case pos > neg:
		a.Valence = min(1, 0.25*float64(pos))
	case neg > pos:
		a.Valence = max(-1, -0.25*float64(neg))
	}

	self := append([]string(nil), selfWords...)
	if characterName != "" {
		self = append(self, characterName)
	}
	user := ctx.UserName
	if user == "" {
		user = defaultUserName
	}
	other := append(append([]string(nil), otherWords...), user)

	aboutCharacter := t.any(self)
	aboutSpeaker := t.any(speakerWords)
	a.SelfRelated = aboutCharacter
	if t.any(blameWords) {
		a.SelfBlamed = aboutCharacter
		a.OtherBlamed = aboutSpeaker || t.any(other)
	}
	a.FutureOriented = t.any(futureWords)
	a.ThreatDetected = t.any(threatWords)

	unc, cert := t.count(uncertaintyWords), t.count(certaintyWords)
	switch {
	case unc > cert:
		a.Certainty -= 0.2 * float64(unc)
	case cert > unc:
		a.Certainty += 0.2 * float64(cert)
	}
	a.Certainty = clamp(a.Certainty, 0.05, 0.95)

	var negativity float64
	for _, e := range []Emotion{Fear, Shame, Grieving, Anger} {
		negativity += max(0, s.Internal[e]-0.5)
	}
	coping := s.Personality[Resilience]*0.6 + s.Tendencies[SelfEfficacy]*0.4 - negativity*0.3
	if a.ThreatDetected {
		coping -= 0.2
	}
	a.CopingPotential = clamp(coping, 0.1, 0.9)

	switch {
	case !t.any(normWords):
		a.NormCompatibility = 0.7
	case aboutCharacter:
		a.NormCompatibility = 0.15
	default:
		a.NormCompatibility = 0.35
	}
	return a
}

// nudgeTendencies drifts the appraisal habits toward the current appraisal.
func nudgeTendencies(tend *Tendencies, a Appraisal) {
	up := func(k Tendency, by float64) { tend[k] = min(0.95, tend[k]+by) }
	down := func(k Tendency, by float64) { tend[k] = max(0.05, tend[k]-by) }
	r := tendencyRate

	if a.ThreatDetected {
		up(ThreatSensitivity, r)
	} else {
		down(ThreatSensitivity, r/1.5)
	}
	if a.Valence > 0.5 {
		up(RewardSensitivity, r)
	} else if a.Valence < -0.5 {
		down(RewardSensitivity, r/1.5)
	}
	if a.CopingPotential > 0.7 {
		up(SelfEfficacy, r*1.2)
	} else if a.CopingPotential < 0.3 {
		down(SelfEfficacy, r*1.2)
	}
	if a.OtherBlamed {
		up(OtherBlame, r*1.8)
	} else {
		down(OtherBlame, r/1.5)
	}
	if a.SelfBlamed {
		up(SelfBlame, r*1.8)
	} else {
		down(SelfBlame, r/1.5)
	}
	if a.FutureOriented && a.Valence > 0.4 {
		up(FutureExpectancy, r)
	} else if a.FutureOriented && a.Valence < -0.4 {
		down(FutureExpectancy, r)
	}
	if a.Certainty > 0.75 {
		up(CertaintyTendency, r/1.5)
	} else if a.Certainty < 0.25 {
		down(CertaintyTendency, r/1.5)
	}
}
