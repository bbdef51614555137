package affect

// TraumaActivation is the outcome of trauma evaluation for a turn. Response is
// meaningful only when Activated is true.
type TraumaActivation struct {
	Activated bool           `json:"activated"`
	Intensity float64        `json:"intensity"`
	Response  TraumaResponse `json:"response_type"`
}

// traumaShape describes how a trauma response reshapes the impact vector:
// numbing scales every emotion not listed in spared, add is scaled by the
// trauma intensity, and safety is pinned to a fixed negative delta.
type traumaShape struct {
	numb   float64
	spared []Emotion
	add    EmotionVector
	safety float64
}

var traumaShapes = [NumTraumaResponses]traumaShape{
	Fight: {
		add:    EmotionVector{Anger: 0.85, Fear: 0.5, Connection: -0.6, Autonomy: 0.2},
		safety: -0.4,
	},
	Flight: {
		add:    EmotionVector{Fear: 0.95, Connection: -0.7, Autonomy: 0.4},
		safety: -0.45,
	},
	Freeze: {
		numb:   0.7,
		spared: []Emotion{Fear, Autonomy},
		add:    EmotionVector{Fear: 0.7, Autonomy: -0.9},
		safety: -0.4,
	},
	Fawn: {
		add:    EmotionVector{Fear: 0.5, Vulnerability: 0.7, Authenticity: -0.8, Validation: 0.6, Connection: 0.3},
		safety: -0.35,
	},
	Dissociation: {
		numb:   0.9,
		add:    EmotionVector{Connection: -0.8, Authenticity: -0.8, Vulnerability: -0.5},
		safety: -0.3,
	},
}

type traumaBias struct {
	when  func(Context) bool
	scale [NumTraumaResponses]float64
}

// traumaBiases are checked in order; only the first matching bias applies.
var traumaBiases = []traumaBias{
	{
		when:  func(c Context) bool { return c.UserThreatening },
		scale: [NumTraumaResponses]float64{Fight: 0.5, Flight: 1.7, Freeze: 1.5, Fawn: 1, Dissociation: 1},
	},
	{
		when:  func(c Context) bool { return c.UserPleading },
		scale: [NumTraumaResponses]float64{Fight: 0.3, Flight: 1, Freeze: 1, Fawn: 1.8, Dissociation: 1},
	},
	{
		when:  func(c Context) bool { return c.FeelsCornered },
		scale: [NumTraumaResponses]float64{Fight: 1.7, Flight: 0.6, Freeze: 1.5, Fawn: 1, Dissociation: 1},
	},
}

// traumaIntensity scores the trauma cues of a message. It returns zero when
// the message carries no cue.
func traumaIntensity(s *State, t text, ctx Context) float64 {
	hits := t.count(traumaKeywords) + t.count(ctx.TraumaTriggers)
	if hits == 0 {
		return 0
	}
	base := min(0.9, 0.3*float64(hits))
	intensity := base + s.Internal[Vulnerability]*0.45 + (1-s.Internal[Safety])*0.45
	return clamp01(intensity * (1 + s.Personality[Neuroticism]*0.6))
}

func traumaThreshold(p Traits) float64 { return 0.6 - p[Resilience]*0.2 }

// chooseTraumaResponse weights each tendency by the context bias and jitter
// and returns the strongest. Ties go to the earlier response.
func chooseTraumaResponse(tend TraumaTendencies, ctx Context, r Rand) TraumaResponse {
	total := 1e-6
	for _, v := range tend {
		total += v
	}
	scale := [NumTraumaResponses]float64{1, 1, 1, 1, 1}
	for _, b := range traumaBiases {
		if b.when(ctx) {
			scale = b.scale
			break
		}
	}
	best, bestStrength := Fight, -1.0
	for i, v := range tend {
		strength := max(0, v/total*scale[i]*(1+uniform(r, -0.2, 0.2)))
		if strength > bestStrength {
			best, bestStrength = TraumaResponse(i), strength
		}
	}
	return best
}

// evaluateTrauma checks for trauma activation and, when activated, dampens
// and reshapes the impact vector in place.
func evaluateTrauma(s *State, t text, ctx Context, impact *EmotionVector, r Rand) TraumaActivation {
	intensity := traumaIntensity(s, t, ctx)
	if intensity == 0 || intensity <= traumaThreshold(s.Personality) {
		return TraumaActivation{}
	}
	act := TraumaActivation{
		Activated: true,
		Intensity: round(intensity, 3),
		Response:  chooseTraumaResponse(s.Trauma, ctx, r),
	}

	damp := 1 - intensity*0.85
	for e := range impact {
		impact[e] *= damp
	}
	reshape(impact, act.Response, intensity)

	limit := maxImpact(s.Dynamics)
	for e := range impact {
		impact[e] = clamp(impact[e], -limit, limit)
	}
	return act
}

func reshape(impact *EmotionVector, resp TraumaResponse, intensity float64) {
	shape := traumaShapes[resp]
	if shape.numb > 0 {
		factor := 1 - shape.numb*intensity
		for i := range impact {
			if !containsEmotion(shape.spared, Emotion(i)) {
				impact[i] *= factor
			}
		}
	}
	for i, v := range shape.add {
		impact[i] += v * intensity
	}
	impact[Safety] = shape.safety
}

func containsEmotion(list []Emotion, e Emotion) bool {
	for _, x := range list {
		if x == e {
			return true
		}
	}
	return false
}
