package affect

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
)

// Errors
var (
	ErrInvalidSnapshot = errors.New("invalid snapshot")
	ErrUnknownKey      = errors.New("unknown key")
)

// ═══════════════════════════════════════════════════════════════════════════════
// EMOTIONS
// ═══════════════════════════════════════════════════════════════════════════════

// Emotion identifies one dimension of the emotion vector.
type Emotion int

const (
	Vulnerability Emotion = iota
	Connection
	Autonomy
	Validation
	Authenticity
	Safety // psychological safety
	Grieving
	Joy
	Anger
	Fear
	Shame
	Anticipation
	Disgust

	NumEmotions = int(Disgust) + 1
)

var emotionNames = []string{
	"vulnerability", "connection", "autonomy", "validation", "authenticity",
	"psychological_safety", "grieving", "joy", "anger", "fear", "shame",
	"anticipation", "disgust",
}

// String returns the snake_case name of the emotion.
func (e Emotion) String() string { return nameOf(emotionNames, int(e)) }

func (e Emotion) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

func (e *Emotion) UnmarshalText(b []byte) error { return parseText(b, emotionNames, (*int)(e)) }

// ParseEmotion resolves an emotion name. Unknown names report false.
func ParseEmotion(s string) (Emotion, bool) {
	i, ok := indexOf(emotionNames, s)
	return Emotion(i), ok
}

// AllEmotions lists every emotion in catalog order.
func AllEmotions() []Emotion {
	out := make([]Emotion, NumEmotions)
	for i := range out {
		out[i] = Emotion(i)
	}
	return out
}

// EmotionVector holds one value per emotion. Internal and expressed vectors
// live in [0,1]; the per-turn impact vector is a signed delta.
type EmotionVector [NumEmotions]float64

// Get returns the value for e.
func (v EmotionVector) Get(e Emotion) float64 { return v[e] }

// Map returns the vector keyed by emotion name, rounded to the given decimals.
func (v EmotionVector) Map(decimals int) map[string]float64 {
	return namedMap(emotionNames, v[:], decimals)
}

// Max returns the emotion with the highest value. Ties go to the earlier emotion.
func (v EmotionVector) Max() Emotion {
	best := Emotion(0)
	for i := 1; i < NumEmotions; i++ {
		if v[i] > v[best] {
			best = Emotion(i)
		}
	}
	return best
}

// Mean returns the arithmetic mean of all values.
func (v EmotionVector) Mean() float64 {
	var sum float64
	for _, x := range v {
		sum += x
	}
	return sum / float64(NumEmotions)
}

func (v EmotionVector) MarshalJSON() ([]byte, error) { return marshalNamed(emotionNames, v[:]) }

func (v *EmotionVector) UnmarshalJSON(data []byte) error {
	return unmarshalNamed(data, emotionNames, v[:])
}

// ═══════════════════════════════════════════════════════════════════════════════
// PERSONALITY
// ═══════════════════════════════════════════════════════════════════════════════

// Trait identifies a personality trait.
type Trait int

const (
	Pride Trait = iota
	FearOfVulnerability
	NeedForControl
	EmotionalAwareness
	Empathy
	TraitAuthenticity
	Openness
	Conscientiousness
	Extraversion
	Agreeableness
	Neuroticism
	Resilience
	Adaptability

	NumTraits = int(Adaptability) + 1
)

var traitNames = []string{
	"pride", "fear_of_vulnerability", "need_for_control", "emotional_awareness",
	"empathy", "authenticity", "openness", "conscientiousness", "extraversion",
	"agreeableness", "neuroticism", "resilience", "adaptability",
}

func (t Trait) String() string { return nameOf(traitNames, int(t)) }

// ParseTrait resolves a trait name.
func ParseTrait(s string) (Trait, bool) {
	i, ok := indexOf(traitNames, s)
	return Trait(i), ok
}

// Traits holds the personality profile.
type Traits [NumTraits]float64

func (t Traits) Map(decimals int) map[string]float64 { return namedMap(traitNames, t[:], decimals) }
func (t Traits) MarshalJSON() ([]byte, error)        { return marshalNamed(traitNames, t[:]) }
func (t *Traits) UnmarshalJSON(data []byte) error    { return unmarshalNamed(data, traitNames, t[:]) }

// ═══════════════════════════════════════════════════════════════════════════════
// ATTACHMENT
// ═══════════════════════════════════════════════════════════════════════════════

// AttachmentDim is one of the four independent attachment dimensions.
type AttachmentDim int

const (
	Anxiety AttachmentDim = iota
	Avoidance
	Security
	Disorganization

	NumAttachment = int(Disorganization) + 1
)

var attachmentNames = []string{"anxiety", "avoidance", "security", "disorganization"}

func (a AttachmentDim) String() string { return nameOf(attachmentNames, int(a)) }

// ParseAttachment resolves an attachment dimension name.
func ParseAttachment(s string) (AttachmentDim, bool) {
	i, ok := indexOf(attachmentNames, s)
	return AttachmentDim(i), ok
}

// Attachment holds the attachment style. Dimensions are not a simplex.
type Attachment [NumAttachment]float64

func (a Attachment) Map(decimals int) map[string]float64 {
	return namedMap(attachmentNames, a[:], decimals)
}
func (a Attachment) MarshalJSON() ([]byte, error) { return marshalNamed(attachmentNames, a[:]) }
func (a *Attachment) UnmarshalJSON(data []byte) error {
	return unmarshalNamed(data, attachmentNames, a[:])
}

// ═══════════════════════════════════════════════════════════════════════════════
// APPRAISAL TENDENCIES
// ═══════════════════════════════════════════════════════════════════════════════

// Tendency is a slowly drifting cognitive appraisal habit.
type Tendency int

const (
	ThreatSensitivity Tendency = iota
	RewardSensitivity
	SelfEfficacy
	OtherBlame
	SelfBlame
	FutureExpectancy
	CertaintyTendency

	NumTendencies = int(CertaintyTendency) + 1
)

var tendencyNames = []string{
	"threat_sensitivity", "reward_sensitivity", "self_efficacy", "other_blame",
	"self_blame", "future_expectancy", "certainty",
}

func (t Tendency) String() string { return nameOf(tendencyNames, int(t)) }

// ParseTendency resolves a tendency name.
func ParseTendency(s string) (Tendency, bool) {
	i, ok := indexOf(tendencyNames, s)
	return Tendency(i), ok
}

// Tendencies holds the appraisal tendencies.
type Tendencies [NumTendencies]float64

func (t Tendencies) Map(decimals int) map[string]float64 {
	return namedMap(tendencyNames, t[:], decimals)
}
func (t Tendencies) MarshalJSON() ([]byte, error) { return marshalNamed(tendencyNames, t[:]) }
func (t *Tendencies) UnmarshalJSON(data []byte) error {
	return unmarshalNamed(data, tendencyNames, t[:])
}

// ═══════════════════════════════════════════════════════════════════════════════
// UNCONSCIOUS PATTERNS
// ═══════════════════════════════════════════════════════════════════════════════

// Pattern is an unconscious pattern that amplifies specific emotions.
type Pattern int

const (
	FearOfAbandonment Pattern = iota
	Perfectionism
	SelfWorthContingency
	SpotlightEffect
	ImpostorSyndrome
	EmotionalRepression
	RejectionSensitivity

	NumPatterns = int(RejectionSensitivity) + 1
)

var patternNames = []string{
	"fear_of_abandonment", "perfectionism", "self_worth_contingency",
	"spotlight_effect", "impostor_syndrome", "emotional_repression",
	"rejection_sensitivity",
}

func (p Pattern) String() string { return nameOf(patternNames, int(p)) }

// ParsePattern resolves a pattern name.
func ParsePattern(s string) (Pattern, bool) {
	i, ok := indexOf(patternNames, s)
	return Pattern(i), ok
}

// Patterns holds the unconscious pattern strengths.
type Patterns [NumPatterns]float64

func (p Patterns) MarshalJSON() ([]byte, error) { return marshalNamed(patternNames, p[:]) }
func (p *Patterns) UnmarshalJSON(data []byte) error {
	return unmarshalNamed(data, patternNames, p[:])
}

// ═══════════════════════════════════════════════════════════════════════════════
// TRAUMA RESPONSES
// ═══════════════════════════════════════════════════════════════════════════════

// TraumaResponse is a dominant defensive-physiology mode.
type TraumaResponse int

const (
	Fight TraumaResponse = iota
	Flight
	Freeze
	Fawn
	Dissociation

	NumTraumaResponses = int(Dissociation) + 1
)

var traumaNames = []string{"fight", "flight", "freeze", "fawn", "dissociation"}

func (r TraumaResponse) String() string { return nameOf(traumaNames, int(r)) }

func (r TraumaResponse) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *TraumaResponse) UnmarshalText(b []byte) error { return parseText(b, traumaNames, (*int)(r)) }

// ParseTraumaResponse resolves a trauma response name.
func ParseTraumaResponse(s string) (TraumaResponse, bool) {
	i, ok := indexOf(traumaNames, s)
	return TraumaResponse(i), ok
}

// TraumaTendencies holds how readily each trauma response is chosen.
type TraumaTendencies [NumTraumaResponses]float64

func (t TraumaTendencies) MarshalJSON() ([]byte, error) { return marshalNamed(traumaNames, t[:]) }
func (t *TraumaTendencies) UnmarshalJSON(data []byte) error {
	return unmarshalNamed(data, traumaNames, t[:])
}

// ═══════════════════════════════════════════════════════════════════════════════
// REGULATION STRATEGIES
// ═══════════════════════════════════════════════════════════════════════════════

// Strategy is an emotion regulation strategy.
type Strategy int

const (
	CognitiveReappraisal Strategy = iota
	ExpressiveSuppression
	SituationSelection
	AttentionDeployment
	ProblemSolving
	Acceptance
	SelfSoothing
	SeekingSupport

	NumStrategies = int(SeekingSupport) + 1
)

var strategyNames = []string{
	"cognitive_reappraisal", "expressive_suppression", "situation_selection",
	"attention_deployment", "problem_solving", "acceptance", "self_soothing",
	"seeking_support",
}

func (s Strategy) String() string { return nameOf(strategyNames, int(s)) }

func (s Strategy) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Strategy) UnmarshalText(b []byte) error { return parseText(b, strategyNames, (*int)(s)) }

// ParseStrategy resolves a strategy name.
func ParseStrategy(s string) (Strategy, bool) {
	i, ok := indexOf(strategyNames, s)
	return Strategy(i), ok
}

// Skills holds the proficiency of each regulation strategy.
type Skills [NumStrategies]float64

func (s Skills) MarshalJSON() ([]byte, error) { return marshalNamed(strategyNames, s[:]) }
func (s *Skills) UnmarshalJSON(data []byte) error {
	return unmarshalNamed(data, strategyNames, s[:])
}

// ═══════════════════════════════════════════════════════════════════════════════
// CULTURE AND GROWTH
// ═══════════════════════════════════════════════════════════════════════════════

// CulturalFactor is a cultural display influence.
type CulturalFactor int

const (
	DisplayRules CulturalFactor = iota
	Individualism
	PowerDistance
	UncertaintyAvoidance
	LongTermOrientation

	NumCultural = int(LongTermOrientation) + 1
)

var culturalNames = []string{
	"emotional_display_rules", "individualism", "power_distance",
	"uncertainty_avoidance", "long_term_orientation",
}

func (c CulturalFactor) String() string { return nameOf(culturalNames, int(c)) }

// ParseCulturalFactor resolves a cultural factor name.
func ParseCulturalFactor(s string) (CulturalFactor, bool) {
	i, ok := indexOf(culturalNames, s)
	return CulturalFactor(i), ok
}

// Cultural holds the cultural factors.
type Cultural [NumCultural]float64

func (c Cultural) MarshalJSON() ([]byte, error) { return marshalNamed(culturalNames, c[:]) }
func (c *Cultural) UnmarshalJSON(data []byte) error {
	return unmarshalNamed(data, culturalNames, c[:])
}

// GrowthMetric tracks personal growth.
type GrowthMetric int

const (
	InsightDevelopment GrowthMetric = iota
	EmotionalIntegration
	SchemaRestructuring
	SelfCompassion
	IdentityCoherence

	NumGrowth = int(IdentityCoherence) + 1
)

var growthNames = []string{
	"insight_development", "emotional_integration", "schema_restructuring",
	"self_compassion", "identity_coherence",
}

func (g GrowthMetric) String() string { return nameOf(growthNames, int(g)) }

// Growth holds the growth metrics.
type Growth [NumGrowth]float64

func (g Growth) Map(decimals int) map[string]float64 { return namedMap(growthNames, g[:], decimals) }
func (g Growth) MarshalJSON() ([]byte, error)        { return marshalNamed(growthNames, g[:]) }
func (g *Growth) UnmarshalJSON(data []byte) error    { return unmarshalNamed(data, growthNames, g[:]) }

// ═══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ═══════════════════════════════════════════════════════════════════════════════

func nameOf(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return "unknown"
	}
	return names[i]
}

// parseText decodes an enum name for encoding.TextUnmarshaler implementations.
func parseText(b []byte, names []string, dst *int) error {
	i, ok := indexOf(names, string(b))
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, string(b))
	}
	*dst = i
	return nil
}

func indexOf(names []string, s string) (int, bool) {
	for i, n := range names {
		if n == s {
			return i, true
		}
	}
	return 0, false
}

func namedMap(names []string, vals []float64, decimals int) map[string]float64 {
	out := make(map[string]float64, len(names))
	for i, n := range names {
		out[n] = round(vals[i], decimals)
	}
	return out
}

func marshalNamed(names []string, vals []float64) ([]byte, error) {
	m := make(map[string]float64, len(names))
	for i, n := range names {
		m[n] = vals[i]
	}
	return json.Marshal(m)
}

// unmarshalNamed overlays a name->value object onto dst. Missing names keep
// their current value; unknown names are rejected.
func unmarshalNamed(data []byte, names []string, dst []float64) error {
	var m map[string]float64
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		i, ok := indexOf(names, k)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownKey, k)
		}
		dst[i] = m[k]
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 { return clamp(v, 0, 1) }

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
