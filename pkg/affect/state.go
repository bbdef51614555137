package affect

import (
	"time"
)

// Profile is the set of dispositional values an engine starts from. Presets
// override parts of DefaultProfile.
type Profile struct {
	Emotions    EmotionVector    `json:"emotions"`
	Personality Traits           `json:"personality"`
	Attachment  Attachment       `json:"attachment"`
	Patterns    Patterns         `json:"unconscious_patterns"`
	Trauma      TraumaTendencies `json:"trauma_responses"`
	Skills      Skills           `json:"regulation_strategies"`
	Tendencies  Tendencies       `json:"cognitive_appraisals"`
	Cultural    Cultural         `json:"cultural_factors"`
}

// DefaultProfile returns the built-in character disposition: guarded, proud,
// anxious-avoidant, highly neurotic.
func DefaultProfile() Profile {
	return Profile{
		Emotions: EmotionVector{
			Vulnerability: 0.2, Connection: 0.1, Autonomy: 0.8, Validation: 0.3,
			Authenticity: 0.4, Safety: 0.2, Grieving: 0.0, Joy: 0.2,
			Anger: 0.3, Fear: 0.4, Shame: 0.5, Anticipation: 0.2, Disgust: 0.1,
		},
		Personality: Traits{
			Pride: 0.8, FearOfVulnerability: 0.7, NeedForControl: 0.8, EmotionalAwareness: 0.4,
			Empathy: 0.3, TraitAuthenticity: 0.4, Openness: 0.3, Conscientiousness: 0.7,
			Extraversion: 0.4, Agreeableness: 0.3, Neuroticism: 0.7, Resilience: 0.4, Adaptability: 0.3,
		},
		Attachment: Attachment{Anxiety: 0.7, Avoidance: 0.6, Security: 0.2, Disorganization: 0.4},
		Patterns: Patterns{
			FearOfAbandonment: 0.6, Perfectionism: 0.8, SelfWorthContingency: 0.7,
			SpotlightEffect: 0.6, ImpostorSyndrome: 0.7, EmotionalRepression: 0.6,
			RejectionSensitivity: 0.8,
		},
		Trauma: TraumaTendencies{Fight: 0.4, Flight: 0.6, Freeze: 0.7, Fawn: 0.5, Dissociation: 0.3},
		Skills: Skills{
			CognitiveReappraisal: 0.3, ExpressiveSuppression: 0.7, SituationSelection: 0.5,
			AttentionDeployment: 0.4, ProblemSolving: 0.6, Acceptance: 0.2,
			SelfSoothing: 0.3, SeekingSupport: 0.2,
		},
		Tendencies: Tendencies{
			ThreatSensitivity: 0.7, RewardSensitivity: 0.6, SelfEfficacy: 0.5,
			OtherBlame: 0.6, SelfBlame: 0.7, FutureExpectancy: 0.4, CertaintyTendency: 0.3,
		},
		Cultural: Cultural{
			DisplayRules: 0.7, Individualism: 0.8, PowerDistance: 0.6,
			UncertaintyAvoidance: 0.7, LongTermOrientation: 0.5,
		},
	}
}

// Dynamics are the emotion-change parameters derived from personality.
// Inertia drifts turn to turn; the others are fixed at construction.
type Dynamics struct {
	Inertia     float64 `json:"inertia"`
	Volatility  float64 `json:"volatility"`
	Granularity float64 `json:"granularity"`
	Contagion   float64 `json:"contagion"`
}

func deriveDynamics(p Traits) Dynamics {
	n := p[Neuroticism]
	return Dynamics{
		Inertia:     clamp(0.6+(n-0.5)*0.4, 0.1, 0.9),
		Volatility:  clamp(0.3+(n-0.5)*0.5, 0.1, 0.9),
		Granularity: clamp(0.2+p[EmotionalAwareness]*0.4, 0.1, 0.9),
		Contagion:   clamp(0.4+p[Empathy]*0.4+(p[Extraversion]-0.5)*0.2, 0.1, 0.9),
	}
}

// EmotionalIntelligence holds sub-scores derived from personality.
type EmotionalIntelligence struct {
	SelfAwareness          float64 `json:"self_awareness"`
	SelfManagement         float64 `json:"self_management"`
	SocialAwareness        float64 `json:"social_awareness"`
	RelationshipManagement float64 `json:"relationship_management"`
}

func deriveEI(p Traits) EmotionalIntelligence {
	return EmotionalIntelligence{
		SelfAwareness: p[EmotionalAwareness],
		SelfManagement: clamp(
			p[Conscientiousness]*0.3+p[Resilience]*0.4+(1-p[Neuroticism])*0.3, 0.1, 0.9),
		SocialAwareness: p[Empathy],
		RelationshipManagement: clamp(
			p[Agreeableness]*0.4+p[Extraversion]*0.2+p[Empathy]*0.4, 0.1, 0.9),
	}
}

// Relational holds the scalars describing the relationship with the user.
type Relational struct {
	Trust    float64 `json:"trust"`
	Intimacy float64 `json:"intimacy"`
	Distance float64 `json:"distance"`
}

// IdentityMetrics summarizes the coherence of the self.
type IdentityMetrics struct {
	Coherence float64 `json:"coherence"`
	Stability float64 `json:"stability"`
}

// ActiveDefense is a defense mechanism active this turn.
type ActiveDefense struct {
	Kind     Defense `json:"kind"`
	Strength float64 `json:"strength"`
}

// State is the complete affective state of a character.
type State struct {
	Internal    EmotionVector    `json:"internal_emotions"`
	Expressed   EmotionVector    `json:"expressed_emotions"`
	Personality Traits           `json:"personality"`
	Attachment  Attachment       `json:"attachment_style"`
	Tendencies  Tendencies       `json:"cognitive_appraisals"`
	Patterns    Patterns         `json:"unconscious_patterns"`
	Trauma      TraumaTendencies `json:"trauma_responses"`
	Skills      Skills           `json:"regulation_strategies"`
	Cultural    Cultural         `json:"cultural_factors"`
	Growth      Growth           `json:"personal_growth"`

	Dynamics Dynamics              `json:"dynamics"`
	EI       EmotionalIntelligence `json:"emotional_intelligence"`

	Relational        Relational      `json:"relational"`
	Identity          IdentityMetrics `json:"self_identity_metrics"`
	Fatigue           float64         `json:"fatigue_level"`
	Facade            float64         `json:"facade_intensity"`
	DefenseActivation float64         `json:"defense_activation"`
	Defenses          []ActiveDefense `json:"active_defenses"`
	Conflicts         []Conflict      `json:"current_conflicts"`

	Memory          MemoryStore `json:"memory"`
	LastInteraction time.Time   `json:"last_interaction"`
}

// NewState builds a fresh state from a profile.
func NewState(p Profile, now time.Time) State {
	s := State{
		Internal:          p.Emotions,
		Expressed:         p.Emotions,
		Personality:       p.Personality,
		Attachment:        p.Attachment,
		Tendencies:        p.Tendencies,
		Patterns:          p.Patterns,
		Trauma:            p.Trauma,
		Skills:            p.Skills,
		Cultural:          p.Cultural,
		Growth:            Growth{0.2, 0.1, 0.1, 0.2, 0.3},
		Dynamics:          deriveDynamics(p.Personality),
		EI:                deriveEI(p.Personality),
		Relational:        Relational{Trust: 0.5, Intimacy: 0.1, Distance: 0.9},
		Identity:          IdentityMetrics{Coherence: 0.5, Stability: 0.5},
		Facade:            0.8,
		DefenseActivation: 0.7,
		Memory:            newMemoryStore(),
		LastInteraction:   now,
	}
	return s
}

// Clone returns a deep copy.
func (s State) Clone() State {
	c := s
	c.Defenses = append([]ActiveDefense(nil), s.Defenses...)
	c.Conflicts = append([]Conflict(nil), s.Conflicts...)
	c.Memory = s.Memory.clone()
	return c
}

// fatigueNorm maps the 0-100 fatigue scale onto [0,1] for coupling math.
func (s *State) fatigueNorm() float64 { return clamp01(s.Fatigue / 100) }

func (s *State) clampInternal() {
	for i := range s.Internal {
		s.Internal[i] = clamp01(s.Internal[i])
	}
}
