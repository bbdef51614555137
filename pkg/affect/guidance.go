package affect

import (
	"math"
	"sort"
)

// Guidance is the per-turn projection of the state handed to a text
// generator.
type Guidance struct {
	EmotionalState            []string           `json:"emotional_state"`
	FacadeIntensity           float64            `json:"facade_intensity"`
	Attitude                  string             `json:"attitude"`
	NonverbalCues             []string           `json:"nonverbal_cues"`
	Tone                      string             `json:"tone"`
	Relationship              string             `json:"relationship"`
	ActiveDefenses            []string           `json:"active_defenses"`
	InternalFeeling           string             `json:"internal_feeling"`
	ExpressedFeeling          string             `json:"expressed_feeling"`
	TraumaActivated           bool               `json:"trauma_activated"`
	TraumaResponseType        *string            `json:"trauma_response_type"`
	InternalEmotionsDetailed  map[string]float64 `json:"internal_emotions_detailed"`
	ExpressedEmotionsDetailed map[string]float64 `json:"expressed_emotions_detailed"`
	CurrentTrust              float64            `json:"current_trust"`
	CurrentIntimacy           float64            `json:"current_intimacy"`
	SelfIdentityMetrics       IdentityMetrics    `json:"self_identity_metrics"`
	DetectedConflicts         []string           `json:"detected_conflicts"`
	FatigueLevel              float64            `json:"fatigue_level"`
}

// State labels.
const (
	LabelExposed      = "Exposed"
	LabelOpeningUp    = "Opening Up"
	LabelGuarded      = "Guarded"
	LabelConnected    = "Connected"
	LabelIsolated     = "Isolated"
	LabelInControl    = "In Control"
	LabelPowerless    = "Powerless"
	LabelAffirmed     = "Affirmed"
	LabelInvalidated  = "Invalidated"
	LabelAuthentic    = "Authentic"
	LabelInauthentic  = "Inauthentic"
	LabelUnsafe       = "Unsafe"
	LabelGrieving     = "Grieving"
	LabelJoyful       = "Joyful"
	LabelAngry        = "Angry"
	LabelFearful      = "Fearful"
	LabelAshamed      = "Ashamed"
	LabelAnticipating = "Anticipating"
	LabelDisgusted    = "Disgusted"
	LabelFatigued     = "Fatigued"
	LabelNeutral      = "Neutral"
)

const (
	labelHigh = 0.6
	labelLow  = 0.4
	numCues   = 3
)

type labelPair struct{ high, low string }

var emotionLabels = [NumEmotions]labelPair{
	Vulnerability: {LabelExposed, LabelGuarded},
	Connection:    {LabelConnected, LabelIsolated},
	Autonomy:      {LabelInControl, LabelPowerless},
	Validation:    {LabelAffirmed, LabelInvalidated},
	Authenticity:  {LabelAuthentic, LabelInauthentic},
	Safety:        {"", LabelUnsafe},
	Grieving:      {LabelGrieving, ""},
	Joy:           {LabelJoyful, ""},
	Anger:         {LabelAngry, ""},
	Fear:          {LabelFearful, ""},
	Shame:         {LabelAshamed, ""},
	Anticipation:  {LabelAnticipating, ""},
	Disgust:       {LabelDisgusted, ""},
}

// stateLabels derives the qualitative labels in catalog order. Vulnerability
// reads as opening up when safe, and is only guarded when unsafe.
func stateLabels(s *State) []string {
	var out []string
	safety := s.Internal[Safety]
	for i, v := range s.Internal {
		e := Emotion(i)
		l := emotionLabels[e]
		if l.high != "" && v > labelHigh {
			if e == Vulnerability && safety > labelHigh {
				out = append(out, LabelOpeningUp)
			} else {
				out = append(out, l.high)
			}
		}
		if l.low != "" && v < labelLow {
			if e != Vulnerability || safety < labelLow {
				out = append(out, l.low)
			}
		}
	}
	if s.fatigueNorm() > 0.7 {
		out = append(out, LabelFatigued)
	}
	if len(out) == 0 {
		out = append(out, LabelNeutral)
	}
	return out
}

func containsLabel(labels []string, l string) bool {
	for _, x := range labels {
		if x == l {
			return true
		}
	}
	return false
}

// ═══════════════════════════════════════════════════════════════════════════════
// ATTITUDE AND TONE
// ═══════════════════════════════════════════════════════════════════════════════

var traumaAttitudes = [NumTraumaResponses]string{
	Fight: "Aggressive", Flight: "Avoidant", Freeze: "Numb", Fawn: "Appeasing", Dissociation: "Detached",
}

// defenseAttitudes is ordered by priority.
var defenseAttitudes = []struct {
	defense  Defense
	attitude string
}{
	{ReactionFormation, "Dismissive"},
	{Intellectualization, "Analytical"},
	{Projection, "Accusatory"},
	{Compensation, "Arrogant"},
	{Denial, "Defiant"},
	{Rationalization, "Justifying"},
	{Splitting, "Idealizing"},
	{Displacement, "Irritable"},
}

type labelAttitude struct {
	attitude string
	when     func(s *State, labels []string) bool
}

var emotionAttitudes = []labelAttitude{
	{"Grieving", func(_ *State, l []string) bool { return containsLabel(l, LabelGrieving) }},
	{"Hostile", func(s *State, l []string) bool { return containsLabel(l, LabelAngry) && s.Internal[Anger] > 0.75 }},
	{"Anxious", func(s *State, l []string) bool { return containsLabel(l, LabelFearful) && s.Internal[Fear] > 0.75 }},
	{"Withdrawn", func(s *State, l []string) bool { return containsLabel(l, LabelAshamed) && s.Internal[Shame] > 0.75 }},
	{"Repulsed", func(s *State, l []string) bool { return containsLabel(l, LabelDisgusted) && s.Internal[Disgust] > 0.7 }},
	{"Exhausted", func(s *State, l []string) bool { return containsLabel(l, LabelFatigued) && s.fatigueNorm() > 0.8 }},
}

var comboAttitudes = []labelAttitude{
	{"Vulnerable", func(_ *State, l []string) bool {
		return containsLabel(l, LabelOpeningUp) && containsLabel(l, LabelAuthentic)
	}},
	{"Desperate", func(_ *State, l []string) bool {
		return containsLabel(l, LabelConnected) && containsLabel(l, LabelPowerless)
	}},
	{"Resentful", func(_ *State, l []string) bool { return containsLabel(l, LabelInvalidated) }},
	{"Aloof", func(_ *State, l []string) bool {
		return containsLabel(l, LabelIsolated) && containsLabel(l, LabelInControl)
	}},
	{"Warm", func(_ *State, l []string) bool {
		return containsLabel(l, LabelJoyful) && containsLabel(l, LabelConnected)
	}},
	{"Genuine", func(_ *State, l []string) bool { return containsLabel(l, LabelAuthentic) }},
}

const defaultAttitude = "Guarded"

// attitude is prioritized trauma response, then dominant emotion, then active
// defense, then label combination.
func attitude(s *State, trauma TraumaActivation) string {
	if trauma.Activated {
		return traumaAttitudes[trauma.Response]
	}
	labels := stateLabels(s)
	for _, a := range emotionAttitudes {
		if a.when(s, labels) {
			return a.attitude
		}
	}
	for _, da := range defenseAttitudes {
		for _, d := range s.Defenses {
			if d.Kind == da.defense {
				return da.attitude
			}
		}
	}
	for _, a := range comboAttitudes {
		if a.when(s, labels) {
			return a.attitude
		}
	}
	return defaultAttitude
}

var toneMap = map[string]string{
	"Aggressive": "Aggressive", "Avoidant": "Evasive", "Panicked": "Frantic", "Numb": "Monotone",
	"Paralyzed": "Hesitant", "Appeasing": "Conciliatory", "Submissive": "Submissive", "Detached": "Distant",
	"Distant": "Cold", "Grieving": "Broken", "Hostile": "Hostile", "Anxious": "Anxious",
	"Terrified": "Terrified", "Withdrawn": "Flat", "Humiliated": "Mortified", "Repulsed": "Repulsed",
	"Dismissive": "Dismissive", "Contemptuous": "Contemptuous", "Analytical": "Analytical", "Cold": "Cold",
	"Accusatory": "Accusatory", "Suspicious": "Suspicious", "Arrogant": "Arrogant", "Superior": "Superior",
	"Defiant": "Defiant", "Unconcerned": "Indifferent", "Justifying": "Justifying", "Defensive": "Defensive",
	"Idealizing": "Flattering", "Devaluing": "Disparaging", "Irritable": "Irritable", "Vulnerable": "Vulnerable",
	"Open": "Open", "Desperate": "Desperate", "Pleading": "Pleading", "Resentful": "Resentful",
	"Bitter": "Bitter", "Aloof": "Aloof", "Indifferent": "Indifferent", "Warm": "Warm",
	"Enthusiastic": "Enthusiastic", "Genuine": "Genuine", "Sincere": "Sincere", "Guarded": "Guarded",
	"Neutral": "Neutral", "Exhausted": "Exhausted",
}

// fatigueProofTones are not overridden by tiredness.
var fatigueProofTones = []string{"Broken", "Exhausted", "Monotone"}

var exhaustedTones = []string{"Flat", "Irritable"}

func tone(s *State, att string, r Rand) string {
	t, ok := toneMap[att]
	if !ok {
		t = "Neutral"
	}
	if containsLabel(fatigueProofTones, t) {
		return t
	}
	switch f := s.fatigueNorm(); {
	case f > 0.8:
		return exhaustedTones[r.IntN(len(exhaustedTones))]
	case f > 0.6 && t == "Neutral":
		return "Tired"
	case f > 0.6:
		return t + " (tiredly)"
	}
	return t
}

// ═══════════════════════════════════════════════════════════════════════════════
// NONVERBAL CUES
// ═══════════════════════════════════════════════════════════════════════════════

var traumaCues = [NumTraumaResponses][]string{
	Fight:        {"Clenched fists", "Challenging stare"},
	Flight:       {"Restlessness", "Looks towards exit"},
	Freeze:       {"Motionless", "Vacant stare"},
	Fawn:         {"Nervous smile", "Nods frequently"},
	Dissociation: {"Empty stare", "Slow movements"},
}

var emotionCueMap = map[Emotion][]string{
	Anger:         {"Frown", "Tight lips"},
	Fear:          {"Wide eyes", "Swallows hard"},
	Joy:           {"Genuine smile", "Bright eyes"},
	Grieving:      {"Teary eyes", "Slumped shoulders"},
	Shame:         {"Avoids eye contact", "Shrinks back"},
	Disgust:       {"Grimace of disgust", "Looks away"},
	Vulnerability: {"Soft eye contact", "Open posture"},
	Connection:    {"Leans in", "Nods"},
}

var (
	dismissiveAttitudes = []string{"Dismissive", "Arrogant", "Superior", "Contemptuous"}
	distantAttitudes    = []string{"Cold", "Aloof", "Indifferent", "Detached"}
	defaultCues         = []string{"Adjusts clothing", "Shifts weight", "Looks around", "Clears throat", "Plays with hair", "Rubs eyes"}
)

type cueSet struct{ items []string }

func (c *cueSet) add(cue string) {
	if !containsLabel(c.items, cue) {
		c.items = append(c.items, cue)
	}
}

func (c *cueSet) full() bool { return len(c.items) >= numCues }

// nonverbalCues returns exactly three distinct cues.
func nonverbalCues(s *State, trauma TraumaActivation, r Rand) []string {
	var cues cueSet
	if trauma.Activated {
		for _, c := range traumaCues[trauma.Response] {
			cues.add(c)
		}
	}

	order := AllEmotions()
	sort.SliceStable(order, func(i, j int) bool {
		return math.Abs(s.Expressed[order[i]]-0.5) > math.Abs(s.Expressed[order[j]]-0.5)
	})
	for _, e := range order {
		if list, ok := emotionCueMap[e]; ok && s.Expressed[e] > 0.6 {
			cues.add(list[r.IntN(len(list))])
		}
		if cues.full() {
			break
		}
	}

	if !cues.full() {
		att := attitude(s, TraumaActivation{})
		if containsLabel(dismissiveAttitudes, att) {
			cues.add("Rolls eyes")
		}
		if containsLabel(distantAttitudes, att) {
			cues.add("Distant stare")
		}
		if s.Facade > 0.75 {
			cues.add("Forced smile")
		}
		if s.fatigueNorm() > 0.7 {
			cues.add("Subtly yawns")
		}
	}

	pool := append([]string(nil), defaultCues...)
	for !cues.full() && len(pool) > 0 {
		i := r.IntN(len(pool))
		cues.add(pool[i])
		pool = append(pool[:i], pool[i+1:]...)
	}
	return cues.items[:numCues]
}

// ═══════════════════════════════════════════════════════════════════════════════
// RELATIONSHIP
// ═══════════════════════════════════════════════════════════════════════════════

func relationshipLabel(rel Relational) string {
	dist, trust, intimacy := rel.Distance, rel.Trust, rel.Intimacy
	switch {
	case dist > 0.75:
		switch {
		case trust < 0.25:
			return "Hostile"
		case trust < 0.4:
			return "Antagonistic"
		default:
			return "Very Distant"
		}
	case dist > 0.6:
		if trust < 0.3 {
			return "Distrustful"
		}
		return "Distant"
	case dist < 0.3:
		switch {
		case intimacy > 0.7 && trust > 0.7:
			return "Intimate"
		case intimacy > 0.5 && trust > 0.6:
			return "Very Close"
		default:
			return "Close"
		}
	case dist < 0.5:
		switch {
		case intimacy > 0.4 && trust > 0.5:
			return "Friendly"
		case trust > 0.6:
			return "Cordial"
		default:
			return "Acquainted"
		}
	default:
		switch {
		case trust > 0.6 && intimacy > 0.3:
			return "Establishing"
		case trust < 0.4:
			return "Tense"
		default:
			return "Neutral"
		}
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// ASSEMBLY
// ═══════════════════════════════════════════════════════════════════════════════

func buildGuidance(s *State, trauma TraumaActivation, r Rand) Guidance {
	att := attitude(s, trauma)
	g := Guidance{
		EmotionalState:            stateLabels(s),
		FacadeIntensity:           round(s.Facade, 3),
		Attitude:                  att,
		NonverbalCues:             nonverbalCues(s, trauma, r),
		Tone:                      tone(s, att, r),
		Relationship:              relationshipLabel(s.Relational),
		ActiveDefenses:            make([]string, 0, len(s.Defenses)),
		InternalFeeling:           s.Internal.Max().String(),
		ExpressedFeeling:          s.Expressed.Max().String(),
		TraumaActivated:           trauma.Activated,
		InternalEmotionsDetailed:  s.Internal.Map(2),
		ExpressedEmotionsDetailed: s.Expressed.Map(2),
		CurrentTrust:              round(s.Relational.Trust, 2),
		CurrentIntimacy:           round(s.Relational.Intimacy, 2),
		SelfIdentityMetrics:       s.Identity,
		DetectedConflicts:         make([]string, 0, len(s.Conflicts)),
		FatigueLevel:              round(s.Fatigue, 2),
	}
	if trauma.Activated {
		name := trauma.Response.String()
		g.TraumaResponseType = &name
	}
	for _, d := range s.Defenses {
		g.ActiveDefenses = append(g.ActiveDefenses, d.Kind.String())
	}
	for _, c := range s.Conflicts {
		g.DetectedConflicts = append(g.DetectedConflicts, c.Label())
	}
	return g
}
