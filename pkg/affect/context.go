package affect

import (
	"sort"
	"strconv"
	"strings"
)

// Context carries the optional per-turn flags supplied by the caller. The zero
// value is a valid, neutral context.
type Context struct {
	// InterlocutorEmotions is the reported emotional state of the other party.
	InterlocutorEmotions map[Emotion]float64

	HighImpactEvent             bool
	Location                    string
	RecentFailure               bool
	SocialSituation             bool
	TraumaTriggers              []string
	UserThreatening             bool
	UserPleading                bool
	FeelsCornered               bool
	PreviousInteractionNegative bool
	GrowthOpportunityTaken      bool
	InsightGained               bool
	InappropriateEmotions       []Emotion

	// SituationLocked is the negation of can_change_situation.
	SituationLocked bool
	// SupportUnavailable is the negation of support_available.
	SupportUnavailable bool

	RejectionExperience bool
	BoundaryViolation   bool
	UserName            string

	// InitialIntensity overrides the pre-regulation peak intensity used by the
	// growth step. Zero means unset.
	InitialIntensity float64
}

// ContextSnapshot is the immutable copy of a turn's context kept inside a memory.
type ContextSnapshot struct {
	Location                    string   `json:"location,omitempty"`
	HighImpactEvent             bool     `json:"high_impact_event,omitempty"`
	RecentFailure               bool     `json:"recent_failure,omitempty"`
	SocialSituation             bool     `json:"social_situation,omitempty"`
	UserThreatening             bool     `json:"is_user_threatening,omitempty"`
	UserPleading                bool     `json:"user_is_pleading,omitempty"`
	FeelsCornered               bool     `json:"feels_cornered,omitempty"`
	PreviousInteractionNegative bool     `json:"previous_interaction_negative,omitempty"`
	TraumaTriggers              []string `json:"trauma_triggers,omitempty"`
	UserName                    string   `json:"user_name,omitempty"`
}

// Snapshot captures the context by value.
func (c Context) Snapshot() ContextSnapshot {
	return ContextSnapshot{
		Location:                    c.Location,
		HighImpactEvent:             c.HighImpactEvent,
		RecentFailure:               c.RecentFailure,
		SocialSituation:             c.SocialSituation,
		UserThreatening:             c.UserThreatening,
		UserPleading:                c.UserPleading,
		FeelsCornered:               c.FeelsCornered,
		PreviousInteractionNegative: c.PreviousInteractionNegative,
		TraumaTriggers:              append([]string(nil), c.TraumaTriggers...),
		UserName:                    c.UserName,
	}
}

func (c Context) inappropriate(e Emotion) bool {
	for _, x := range c.InappropriateEmotions {
		if x == e {
			return true
		}
	}
	return false
}

// ParseContext converts a loosely typed context map into a Context. It never
// fails: unknown keys are ignored, values of the wrong type fall back to their
// default, and unknown emotion names are dropped.
func ParseContext(raw map[string]any) Context {
	var c Context
	if raw == nil {
		return c
	}
	c.InterlocutorEmotions = parseEmotionMap(raw["interlocutor_emotions"])
	c.HighImpactEvent = parseBool(raw["high_impact_event"], false)
	c.Location = parseString(raw["location"])
	c.RecentFailure = parseBool(raw["recent_failure"], false)
	c.SocialSituation = parseBool(raw["social_situation"], false)
	c.TraumaTriggers = parseStrings(raw["trauma_triggers"])
	c.UserThreatening = parseBool(raw["is_user_threatening"], false)
	c.UserPleading = parseBool(raw["user_is_pleading"], false)
	c.FeelsCornered = parseBool(raw["feels_cornered"], false)
	c.PreviousInteractionNegative = parseBool(raw["previous_interaction_negative"], false)
	c.GrowthOpportunityTaken = parseBool(raw["growth_opportunity_taken"], false)
	c.InsightGained = parseBool(raw["insight_gained"], false)
	for _, name := range parseStrings(raw["inappropriate_emotions"]) {
		if e, ok := ParseEmotion(name); ok {
			c.InappropriateEmotions = append(c.InappropriateEmotions, e)
		}
	}
	c.SituationLocked = !parseBool(raw["can_change_situation"], true)
	c.SupportUnavailable = !parseBool(raw["support_available"], true)
	c.RejectionExperience = parseBool(raw["rejection_experience"], false)
	c.BoundaryViolation = parseBool(raw["boundary_violation"], false)
	c.UserName = parseString(raw["user_name"])
	if f, ok := parseFloat(raw["initial_emotional_intensity"]); ok {
		c.InitialIntensity = clamp01(f)
	}
	return c
}

func parseBool(v any, def bool) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		if err != nil {
			return def
		}
		return b
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0
	default:
		return def
	}
}

func parseString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func parseFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func parseStrings(v any) []string {
	switch x := v.(type) {
	case []string:
		return append([]string(nil), x...)
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if x == "" {
			return nil
		}
		return []string{x}
	default:
		return nil
	}
}

func parseEmotionMap(v any) map[Emotion]float64 {
	var out map[Emotion]float64
	add := func(name string, raw any) {
		e, ok := ParseEmotion(name)
		if !ok {
			return
		}
		f, ok := parseFloat(raw)
		if !ok {
			return
		}
		if out == nil {
			out = make(map[Emotion]float64)
		}
		out[e] = clamp01(f)
	}
	switch m := v.(type) {
	case map[string]float64:
		for k, f := range m {
			add(k, f)
		}
	case map[string]any:
		for k, f := range m {
			add(k, f)
		}
	}
	return out
}

// sortedEmotions returns the keys of an emotion map in catalog order.
func sortedEmotions(m map[Emotion]float64) []Emotion {
	keys := make([]Emotion, 0, len(m))
	for e := range m {
		keys = append(keys, e)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// DetectHighImpact reports whether a message mentions crisis topics that the
// caller should treat as a high impact event.
func DetectHighImpact(message string) bool {
	lower := strings.ToLower(message)
	for _, w := range highImpactWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

var highImpactWords = []string{
	"die", "death", "gone", "kill", "razor", "cut", "suicide", "depress", "overdose", "scars",
}
