// Package persona loads character presets: a name, a description, and
// overrides layered onto the engine's built-in disposition.
package persona

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/LianelaSky/Project-Alyssa/pkg/affect"
)

var (
	// ErrInvalidPersona is returned for unknown keys or out-of-range values.
	ErrInvalidPersona = errors.New("invalid persona")
	// ErrUnknownPreset is returned when no built-in preset has the given name.
	ErrUnknownPreset = errors.New("unknown persona preset")
)

// Persona describes a character. Every override map is keyed by the snake_case
// names the engine reports in guidance and snapshots.
type Persona struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`

	Emotions    map[string]float64 `yaml:"emotions,omitempty"`
	Personality map[string]float64 `yaml:"personality,omitempty"`
	Attachment  map[string]float64 `yaml:"attachment,omitempty"`
	Unconscious map[string]float64 `yaml:"unconscious,omitempty"`
	Trauma      map[string]float64 `yaml:"trauma,omitempty"`
	Regulation  map[string]float64 `yaml:"regulation,omitempty"`
	Cognitive   map[string]float64 `yaml:"cognitive,omitempty"`
	Cultural    map[string]float64 `yaml:"cultural,omitempty"`
}

// Default returns the built-in character with no overrides.
func Default() *Persona {
	return &Persona{
		Name:        "Alyssa",
		Description: "Proud, guarded and anxious-avoidant; hides hurt behind control.",
	}
}

// group ties one override map to the profile slice it lands in.
type group struct {
	name   string
	values map[string]float64
	parse  func(string) (int, bool)
	dst    []float64
}

func (p *Persona) groups(prof *affect.Profile) []group {
	return []group{
		{"emotions", p.Emotions, func(s string) (int, bool) { e, ok := affect.ParseEmotion(s); return int(e), ok }, prof.Emotions[:]},
		{"personality", p.Personality, func(s string) (int, bool) { t, ok := affect.ParseTrait(s); return int(t), ok }, prof.Personality[:]},
		{"attachment", p.Attachment, func(s string) (int, bool) { a, ok := affect.ParseAttachment(s); return int(a), ok }, prof.Attachment[:]},
		{"unconscious", p.Unconscious, func(s string) (int, bool) { u, ok := affect.ParsePattern(s); return int(u), ok }, prof.Patterns[:]},
		{"trauma", p.Trauma, func(s string) (int, bool) { r, ok := affect.ParseTraumaResponse(s); return int(r), ok }, prof.Trauma[:]},
		{"regulation", p.Regulation, func(s string) (int, bool) { r, ok := affect.ParseStrategy(s); return int(r), ok }, prof.Skills[:]},
		{"cognitive", p.Cognitive, func(s string) (int, bool) { c, ok := affect.ParseTendency(s); return int(c), ok }, prof.Tendencies[:]},
		{"cultural", p.Cultural, func(s string) (int, bool) { c, ok := affect.ParseCulturalFactor(s); return int(c), ok }, prof.Cultural[:]},
	}
}

// Validate checks the name, every override key and every value.
func (p *Persona) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidPersona)
	}
	var scratch affect.Profile
	for _, g := range p.groups(&scratch) {
		if err := g.apply(); err != nil {
			return err
		}
	}
	return nil
}

// Profile layers the overrides onto affect.DefaultProfile.
func (p *Persona) Profile() (affect.Profile, error) {
	prof := affect.DefaultProfile()
	if err := p.Validate(); err != nil {
		return prof, err
	}
	for _, g := range p.groups(&prof) {
		if err := g.apply(); err != nil {
			return affect.DefaultProfile(), err
		}
	}
	return prof, nil
}

func (g group) apply() error {
	keys := make([]string, 0, len(g.values))
	for k := range g.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		i, ok := g.parse(k)
		if !ok {
			return fmt.Errorf("%w: unknown %s key %q", ErrInvalidPersona, g.name, k)
		}
		v := g.values[k]
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("%w: %s.%s = %v out of [0,1]", ErrInvalidPersona, g.name, k, v)
		}
		g.dst[i] = v
	}
	return nil
}
