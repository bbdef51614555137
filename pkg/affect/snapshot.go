package affect

import (
	"fmt"
	"math"
	"time"
)

// SnapshotVersion is the persisted state layout version.
const SnapshotVersion = 1

// Snapshot is the persistable form of an engine.
type Snapshot struct {
	Version   int       `json:"version"`
	Character string    `json:"character,omitempty"`
	TakenAt   time.Time `json:"taken_at"`
	State     State     `json:"state"`
}

// Snapshot captures the current state between turns.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		Version:   SnapshotVersion,
		Character: e.name,
		TakenAt:   e.now(),
		State:     e.state.Clone(),
	}
}

// Restore replaces the state with the snapshot's. Core and trigger ids naming
// no stored memory are dropped. An invalid snapshot leaves the engine
// unchanged and returns an error wrapping ErrInvalidSnapshot.
func (e *Engine) Restore(snap Snapshot) error {
	if snap.Version != SnapshotVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, snap.Version)
	}
	st := snap.State.Clone()
	st.Memory.sweep()
	if err := validateState(&st); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = st
	e.logger.Debug().
		Int("memories", st.Memory.Len()).
		Float64("fatigue", st.Fatigue).
		Msg("affective state restored")
	return nil
}

func checkUnit(group string, names []string, vals []float64) error {
	for i, v := range vals {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("%s.%s = %v out of [0,1]", group, nameOf(names, i), v)
		}
	}
	return nil
}

func validateState(s *State) error {
	groups := []struct {
		name  string
		names []string
		vals  []float64
	}{
		{"internal_emotions", emotionNames, s.Internal[:]},
		{"expressed_emotions", emotionNames, s.Expressed[:]},
		{"personality", traitNames, s.Personality[:]},
		{"attachment_style", attachmentNames, s.Attachment[:]},
		{"cognitive_appraisals", tendencyNames, s.Tendencies[:]},
		{"unconscious_patterns", patternNames, s.Patterns[:]},
		{"trauma_responses", traumaNames, s.Trauma[:]},
		{"regulation_strategies", strategyNames, s.Skills[:]},
		{"cultural_factors", culturalNames, s.Cultural[:]},
		{"personal_growth", growthNames, s.Growth[:]},
		{"relational", []string{"trust", "intimacy", "distance"},
			[]float64{s.Relational.Trust, s.Relational.Intimacy, s.Relational.Distance}},
		{"dynamics", []string{"inertia", "volatility", "granularity", "contagion"},
			[]float64{s.Dynamics.Inertia, s.Dynamics.Volatility, s.Dynamics.Granularity, s.Dynamics.Contagion}},
		{"self_identity_metrics", []string{"coherence", "stability"},
			[]float64{s.Identity.Coherence, s.Identity.Stability}},
		{"state", []string{"facade_intensity", "defense_activation"},
			[]float64{s.Facade, s.DefenseActivation}},
	}
	for _, g := range groups {
		if err := checkUnit(g.name, g.names, g.vals); err != nil {
			return err
		}
	}
	if math.IsNaN(s.Fatigue) || s.Fatigue < 0 || s.Fatigue > MaxFatigue {
		return fmt.Errorf("fatigue_level = %v out of [0,%v]", s.Fatigue, MaxFatigue)
	}
	if len(s.Defenses) > maxActiveDefenses {
		return fmt.Errorf("%d active defenses exceed %d", len(s.Defenses), maxActiveDefenses)
	}
	for _, d := range s.Defenses {
		if d.Kind < 0 || int(d.Kind) >= NumDefenses {
			return fmt.Errorf("unknown defense %d", d.Kind)
		}
	}
	for _, c := range s.Conflicts {
		if c.Kind < 0 || int(c.Kind) >= len(conflictNames) {
			return fmt.Errorf("unknown conflict kind %d", c.Kind)
		}
	}
	if err := s.Memory.validate(); err != nil {
		return fmt.Errorf("memory: %w", err)
	}
	return nil
}
