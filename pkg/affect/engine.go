package affect

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ═══════════════════════════════════════════════════════════════════════════════
// ENGINE
// ═══════════════════════════════════════════════════════════════════════════════

// Engine owns one character's affective state and advances it turn by turn.
// Calls are serialized by an internal mutex.
type Engine struct {
	mu      sync.Mutex
	state   State
	profile Profile
	rand    Rand
	now     func() time.Time
	logger  zerolog.Logger
	name    string
	newID   func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source. A seeded source plus a fixed clock makes
// the engine fully deterministic.
func WithRand(r Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rand = r
		}
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithCharacterName sets the name used to detect messages about the character.
func WithCharacterName(name string) Option {
	return func(e *Engine) { e.name = name }
}

// WithProfile sets the disposition the engine starts from and resets to.
func WithProfile(p Profile) Option {
	return func(e *Engine) { e.profile = p }
}

// WithIDGenerator overrides how memory ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// New creates an engine in the profile's initial state.
func New(opts ...Option) *Engine {
	e := &Engine{
		profile: DefaultProfile(),
		now:     time.Now,
		logger:  zerolog.Nop(),
		newID:   newMemoryID,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rand == nil {
		e.rand = newDefaultRand()
	}
	e.state = NewState(e.profile, e.now())
	return e
}

// CharacterName returns the configured character name.
func (e *Engine) CharacterName() string { return e.name }

// State returns a deep copy of the current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Reset discards all accumulated state and memories.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = NewState(e.profile, e.now())
	e.logger.Debug().Msg("affective state reset")
}

// UpdateFatigue advances fatigue by the elapsed hours, recovering when the
// character sleeps.
func (e *Engine) UpdateFatigue(elapsedHours float64, sleeping bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	before := e.state.Fatigue
	advanceFatigue(&e.state, elapsedHours, sleeping)
	e.logger.Debug().
		Float64("hours", elapsedHours).
		Bool("sleeping", sleeping).
		Float64("from", before).
		Float64("to", e.state.Fatigue).
		Msg("fatigue updated")
}

// ProcessSleepCycle dampens elevated emotions as a night's sleep would.
func (e *Engine) ProcessSleepCycle() {
	e.mu.Lock()
	defer e.mu.Unlock()
	sleepCycle(&e.state)
}

// ═══════════════════════════════════════════════════════════════════════════════
// TURN PIPELINE
// ═══════════════════════════════════════════════════════════════════════════════

// turn is the working value threaded through the pipeline. state is a private
// clone that is committed only after every step ran.
type turn struct {
	state     State
	text      text
	ctx       Context
	now       time.Time
	impact    EmotionVector
	appraisal Appraisal
	recalled  []string
	trauma    TraumaActivation
	peak      float64
	reg       Regulation
	grew      bool
	guidance  Guidance
}

type step struct {
	name string
	run  func(e *Engine, t *turn)
}

var pipeline = []step{
	{"decay", (*Engine).stepDecay},
	{"appraisal", (*Engine).stepAppraisal},
	{"triggers", (*Engine).stepTriggers},
	{"trauma", (*Engine).stepTrauma},
	{"contagion", (*Engine).stepContagion},
	{"update", (*Engine).stepUpdate},
	{"regulation", (*Engine).stepRegulation},
	{"expression", (*Engine).stepExpression},
	{"relationship", (*Engine).stepRelationship},
	{"memory", (*Engine).stepMemory},
	{"growth", (*Engine).stepGrowth},
	{"evolution", (*Engine).stepEvolution},
	{"attachment", (*Engine).stepAttachment},
	{"conflicts", (*Engine).stepConflicts},
	{"identity", (*Engine).stepIdentity},
	{"guidance", (*Engine).stepGuidance},
}

// ProcessInteraction runs one conversational turn and returns the guidance
// for the downstream generator.
func (e *Engine) ProcessInteraction(message string, ctx Context) Guidance {
	e.mu.Lock()
	defer e.mu.Unlock()

	t := &turn{
		state: e.state.Clone(),
		text:  newText(message),
		ctx:   ctx,
		now:   e.now(),
	}
	for _, s := range pipeline {
		s.run(e, t)
	}
	t.state.LastInteraction = t.now
	e.state = t.state
	return t.guidance
}

func (e *Engine) stepDecay(t *turn) {
	if t.state.LastInteraction.IsZero() {
		return
	}
	if n := t.state.Memory.decay(t.now.Sub(t.state.LastInteraction)); n > 0 {
		e.logger.Debug().Int("pruned", n).Msg("memories faded")
	}
}

func (e *Engine) stepAppraisal(t *turn) {
	t.impact, t.appraisal = analyze(&t.state, t.text, t.ctx, e.name)
}

func (e *Engine) stepTriggers(t *turn) {
	t.recalled = recall(&t.state, t.text, t.now, e.rand)
	if len(t.recalled) > 0 {
		amplify(&t.impact, &t.state, t.recalled, t.now)
		e.logger.Debug().Strs("memories", t.recalled).Msg("memories recalled")
	}
}

func (e *Engine) stepTrauma(t *turn) {
	t.trauma = evaluateTrauma(&t.state, t.text, t.ctx, &t.impact, e.rand)
	if t.trauma.Activated {
		e.logger.Debug().
			Str("response", t.trauma.Response.String()).
			Float64("intensity", t.trauma.Intensity).
			Msg("trauma response activated")
	}
}

func (e *Engine) stepContagion(t *turn) {
	contagion(&t.state, t.ctx.InterlocutorEmotions)
}

func (e *Engine) stepUpdate(t *turn) {
	updateInternal(&t.state, t.impact, t.ctx, t.trauma)
	t.peak = t.state.Internal[t.state.Internal.Max()]
}

func (e *Engine) stepRegulation(t *turn) {
	t.reg = regulate(&t.state, t.ctx, e.rand)
}

func (e *Engine) stepExpression(t *turn) {
	t.state.Defenses = evaluateDefenses(&t.state)
	for _, d := range t.state.Defenses {
		e.logger.Debug().
			Str("defense", d.Kind.String()).
			Float64("strength", d.Strength).
			Msg("defense mechanism active")
	}
	express(&t.state, t.reg)
}

func (e *Engine) stepRelationship(t *turn) {
	updateRelationship(&t.state, t.impact, e.rand)
}

func (e *Engine) stepMemory(t *turn) {
	mem, ok := formMemory(&t.state, memoryInput{
		text:      t.text,
		impact:    t.impact,
		ctx:       t.ctx,
		appraisal: t.appraisal,
		now:       t.now,
	}, e.rand, e.newID)
	if ok && t.state.Memory.IsCore(mem.ID) {
		e.logger.Debug().
			Str("id", mem.ID).
			Float64("significance", mem.Significance).
			Msg("memory consolidated as core")
	}
}

func (e *Engine) stepGrowth(t *turn) {
	t.grew = processGrowth(&t.state, t.ctx, t.reg, t.peak)
}

func (e *Engine) stepEvolution(t *turn) {
	evolvePersonality(&t.state, t.impact, t.ctx, t.trauma, t.grew)
}

func (e *Engine) stepAttachment(t *turn) {
	updateAttachment(&t.state, t.impact, t.ctx, e.rand)
}

func (e *Engine) stepConflicts(t *turn) {
	t.state.Conflicts = detectConflicts(&t.state)
	resolveConflicts(&t.state, t.state.Conflicts)
	t.state.clampInternal()
}

func (e *Engine) stepIdentity(t *turn) {
	integrateIdentity(&t.state)
}

func (e *Engine) stepGuidance(t *turn) {
	t.guidance = buildGuidance(&t.state, t.trauma, e.rand)
}
