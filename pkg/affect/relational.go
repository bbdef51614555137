package affect

import "math"

const (
	attachmentGate = 0.15
	attachmentRate = 0.012
	evolutionRate  = 0.007
	growthRate     = 0.015

	// evolutionImpactFloor is the total absolute impact that makes a turn
	// intense enough for personality evolution.
	evolutionImpactFloor = 0.5
)

// updateRelationship moves trust, intimacy and distance from the safety and
// connection impact, shaped by attachment style.
func updateRelationship(s *State, impact EmotionVector, r Rand) {
	var dTrust, dIntimacy, dDistance float64
	safety, connection := impact[Safety], impact[Connection]

	if safety > 0 {
		dTrust += safety * 0.12
	} else {
		dTrust += safety * 0.25
	}
	if s.Internal[Connection] > s.Relational.Trust {
		dIntimacy += 0.07
	}
	if connection > 0 {
		dDistance -= connection * 0.13
	} else {
		dDistance -= connection * 0.18
	}

	rel := &s.Relational
	att := s.Attachment
	if anx := att[Anxiety]; anx > 0.6 {
		switch {
		case connection < -0.25:
			dDistance += math.Abs(connection) * 0.35 * anx
			dTrust -= 0.06 * anx
		case connection > 0.25:
			dIntimacy += connection * 0.25 * anx
		}
	}
	if avo := att[Avoidance]; avo > 0.6 {
		rel.Intimacy = min(rel.Intimacy+dIntimacy, 0.75-avo*0.55)
		rel.Distance = max(rel.Distance+dDistance, 0.25+avo*0.45)
		dIntimacy, dDistance = 0, 0
	}
	if sec := att[Security]; sec > 0.6 {
		dTrust *= 1 - sec*0.45
		if connection < 0 {
			dDistance += sec * 0.35 * math.Abs(connection)
		}
	}
	if dis := att[Disorganization]; dis > 0.6 {
		noise := dis * 0.12
		dTrust += uniform(r, -noise, noise)
		dIntimacy += uniform(r, -noise, noise)
		dDistance += uniform(r, -noise, noise)
	}

	rel.Trust = clamp(rel.Trust+dTrust, 0.05, 0.95)
	rel.Intimacy = clamp01(rel.Intimacy + dIntimacy)
	rel.Distance = clamp(rel.Distance+dDistance, 0.05, 0.95)
}

// updateAttachment shifts the attachment style on roughly one turn in seven.
func updateAttachment(s *State, impact EmotionVector, ctx Context, r Rand) {
	if r.Float64() > attachmentGate {
		return
	}
	st := &s.Attachment
	connection, safety := s.Internal[Connection], s.Internal[Safety]
	rate := attachmentRate
	switch {
	case connection > 0.65 && safety > 0.65:
		st[Security] += rate
		st[Anxiety] -= rate * 0.6
		st[Avoidance] -= rate * 0.6
	case impact[Connection] < -0.45 || ctx.RejectionExperience:
		st[Anxiety] += rate * 1.6
		st[Security] -= rate * 1.1
	case ctx.BoundaryViolation || s.Internal[Autonomy] < 0.15:
		st[Avoidance] += rate * 1.6
		st[Security] -= rate * 1.1
	case safety < 0.25 && (connection > 0.75 || connection < 0.25):
		st[Disorganization] += rate * 1.7
		st[Security] -= rate * 1.2
	}
	for i := range st {
		st[i] = clamp(st[i], 0.05, 0.95)
	}
}

// processGrowth raises growth metrics and reports whether growth occurred.
func processGrowth(s *State, ctx Context, reg Regulation, peak float64) bool {
	g := &s.Growth
	grew := false

	initial := peak
	if ctx.InitialIntensity > 0 {
		initial = ctx.InitialIntensity
	}
	if reg.Applied && isAdaptive(reg.Strategy) && initial > 0.6 {
		g[EmotionalIntegration] += growthRate
		g[SelfCompassion] += growthRate * 0.7
		grew = true
	}
	if ctx.InsightGained {
		g[InsightDevelopment] += growthRate * 1.7
		g[SchemaRestructuring] += growthRate * 1.2
		grew = true
	}
	if s.Internal[Connection] > 0.8 && s.Internal[Safety] > 0.8 {
		g[IdentityCoherence] += growthRate * 0.7
		g[SelfCompassion] += growthRate * 0.7
		grew = true
	}
	for i := range g {
		g[i] = clamp01(g[i])
	}
	return grew
}

// evolvePersonality nudges traits on intense, traumatic or growth turns and
// recomputes emotional intelligence. It reports whether evolution ran.
func evolvePersonality(s *State, impact EmotionVector, ctx Context, trauma TraumaActivation, grew bool) bool {
	var total float64
	for _, v := range impact {
		total += math.Abs(v)
	}
	growth := ctx.GrowthOpportunityTaken || grew
	if total <= evolutionImpactFloor && !trauma.Activated && !growth {
		return false
	}

	p := &s.Personality
	in := s.Internal
	r := evolutionRate
	if in[Vulnerability] > 0.65 && in[Safety] > 0.65 {
		p[EmotionalAwareness] += r
		p[FearOfVulnerability] -= r
		p[Empathy] += r * 0.6
		p[Neuroticism] -= r * 0.6
	}
	if in[Connection] > 0.85 {
		p[Empathy] += r
		p[Agreeableness] += r
		p[Extraversion] += r * 0.6
	}
	if in[Validation] > 0.85 && in[Joy] > 0.75 {
		p[Conscientiousness] += r * 0.6
		p[Neuroticism] -= r * 0.6
	}
	if s.Patterns[SelfWorthContingency] > 0.6 {
		p[Pride] += r
	}
	switch {
	case ctx.RecentFailure && in[Safety] > 0.55:
		p[Resilience] += r * 1.6
		p[Adaptability] += r * 1.1
	case ctx.RecentFailure && in[Safety] < 0.35:
		p[Neuroticism] += r * 1.7
		p[Resilience] -= r * 1.1
	}
	if trauma.Activated {
		p[Neuroticism] += r * 2.2
		p[Resilience] -= r * 1.7
	}
	if growth {
		p[Resilience] += r * 1.7
		p[Adaptability] += r * 1.7
		p[EmotionalAwareness] += r * 1.1
	}
	for i := range p {
		p[i] = clamp(p[i], 0.05, 0.95)
	}
	s.EI = deriveEI(s.Personality)
	return true
}
