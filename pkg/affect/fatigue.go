package affect

const (
	MaxFatigue = 100.0

	fatigueRecoveryPerHour = 12.5
	fatigueBasePerSecond   = 0.5
	fatigueEmotionalDrain  = 0.1
	activeEmotionFloor     = 0.1
)

// advanceFatigue moves fatigue by the elapsed hours. Non-positive elapsed time
// changes nothing.
func advanceFatigue(s *State, hours float64, sleeping bool) {
	if hours <= 0 {
		return
	}
	if sleeping {
		s.Fatigue = max(0, s.Fatigue-fatigueRecoveryPerHour*hours)
		return
	}
	seconds := hours * 3600
	var sum float64
	var n int
	for _, v := range s.Internal {
		if v > activeEmotionFloor {
			sum += v
			n++
		}
	}
	var avg float64
	if n > 0 {
		avg = sum / float64(n)
	}
	p := s.Personality
	rise := (fatigueBasePerSecond + avg*fatigueEmotionalDrain) * seconds
	rise *= (1 - p[Resilience]*0.5) * (1 + p[Conscientiousness]*0.1)
	s.Fatigue = clamp(s.Fatigue+rise, 0, MaxFatigue)
}

// sleepDampened are damped harder by a sleep cycle when elevated.
var sleepDampened = []Emotion{Anger, Fear, Disgust}

// sleepCycle dampens elevated emotions the way a night's sleep would.
func sleepCycle(s *State) {
	for i, v := range s.Internal {
		switch {
		case containsEmotion(sleepDampened, Emotion(i)) && v > 0.5:
			s.Internal[i] = v * 0.6
		case v > 0.7:
			s.Internal[i] = v * 0.8
		}
	}
	s.clampInternal()
}
