package affect

import (
	"strings"
	"unicode"
)

// text is a message normalized for phrase lookup: lower-cased, punctuation
// folded to spaces, words separated by single spaces and padded on both ends.
type text struct {
	raw    string
	padded string
	words  []string
}

func newText(message string) text {
	words := tokenize(message)
	return text{
		raw:    message,
		padded: " " + strings.Join(words, " ") + " ",
		words:  words,
	}
}

func tokenize(s string) []string {
	s = strings.ToLower(strings.ReplaceAll(s, "’", "'"))
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

// has reports whether the phrase occurs on word boundaries. A trailing '*'
// turns the last word into a prefix match.
func (t text) has(phrase string) bool {
	prefix := strings.HasSuffix(phrase, "*")
	norm := strings.Join(tokenize(strings.TrimSuffix(phrase, "*")), " ")
	if norm == "" {
		return false
	}
	if prefix {
		return strings.Contains(t.padded, " "+norm)
	}
	return strings.Contains(t.padded, " "+norm+" ")
}

// count returns how many distinct entries of the list occur in the text.
func (t text) count(list []string) int {
	n := 0
	for _, p := range list {
		if t.has(p) {
			n++
		}
	}
	return n
}

func (t text) any(list []string) bool {
	for _, p := range list {
		if t.has(p) {
			return true
		}
	}
	return false
}

// ═══════════════════════════════════════════════════════════════════════════════
// EMOTION CUES
// ═══════════════════════════════════════════════════════════════════════════════

type emotionCues struct {
	increase []string
	decrease []string
}

var emotionLexicon = [NumEmotions]emotionCues{
	Vulnerability: {
		increase: []string{"confess", "secret", "open up", "feel", "help", "intimate", "private"},
		decrease: []string{"pathetic", "weak", "stupid", "ridiculous", "superficial"},
	},
	Connection: {
		increase: []string{"together", "us", "connect", "hug", "support", "team", "love", "share", "understand"},
		decrease: []string{"alone", "your problem", "separated", "distant", "ignore", "different"},
	},
	Autonomy: {
		increase: []string{"decide", "my choice", "free", "independent", "control", "my life", "you respect"},
		decrease: []string{"must", "you have to", "forced", "you order", "you control", "you impose"},
	},
	Validation: {
		increase: []string{"great", "impressive", "good job", "proud", "success", "achievement", "you're worth it", "i recognize"},
		decrease: []string{"bad", "mistake", "failure", "disappointment", "useless", "criticize", "judge"},
	},
	Authenticity: {
		increase: []string{"real", "honest", "sincere", "myself", "truth", "transparent"},
		decrease: []string{"false", "you pretend", "mask", "you lie", "you hide", "deception"},
	},
	Safety: {
		increase: []string{"safe", "i trust", "i understand", "support", "comfortable", "respect"},
		decrease: []string{"danger", "threat", "you judge", "you criticize", "fear", "insecure", "pressure"},
	},
	Grieving: {
		increase: []string{"died", "loss", "miss", "mourning", "deep sadness", "emptiness", "pain"},
		decrease: []string{"get over", "move on", "peace", "remember fondly", "accept", "heal"},
	},
	Joy: {
		increase: []string{"happy", "joyful", "fun", "enjoy", "great", "wonderful", "love it", "positive"},
		decrease: []string{"boring", "sad", "bad", "depressing", "negative", "pessimistic"},
	},
	Anger: {
		increase: []string{"unfair", "hate", "rage", "annoyed", "furious", "bother", "irritates", "provoke"},
		decrease: []string{"calm", "forgive", "i understand", "patience", "serene", "resolve"},
	},
	Fear: {
		increase: []string{"fear", "scared", "afraid", "danger", "anxiety", "panic", "terror", "worried"},
		decrease: []string{"safe", "calm", "well", "confident", "brave", "fearless"},
	},
	Shame: {
		increase: []string{"shame", "humiliated", "unworthy", "guilt", "pathetic", "my mistake", "ridiculous"},
		decrease: []string{"i'm worth it", "enough", "accepted", "proud", "worthy", "guiltless"},
	},
	Anticipation: {
		increase: []string{"expect", "soon", "future", "plan", "wish", "nervous about", "anxious for"},
		decrease: []string{"now", "already", "past", "indifferent to future", "present"},
	},
	Disgust: {
		increase: []string{"disgusting", "repugnant", "horrible", "immoral", "dirty", "repulsive"},
		decrease: []string{"clean", "pleasant", "acceptable", "normal", "beautiful"},
	},
}

// strongCue is a phrase family that overrides lexical counting with a fixed
// impact and drops emotional inertia.
type strongCue struct {
	name    string
	phrases []string
	effect  EmotionVector
}

var strongCues = []strongCue{
	{
		name:    "affection",
		phrases: []string{"hug", "comfort", "i love you", "i need you", "unconditional support", "i'm here for you"},
		effect:  EmotionVector{Connection: 0.45, Vulnerability: 0.35, Authenticity: 0.2, Safety: 0.25},
	},
	{
		name:    "loss",
		phrases: []string{"died", "death", "funeral", "irreparable loss", "gone"},
		effect:  EmotionVector{Grieving: 0.65, Vulnerability: 0.45, Connection: -0.25, Joy: -0.6},
	},
	{
		name:    "abandonment",
		phrases: []string{"abandoned", "nobody loves me", "i'm worthless", "always alone", "betrayed", "you left me"},
		effect: EmotionVector{
			Fear: 0.55, Shame: 0.45, Vulnerability: 0.45, Connection: -0.35, Safety: -0.45, Anger: 0.25,
		},
	},
}

// ═══════════════════════════════════════════════════════════════════════════════
// COGNITIVE WORD LISTS
// ═══════════════════════════════════════════════════════════════════════════════

var (
	positiveWords = []string{
		"good", "great", "happy", "love", "like", "enjoy", "thanks", "perfect", "excellent", "wonderful", "amazing",
	}
	negativeWords = []string{
		"bad", "terrible", "sad", "hate", "disgust", "guilt", "sorry", "problem", "difficult", "failure",
		"error", "horrible", "disaster", "alone", "lonely", "nobody", "worthless",
	}
	selfWords        = []string{"you", "your", "to you", "with you"}
	otherWords       = []string{"he", "she", "they", "their fault"}
	speakerWords     = []string{"i", "my", "me", "with me"}
	blameWords       = []string{"fault", "responsible", "cause", "you did", "your mistake", "you failed", "you caused"}
	futureWords      = []string{"will do", "will be", "future", "plan", "hope", "soon", "tomorrow", "after", "going to"}
	threatWords      = []string{"danger", "threat", "risk", "harm", "hurt", "careful", "attack", "destroy", "warning", "watch out"}
	uncertaintyWords = []string{"maybe", "perhaps", "possibly", "could", "doubt", "don't know", "uncertain", "suppose"}
	certaintyWords   = []string{"sure", "definitely", "absolutely", "know", "clear", "always", "never", "obvious", "undoubted"}
	normWords        = []string{"should", "have to", "normal", "correct", "expected", "supposed to", "unacceptable", "weird"}
)

const defaultUserName = "lin"

// ═══════════════════════════════════════════════════════════════════════════════
// THEMES
// ═══════════════════════════════════════════════════════════════════════════════

// Theme is a coarse topic extracted from message text.
type Theme string

const (
	ThemeRejection     Theme = "rejection"
	ThemeBetrayal      Theme = "betrayal"
	ThemeLoss          Theme = "loss"
	ThemeFailure       Theme = "failure"
	ThemeSuccess       Theme = "success"
	ThemeConnection    Theme = "connection"
	ThemeControl       Theme = "control"
	ThemeIdentity      Theme = "identity"
	ThemeVulnerability Theme = "vulnerability"
	ThemeSafety        Theme = "safety"
)

var themeKeywords = []struct {
	theme    Theme
	keywords []string
}{
	{ThemeRejection, []string{"rejection", "abandonment", "exclude", "ignore", "discard", "alone", "leave"}},
	{ThemeBetrayal, []string{"betrayal", "deception", "lie", "unfaithful", "stab", "false friend"}},
	{ThemeLoss, []string{"lose", "lost", "gone", "without", "death", "miss", "mourning"}},
	{ThemeFailure, []string{"failure", "error", "bad", "wrong", "disappointment", "useless", "fail", "can't"}},
	{ThemeSuccess, []string{"success", "achievement", "win", "good", "perfect", "triumph", "get", "overcome"}},
	{ThemeConnection, []string{"connect", "together", "united", "close", "intimate", "love", "support", "team", "friendship", "family"}},
	{ThemeControl, []string{"control", "power", "helpless", "choice", "decide", "free", "order", "force", "manipulate"}},
	{ThemeIdentity, []string{"who i am", "my true self", "identity", "authentic", "be me", "my essence"}},
	{ThemeVulnerability, []string{"vulnerable", "open up", "confess", "weak", "hurt", "show feelings"}},
	{ThemeSafety, []string{"safe", "protected", "trust", "secure", "threat", "danger", "insecurity"}},
}

// extractThemes returns the themes present in the text in table order.
func extractThemes(t text) []Theme {
	var out []Theme
	for _, tk := range themeKeywords {
		if t.any(tk.keywords) {
			out = append(out, tk.theme)
		}
	}
	return out
}

func sharesTheme(a, b []Theme) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// ═══════════════════════════════════════════════════════════════════════════════
// TRAUMA AND TRIGGER WORDS
// ═══════════════════════════════════════════════════════════════════════════════

var traumaKeywords = []string{
	"abandon*", "betray*", "useless", "pathetic", "never enough", "always alone", "nobody cares",
	"rejected", "failure", "broken", "insecure", "trapped", "helpless", "consumed", "destroy",
	"hate", "disgust", "extreme guilt", "paralyzing fear",
}

var triggerStopwords = map[string]bool{
	"because": true, "then": true, "when": true, "how": true, "for": true, "but": true, "although": true,
}

// triggerCandidates returns the distinct words eligible to become recall
// triggers: longer than four runes and not a stopword.
func triggerCandidates(t text) []string {
	seen := make(map[string]bool)
	var out []string
	for _, w := range t.words {
		if len([]rune(w)) <= 4 || triggerStopwords[w] || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}
