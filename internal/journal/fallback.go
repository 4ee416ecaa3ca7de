package journal

import (
	"fmt"
	"strings"
	"unicode"
)

// The fallback engine produces emotion, summary, and reflection text from a
// transcript with no remote dependency. It substitutes for the generation API
// whenever that call is unavailable or returns an unusable result.

// labelKeywords associates each label with its scoring keywords. An ordered
// slice, not a map: the detector breaks score ties by declaration order.
var labelKeywords = []struct {
	label    string
	keywords []string
}{
	{LabelHappy, []string{"happy", "joy", "excited", "good", "great", "love"}},
	{LabelSad, []string{"sad", "down", "lonely", "upset"}},
	{LabelAngry, []string{"angry", "mad", "furious"}},
	{LabelStressed, []string{"stressed", "anxious", "tense"}},
	{LabelCalm, []string{"calm", "peaceful", "relaxed"}},
}

// sentinelWords are reserved values signaling that a remote call produced no
// usable output. A model can echo these back, so successful responses are
// checked too.
var sentinelWords = map[string]bool{
	"":            true,
	"unavailable": true,
	"error":       true,
	"n/a":         true,
}

// IsUnusable reports whether s is blank or one of the unavailable sentinels,
// ignoring case and surrounding whitespace.
func IsUnusable(s string) bool {
	return sentinelWords[strings.ToLower(strings.TrimSpace(s))]
}

// DetectEmotion scores the transcript against each label's keyword list and
// returns the label with the strictly highest occurrence sum. All-zero scores
// return Calm. Ties go to the first declared label.
func DetectEmotion(text string) string {
	t := strings.ToLower(text)

	best := LabelCalm
	bestScore := 0
	for _, lk := range labelKeywords {
		score := 0
		for _, kw := range lk.keywords {
			score += countOccurrences(t, kw)
		}
		if score > bestScore {
			best = lk.label
			bestScore = score
		}
	}
	return best
}

// countOccurrences counts occurrences of sub in s, advancing one byte past
// each match start so overlapping matches are all counted.
func countOccurrences(s, sub string) int {
	if sub == "" {
		return 0
	}
	n := 0
	for i := 0; ; {
		j := strings.Index(s[i:], sub)
		if j < 0 {
			return n
		}
		n++
		i += j + 1
	}
}

// Summarize produces a short offline summary: the first one or two sentences,
// or a prefix of the raw text when no sentence boundary exists.
func Summarize(text string) string {
	sents := splitSentences(text)
	switch len(sents) {
	case 0:
		return truncate(text, 300)
	case 1:
		return truncate(sents[0], 300)
	default:
		return truncate(sents[0]+" "+sents[1], 400)
	}
}

// splitSentences splits text at `.`, `!`, or `?` followed by whitespace.
// Trailing text without boundary punctuation counts as a final sentence.
func splitSentences(text string) []string {
	runes := []rune(strings.TrimSpace(text))

	var sents []string
	start := 0
	for i := 0; i < len(runes)-1; i++ {
		if isBoundary(runes[i]) && unicode.IsSpace(runes[i+1]) {
			if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
				sents = append(sents, s)
			}
			start = i + 1
		}
	}
	if start < len(runes) {
		if s := strings.TrimSpace(string(runes[start:])); s != "" {
			sents = append(sents, s)
		}
	}
	return sents
}

func isBoundary(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// Reflect produces exactly three bullet lines: the detected emotion stated
// back, the first non-empty transcript line (or a generic recall prompt), and
// a fixed forward-looking question.
func Reflect(text, emotion string) string {
	firstLine := ""
	for _, line := range strings.Split(text, "\n") {
		if l := strings.TrimSpace(line); l != "" {
			firstLine = l
			break
		}
	}

	mention := "- Recall one concrete moment from today that stands out."
	if firstLine != "" {
		mention = "- You mentioned: " + truncate(firstLine, 120)
	}

	lines := []string{
		fmt.Sprintf("- You felt %s while describing this.", strings.ToLower(emotion)),
		mention,
		"- What is one small step you can take tomorrow to support yourself?",
	}
	return strings.Join(lines, "\n")
}

// NormalizeLabel maps arbitrary generated text onto the fixed label set, so
// the persisted emotion is always one of Labels. Unusable input returns Calm.
// Otherwise the first label appearing as a case-insensitive substring wins;
// failing that, the first whitespace token stripped of non-alphabetic runes is
// matched exactly. Idempotent: normalizing a canonical label returns it.
func NormalizeLabel(raw string) string {
	if IsUnusable(raw) {
		return LabelCalm
	}

	lower := strings.ToLower(raw)
	for _, label := range Labels {
		if strings.Contains(lower, strings.ToLower(label)) {
			return label
		}
	}

	if fields := strings.Fields(lower); len(fields) > 0 {
		token := stripNonAlpha(fields[0])
		for _, label := range Labels {
			if token == strings.ToLower(label) {
				return label
			}
		}
	}

	return LabelCalm
}

// stripNonAlpha removes every non-letter rune from s.
func stripNonAlpha(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// truncate returns at most n runes of s.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
