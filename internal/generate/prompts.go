package generate

import (
	"fmt"
	"strings"

	"unposted/internal/journal"
)

// Three task prompts, one per generated output. English-only.

// EmotionPrompt asks for the main emotion, constrained to the fixed label set.
// The response still passes through journal.NormalizeLabel before persisting.
func EmotionPrompt(transcript string) string {
	return fmt.Sprintf(
		"Identify the main emotion (%s) from this journal entry:\n\n%s",
		strings.Join(journal.Labels, ", "), transcript,
	)
}

// SummaryPrompt asks for a two-sentence summary.
func SummaryPrompt(transcript string) string {
	return fmt.Sprintf("Summarize this in 2 concise sentences:\n\n%s", transcript)
}

// ReflectionPrompt asks for three bullet reflections.
func ReflectionPrompt(transcript string) string {
	return fmt.Sprintf("Write 3 insightful bullet reflections based on this entry:\n\n%s", transcript)
}
