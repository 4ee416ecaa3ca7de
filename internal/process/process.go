// Package process orchestrates the three generated outputs for one transcript:
// try the remote generation call, substitute the offline fallback when the
// call fails or its result is unusable.
package process

import (
	"context"
	"log"

	"unposted/internal/generate"
	"unposted/internal/journal"
)

// Generator is the remote text-generation capability. A nil Generator means
// fallback-only mode (credential absent).
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Outputs is the structured result of processing one transcript.
type Outputs struct {
	Emotion    string `json:"emotion"`
	Summary    string `json:"summary"`
	Reflection string `json:"reflection"`
}

// Process derives emotion, summary, and reflection from a transcript.
// The caller guarantees transcript is non-empty. Emotion always passes
// through NormalizeLabel, so the result is one of the five fixed labels
// regardless of which path produced it. No persistence side effects.
func Process(ctx context.Context, gen Generator, transcript string) Outputs {
	emotion := attempt(ctx, gen, generate.EmotionPrompt(transcript), func() string {
		return journal.DetectEmotion(transcript)
	})
	emotion = journal.NormalizeLabel(emotion)

	summary := attempt(ctx, gen, generate.SummaryPrompt(transcript), func() string {
		return journal.Summarize(transcript)
	})

	reflection := attempt(ctx, gen, generate.ReflectionPrompt(transcript), func() string {
		return journal.Reflect(transcript, emotion)
	})

	return Outputs{
		Emotion:    emotion,
		Summary:    summary,
		Reflection: reflection,
	}
}

// attempt runs one remote generation and substitutes fallback() when the call
// errors or returns a sentinel. Remote errors stop here: the entry is still
// processed, just offline.
func attempt(ctx context.Context, gen Generator, prompt string, fallback func() string) string {
	if gen == nil {
		return fallback()
	}
	text, err := gen.Generate(ctx, prompt)
	if err != nil {
		log.Printf("process: generation unavailable, using fallback: %v", err)
		return fallback()
	}
	if journal.IsUnusable(text) {
		return fallback()
	}
	return text
}
