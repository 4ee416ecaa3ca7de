package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"unposted/internal/db"
	"unposted/internal/errors"
	"unposted/internal/journal"
	"unposted/internal/process"
)

// RecordInput contains parameters for the Record operation.
type RecordInput struct {
	Transcript string
	Date       string // optional YYYY-MM-DD, defaults to today
}

// RecordOutput contains the result of the Record operation.
type RecordOutput struct {
	Entry       journal.Entry `json:"entry"`
	StreakCount int           `json:"streak_count"`
}

// Record processes a transcript into an entry and persists it, then bumps the
// day's streak. A blank transcript persists nothing and returns
// EMPTY_TRANSCRIPT.
func Record(ctx context.Context, database *sql.DB, gen process.Generator, input RecordInput) (*RecordOutput, error) {
	transcript := strings.TrimSpace(input.Transcript)
	if transcript == "" {
		return nil, errors.NewEmptyTranscript()
	}

	now := time.Now()
	date := input.Date
	if date == "" {
		date = now.Format(journal.DateFormat)
	} else if _, err := time.Parse(journal.DateFormat, date); err != nil {
		return nil, errors.NewInvalidRequest("date must be YYYY-MM-DD")
	}

	outputs := process.Process(ctx, gen, transcript)

	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(now), entropy)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	entry := &journal.Entry{
		ID:            id.String(),
		Date:          date,
		Transcription: transcript,
		Emotion:       outputs.Emotion,
		Summary:       outputs.Summary,
		Reflection:    outputs.Reflection,
		CreatedAt:     now.Unix(),
	}

	if err := db.InsertEntry(database, entry); err != nil {
		return nil, err
	}
	count, err := db.BumpStreak(database, date)
	if err != nil {
		// Entry is committed; report the streak failure rather than pretend success
		return nil, err
	}

	return &RecordOutput{
		Entry:       *entry,
		StreakCount: count,
	}, nil
}
