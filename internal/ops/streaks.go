package ops

import (
	"database/sql"

	"unposted/internal/db"
	"unposted/internal/journal"
)

// StreaksInput contains parameters for the Streaks operation.
type StreaksInput struct {
	Limit int // default: 30, max: 100
}

// StreaksOutput contains the streak summary: total journal days plus the most
// recent daily counts.
type StreaksOutput struct {
	TotalDays int                 `json:"total_days"`
	Days      []journal.StreakDay `json:"days"`
}

// Streaks retrieves the streak summary.
func Streaks(database *sql.DB, input StreaksInput) (*StreaksOutput, error) {
	limit := clampLimit(input.Limit, DefaultStreaksLimit)

	total, err := db.CountStreakDays(database)
	if err != nil {
		return nil, err
	}

	days, err := db.ListRecentStreaks(database, limit)
	if err != nil {
		return nil, err
	}
	if days == nil {
		days = []journal.StreakDay{}
	}

	return &StreaksOutput{
		TotalDays: total,
		Days:      days,
	}, nil
}
