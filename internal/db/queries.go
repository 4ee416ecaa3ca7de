package db

import (
	"database/sql"

	"unposted/internal/errors"
	"unposted/internal/journal"
)

// InsertEntry appends a new journal entry row. Entries are immutable: there is
// no update or delete counterpart.
func InsertEntry(db *sql.DB, e *journal.Entry) error {
	query := `
		INSERT INTO entries (id, date, transcription, emotion, summary, reflection, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.Exec(query, e.ID, e.Date, e.Transcription, e.Emotion, e.Summary, e.Reflection, e.CreatedAt)
	if err != nil {
		return errors.NewStorage(err)
	}
	return nil
}

// GetEntry retrieves an entry by its ULID.
func GetEntry(db *sql.DB, id string) (*journal.Entry, error) {
	query := `
		SELECT id, date, transcription, emotion, summary, reflection, created_at
		FROM entries
		WHERE id = ?
	`
	var e journal.Entry
	err := db.QueryRow(query, id).Scan(
		&e.ID, &e.Date, &e.Transcription, &e.Emotion, &e.Summary, &e.Reflection, &e.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewStorage(err)
	}
	return &e, nil
}

// ListRecentEntries returns up to limit entry summaries ordered by date
// descending, ties broken by insertion order descending.
func ListRecentEntries(db *sql.DB, limit int) ([]journal.EntrySummary, error) {
	query := `
		SELECT id, date, emotion, summary, created_at
		FROM entries
		ORDER BY date DESC, created_at DESC, id DESC
		LIMIT ?
	`
	rows, err := db.Query(query, limit)
	if err != nil {
		return nil, errors.NewStorage(err)
	}
	defer rows.Close()

	var items []journal.EntrySummary
	for rows.Next() {
		var s journal.EntrySummary
		if err := rows.Scan(&s.ID, &s.Date, &s.Emotion, &s.Summary, &s.CreatedAt); err != nil {
			return nil, errors.NewStorage(err)
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorage(err)
	}
	return items, nil
}

// BumpStreak records one more entry for the given date and returns the new
// count. The single-row upsert gives an atomic read-modify-write even if a
// second process ever shares the database.
func BumpStreak(db *sql.DB, date string) (int, error) {
	query := `
		INSERT INTO streaks (date, count) VALUES (?, 1)
		ON CONFLICT(date) DO UPDATE SET count = count + 1
		RETURNING count
	`
	var count int
	if err := db.QueryRow(query, date).Scan(&count); err != nil {
		return 0, errors.NewStorage(err)
	}
	return count, nil
}

// GetStreak returns the streak count for a date, or 0 if the date has no entries.
func GetStreak(db *sql.DB, date string) (int, error) {
	var count int
	err := db.QueryRow(`SELECT count FROM streaks WHERE date = ?`, date).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, errors.NewStorage(err)
	}
	return count, nil
}

// ListRecentStreaks returns up to limit streak records ordered by date descending.
func ListRecentStreaks(db *sql.DB, limit int) ([]journal.StreakDay, error) {
	rows, err := db.Query(`SELECT date, count FROM streaks ORDER BY date DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.NewStorage(err)
	}
	defer rows.Close()

	var days []journal.StreakDay
	for rows.Next() {
		var d journal.StreakDay
		if err := rows.Scan(&d.Date, &d.Count); err != nil {
			return nil, errors.NewStorage(err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorage(err)
	}
	return days, nil
}

// CountStreakDays returns the total number of distinct days with entries.
func CountStreakDays(db *sql.DB) (int, error) {
	var total int
	if err := db.QueryRow(`SELECT COUNT(*) FROM streaks`).Scan(&total); err != nil {
		return 0, errors.NewStorage(err)
	}
	return total, nil
}
