package ops

import (
	"database/sql"
	"strings"

	"unposted/internal/db"
	"unposted/internal/errors"
	"unposted/internal/journal"
)

// ListEntriesInput contains parameters for the ListEntries operation.
type ListEntriesInput struct {
	Limit int // default: 10, max: 100
}

// ListEntriesOutput contains the result of the ListEntries operation.
type ListEntriesOutput struct {
	Items []journal.EntrySummary `json:"items"`
	Sort  string                 `json:"sort"`
}

// ListEntries retrieves the most recent entry summaries.
func ListEntries(database *sql.DB, input ListEntriesInput) (*ListEntriesOutput, error) {
	limit := clampLimit(input.Limit, DefaultEntriesLimit)

	items, err := db.ListRecentEntries(database, limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []journal.EntrySummary{}
	}

	return &ListEntriesOutput{
		Items: items,
		Sort:  "date_desc",
	}, nil
}

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	ID string
}

// Fetch retrieves a single entry with its full text.
func Fetch(database *sql.DB, input FetchInput) (*journal.Entry, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}
	return db.GetEntry(database, id)
}
