package ops

import (
	"context"
	"fmt"
	"testing"

	"unposted/internal/errors"
)

func TestListEntries(t *testing.T) {
	database := setupDB(t)

	for i := 0; i < 12; i++ {
		date := fmt.Sprintf("2026-08-%02d", i+1)
		if _, err := Record(context.Background(), database, nil, RecordInput{
			Transcript: fmt.Sprintf("Entry number %d.", i),
			Date:       date,
		}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	out, err := ListEntries(database, ListEntriesInput{})
	if err != nil {
		t.Fatalf("ListEntries error = %v", err)
	}
	if len(out.Items) != DefaultEntriesLimit {
		t.Errorf("items = %d, want default limit %d", len(out.Items), DefaultEntriesLimit)
	}
	if out.Items[0].Date != "2026-08-12" {
		t.Errorf("first item date = %q, want newest", out.Items[0].Date)
	}
	for i := 1; i < len(out.Items); i++ {
		if out.Items[i].Date > out.Items[i-1].Date {
			t.Errorf("dates not non-increasing at %d", i)
		}
	}
}

func TestListEntriesEmpty(t *testing.T) {
	database := setupDB(t)

	out, err := ListEntries(database, ListEntriesInput{})
	if err != nil {
		t.Fatalf("ListEntries error = %v", err)
	}
	if out.Items == nil {
		t.Error("Items is nil, want empty slice")
	}
	if len(out.Items) != 0 {
		t.Errorf("items = %d, want 0", len(out.Items))
	}
}

func TestListEntriesClampsLimit(t *testing.T) {
	database := setupDB(t)

	out, err := ListEntries(database, ListEntriesInput{Limit: 100000})
	if err != nil {
		t.Fatalf("ListEntries error = %v", err)
	}
	_ = out // limit is clamped inside the query; just verify no error path
}

func TestFetch(t *testing.T) {
	database := setupDB(t)

	rec, err := Record(context.Background(), database, nil, RecordInput{Transcript: "Hello there."})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, err := Fetch(database, FetchInput{ID: rec.Entry.ID})
	if err != nil {
		t.Fatalf("Fetch error = %v", err)
	}
	if got.Transcription != "Hello there." {
		t.Errorf("Transcription = %q", got.Transcription)
	}
}

func TestFetchValidation(t *testing.T) {
	database := setupDB(t)

	if _, err := Fetch(database, FetchInput{ID: "  "}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("blank id error = %v, want INVALID_REQUEST", err)
	}
	if _, err := Fetch(database, FetchInput{ID: "missing"}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("missing id error = %v, want NOT_FOUND", err)
	}
}
