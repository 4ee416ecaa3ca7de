package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fernet/fernet-go"
	"github.com/urfave/cli/v2"

	"unposted/internal/config"
	"unposted/internal/db"
	"unposted/internal/journal"
	"unposted/internal/ops"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) (*sql.DB, string) {
	t.Helper()
	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir)
	if err != nil {
		t.Fatalf("failed to init test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database, tmpDir
}

// runApp captures stdout around an app.Run call, optionally piping stdin text.
func runApp(t *testing.T, app *cli.App, stdin string, args ...string) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	if stdin != "" {
		oldStdin := os.Stdin
		stdinR, stdinW, _ := os.Pipe()
		os.Stdin = stdinR
		go func() {
			_, _ = stdinW.WriteString(stdin)
			stdinW.Close()
		}()
		defer func() { os.Stdin = oldStdin }()
	}

	err := app.Run(append([]string{"unposted"}, args...))

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout

	return buf.String(), err
}

// TestCLIRecord tests the record command.
func TestCLIRecord(t *testing.T) {
	database, baseDir := setupTestDB(t)
	app := newCLIApp(database, config.DefaultConfig(), baseDir)

	out, err := runApp(t, app, "Today was wonderful, I felt so happy and excited.", "record")
	if err != nil {
		t.Fatalf("record command failed: %v", err)
	}

	var output ops.RecordOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}

	if output.Entry.ID == "" {
		t.Error("expected non-empty entry ID")
	}
	if output.Entry.Emotion != journal.LabelHappy {
		t.Errorf("expected emotion=%s, got %s", journal.LabelHappy, output.Entry.Emotion)
	}
	if output.StreakCount != 1 {
		t.Errorf("expected streak_count=1, got %d", output.StreakCount)
	}
}

// TestCLIRecordWithDate tests the record command with an explicit date.
func TestCLIRecordWithDate(t *testing.T) {
	database, baseDir := setupTestDB(t)
	app := newCLIApp(database, config.DefaultConfig(), baseDir)

	out, err := runApp(t, app, "A quiet walk in the park.", "record", "--date=2026-08-01")
	if err != nil {
		t.Fatalf("record command failed: %v", err)
	}

	var output ops.RecordOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if output.Entry.Date != "2026-08-01" {
		t.Errorf("expected date=2026-08-01, got %s", output.Entry.Date)
	}
}

// TestCLIRecordBadDate tests that a malformed date is rejected.
func TestCLIRecordBadDate(t *testing.T) {
	database, baseDir := setupTestDB(t)
	app := newCLIApp(database, config.DefaultConfig(), baseDir)

	_, err := runApp(t, app, "Some text.", "record", "--date=01/08/2026")
	if err == nil {
		t.Fatal("expected error for malformed date")
	}
	if !strings.Contains(err.Error(), "INVALID_REQUEST") {
		t.Errorf("error = %v, want INVALID_REQUEST", err)
	}
}

// TestCLIEntries tests the entries command.
func TestCLIEntries(t *testing.T) {
	database, baseDir := setupTestDB(t)
	app := newCLIApp(database, config.DefaultConfig(), baseDir)

	if _, err := ops.Record(context.Background(), database, nil, ops.RecordInput{
		Transcript: "Feeling stressed and anxious about everything.",
	}); err != nil {
		t.Fatalf("failed to record test entry: %v", err)
	}

	out, err := runApp(t, app, "", "entries")
	if err != nil {
		t.Fatalf("entries command failed: %v", err)
	}

	var output ops.ListEntriesOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if len(output.Items) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(output.Items))
	}
	if output.Items[0].Emotion != journal.LabelStressed {
		t.Errorf("expected emotion=%s, got %s", journal.LabelStressed, output.Items[0].Emotion)
	}
}

// TestCLIStreaks tests the streaks command.
func TestCLIStreaks(t *testing.T) {
	database, baseDir := setupTestDB(t)
	app := newCLIApp(database, config.DefaultConfig(), baseDir)

	for _, transcript := range []string{"Morning note.", "Evening note."} {
		if _, err := ops.Record(context.Background(), database, nil, ops.RecordInput{
			Transcript: transcript,
		}); err != nil {
			t.Fatalf("failed to record test entry: %v", err)
		}
	}

	out, err := runApp(t, app, "", "streaks")
	if err != nil {
		t.Fatalf("streaks command failed: %v", err)
	}

	var output ops.StreaksOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if output.TotalDays != 1 {
		t.Errorf("expected total_days=1, got %d", output.TotalDays)
	}
	if len(output.Days) != 1 || output.Days[0].Count != 2 {
		t.Errorf("expected one day with count=2, got %+v", output.Days)
	}
}

// TestCLIExport tests the export command.
func TestCLIExport(t *testing.T) {
	database, baseDir := setupTestDB(t)
	app := newCLIApp(database, config.DefaultConfig(), baseDir)

	recorded, err := ops.Record(context.Background(), database, nil, ops.RecordInput{
		Transcript: "Calm and peaceful after yoga.",
	})
	if err != nil {
		t.Fatalf("failed to record test entry: %v", err)
	}

	out, err := runApp(t, app, "", "export", recorded.Entry.ID)
	if err != nil {
		t.Fatalf("export command failed: %v", err)
	}

	var output ops.ExportOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}

	if filepath.Dir(output.Path) != filepath.Join(baseDir, "exports") {
		t.Errorf("export path = %s, want under %s/exports", output.Path, baseDir)
	}
	data, err := os.ReadFile(output.Path)
	if err != nil {
		t.Fatalf("failed to read exported file: %v", err)
	}
	if !strings.Contains(string(data), recorded.Entry.Reflection) {
		t.Errorf("exported file missing reflection text")
	}
}

// TestCLIExportMissingID tests export without an id argument.
func TestCLIExportMissingID(t *testing.T) {
	database, baseDir := setupTestDB(t)
	app := newCLIApp(database, config.DefaultConfig(), baseDir)

	_, err := runApp(t, app, "", "export")
	if err == nil {
		t.Fatal("expected error for missing id")
	}
	if !strings.Contains(err.Error(), "INVALID_REQUEST") {
		t.Errorf("error = %v, want INVALID_REQUEST", err)
	}
}

// TestCLIKeygen tests the keygen command.
func TestCLIKeygen(t *testing.T) {
	app := newCLIApp(nil, nil, "")

	out, err := runApp(t, app, "", "keygen")
	if err != nil {
		t.Fatalf("keygen command failed: %v", err)
	}

	encoded := strings.TrimSpace(out)
	if _, err := fernet.DecodeKey(encoded); err != nil {
		t.Errorf("keygen output is not a valid fernet key: %v", err)
	}
}
