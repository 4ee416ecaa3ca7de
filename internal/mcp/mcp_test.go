package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"unposted/internal/config"
	"unposted/internal/db"
	"unposted/internal/journal"
)

// testSetup creates a temporary database and config for testing.
func testSetup(t *testing.T) (*sql.DB, *config.Config) {
	t.Helper()

	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("failed to init db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return database, config.DefaultConfig()
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func TestHandleRecord(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)
	ctx := context.Background()

	tests := []struct {
		name      string
		args      map[string]any
		wantError bool
		errorCode string
	}{
		{
			name: "record valid transcript",
			args: map[string]any{
				"transcript": "Today was a great day, I felt really happy about the launch.",
			},
			wantError: false,
		},
		{
			name: "record with explicit date",
			args: map[string]any{
				"transcript": "Feeling calm after a long walk.",
				"date":       "2026-08-15",
			},
			wantError: false,
		},
		{
			name:      "record without transcript",
			args:      map[string]any{},
			wantError: true,
			errorCode: "EMPTY_TRANSCRIPT",
		},
		{
			name: "record whitespace-only transcript",
			args: map[string]any{
				"transcript": "   \n\t ",
			},
			wantError: true,
			errorCode: "EMPTY_TRANSCRIPT",
		},
		{
			name: "record with malformed date",
			args: map[string]any{
				"transcript": "Some text.",
				"date":       "15/08/2026",
			},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.HandleRecord(ctx, makeRequest(tt.args))
			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}

			if tt.wantError {
				if !result.IsError {
					t.Errorf("expected error result, got success")
				}
				if tt.errorCode != "" {
					assertErrorCode(t, result, tt.errorCode)
				}
			} else if result.IsError {
				t.Errorf("expected success, got error: %v", extractErrorMessage(result))
			}
		})
	}
}

func TestHandleRecordOutput(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)
	ctx := context.Background()

	result, err := h.HandleRecord(ctx, makeRequest(map[string]any{
		"transcript": "I was so angry and furious at the broken build. Then I calmed down.",
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got error: %v", extractErrorMessage(result))
	}

	output := unmarshalResult(t, result)
	entry, ok := output["entry"].(map[string]any)
	if !ok {
		t.Fatalf("result missing entry object: %v", output)
	}
	if entry["emotion"] != journal.LabelAngry {
		t.Errorf("emotion = %v, want %q", entry["emotion"], journal.LabelAngry)
	}
	if entry["id"] == "" {
		t.Errorf("entry id is empty")
	}
	if output["streak_count"] != float64(1) {
		t.Errorf("streak_count = %v, want 1", output["streak_count"])
	}
}

func TestHandleEntriesAndEntry(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)
	ctx := context.Background()

	recordResult, _ := h.HandleRecord(ctx, makeRequest(map[string]any{
		"transcript": "A peaceful and relaxed evening.",
	}))
	if recordResult.IsError {
		t.Fatalf("setup record failed: %v", extractErrorMessage(recordResult))
	}
	entryID := unmarshalResult(t, recordResult)["entry"].(map[string]any)["id"].(string)

	result, err := h.HandleEntries(ctx, makeRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("entries handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("entries failed: %v", extractErrorMessage(result))
	}
	items, ok := unmarshalResult(t, result)["items"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("items = %v, want one entry", items)
	}

	result, err = h.HandleEntry(ctx, makeRequest(map[string]any{"id": entryID}))
	if err != nil {
		t.Fatalf("entry handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("entry failed: %v", extractErrorMessage(result))
	}
	if got := unmarshalResult(t, result)["emotion"]; got != journal.LabelCalm {
		t.Errorf("emotion = %v, want %q", got, journal.LabelCalm)
	}

	result, err = h.HandleEntry(ctx, makeRequest(map[string]any{"id": "does-not-exist"}))
	if err != nil {
		t.Fatalf("entry handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatalf("expected error for unknown id")
	}
	assertErrorCode(t, result, "NOT_FOUND")
}

func TestHandleStreaks(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)
	ctx := context.Background()

	for _, transcript := range []string{"First note today.", "Second note today."} {
		res, _ := h.HandleRecord(ctx, makeRequest(map[string]any{"transcript": transcript}))
		if res.IsError {
			t.Fatalf("setup record failed: %v", extractErrorMessage(res))
		}
	}

	result, err := h.HandleStreaks(ctx, makeRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("streaks handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("streaks failed: %v", extractErrorMessage(result))
	}

	output := unmarshalResult(t, result)
	if output["total_days"] != float64(1) {
		t.Errorf("total_days = %v, want 1", output["total_days"])
	}
	days, ok := output["days"].([]any)
	if !ok || len(days) != 1 {
		t.Fatalf("days = %v, want one day", output["days"])
	}
	if count := days[0].(map[string]any)["count"]; count != float64(2) {
		t.Errorf("count = %v, want 2", count)
	}
}

func TestValidateDisabledTools(t *testing.T) {
	unknown := ValidateDisabledTools([]string{"journal_record", "bogus_tool"})
	if len(unknown) != 1 || unknown[0] != "bogus_tool" {
		t.Errorf("unknown = %v, want [bogus_tool]", unknown)
	}
}

func TestAllToolNames(t *testing.T) {
	names := AllToolNames()
	if len(names) != len(toolRegistry) {
		t.Errorf("got %d names, want %d", len(names), len(toolRegistry))
	}
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			t.Errorf("unexpected tool name %q", name)
		}
	}
}

func TestNewServerSkipsDisabledTools(t *testing.T) {
	database, cfg := testSetup(t)
	cfg.DisabledTools = []string{"journal_record"}

	s := NewServer(database, cfg, "test")
	if s == nil {
		t.Fatal("NewServer returned nil")
	}
}

// Helpers

func unmarshalResult(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is not TextContent")
	}

	var output map[string]any
	if err := json.Unmarshal([]byte(text.Text), &output); err != nil {
		t.Fatalf("failed to unmarshal result: %v", err)
	}
	return output
}

func assertErrorCode(t *testing.T, result *mcp.CallToolResult, expectedCode string) {
	t.Helper()

	payload := unmarshalResult(t, result)
	errorObj, ok := payload["error"].(map[string]any)
	if !ok {
		t.Errorf("payload has no error object: %v", payload)
		return
	}
	if errorObj["code"] != expectedCode {
		t.Errorf("error code = %v, want %q", errorObj["code"], expectedCode)
	}
}

func extractErrorMessage(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return "<no content>"
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		return "<not text content>"
	}

	return text.Text
}
